package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPatternStore_LoadCategories(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrapped document", func(t *testing.T) {
		path := writeFile(t, dir, "categories.yaml", `
categories:
  - name: 식비
    keywords: [스타벅스, 커피]
  - name: 교통
    keywords: [택시]
`)
		s := NewPatternStore("", path, "", nil)
		categories, err := s.LoadCategories()
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "식비", categories[0].Name)
		assert.Equal(t, []string{"스타벅스", "커피"}, categories[0].Keywords)
	})

	t.Run("bare list", func(t *testing.T) {
		path := writeFile(t, dir, "bare.yaml", `
- name: 쇼핑
  keywords: [쿠팡]
`)
		s := NewPatternStore("", path, "", nil)
		categories, err := s.LoadCategories()
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "쇼핑", categories[0].Name)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		s := NewPatternStore("", filepath.Join(dir, "nope.yaml"), "", nil)
		categories, err := s.LoadCategories()
		require.NoError(t, err)
		assert.Nil(t, categories)
	})
}

func TestPatternStore_LoadIssuers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "issuers.yaml", `
issuers:
  - name: 신한카드
    pattern: '신한카드.*?([0-9][0-9,]*)\s*원'
    priority: 1
`)
	s := NewPatternStore(path, "", "", nil)
	issuers, err := s.LoadIssuers()
	require.NoError(t, err)
	require.Len(t, issuers, 1)
	assert.Equal(t, "신한카드", issuers[0].Name)
	assert.Equal(t, 1, issuers[0].Priority)
}

func TestPatternStore_MerchantMappings_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "merchants.yaml", "merchants: {}\n")

	s := NewPatternStore("", "", path, nil)
	mappings := map[string]string{"스타벅스": "식비", "gs25": "생활"}
	require.NoError(t, s.SaveMerchantMappings(mappings))

	loaded, err := s.LoadMerchantMappings()
	require.NoError(t, err)
	assert.Equal(t, mappings, loaded)
}

func TestPatternStore_LoadMerchantMappings_BareMap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bare-merchants.yaml", "스타벅스: 식비\n")

	s := NewPatternStore("", "", path, nil)
	loaded, err := s.LoadMerchantMappings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"스타벅스": "식비"}, loaded)
}
