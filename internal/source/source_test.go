package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jaehyun/sms-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSource(t *testing.T) {
	s := NewSimulatedSource()
	ctx := context.Background()

	ok, err := s.CheckPermission(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	messages, err := s.FetchMessages(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, messages)

	// Only incoming messages are served; the dataset's outgoing entry is
	// filtered at the source.
	for _, m := range messages {
		assert.Equal(t, models.DirectionIncoming, m.Direction)
		assert.NotEmpty(t, m.Body)
	}
}

func TestCSVSource_FetchMessages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.csv")
	content := "id,address,body,received_at,direction\n" +
		"m-1,15881234,\"[신한카드] 12/25 15:30 스타벅스 결제 6,500원 승인\",2024-12-25T15:31:00Z,incoming\n" +
		"m-2,010,답장입니다,1735115460000,outgoing\n" +
		"m-3,15884000,,2024-12-25T16:00:00Z,incoming\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := NewCSVSource(path, nil)
	messages, err := s.FetchMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1, "outgoing and empty-body rows are skipped")

	assert.Equal(t, "m-1", messages[0].ID)
	assert.Equal(t, models.DirectionIncoming, messages[0].Direction)
	assert.Equal(t, time.Date(2024, 12, 25, 15, 31, 0, 0, time.UTC), messages[0].ReceivedAt.UTC())
	assert.Contains(t, messages[0].Body, "스타벅스")
}

func TestCSVSource_PermissionDenied(t *testing.T) {
	s := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), nil)

	ok, err := s.CheckPermission(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.FetchMessages(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestXMLBackupSource_FetchMessages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.xml")
	content := `<?xml version="1.0" encoding="UTF-8"?>
<smses count="3">
  <sms address="15881234" date="1735140660000" type="1" body="[신한카드] 12/25 15:30 스타벅스 결제 6,500원 승인" />
  <sms address="010" date="1735140700000" type="2" body="네 알겠습니다" />
  <sms address="15884000" date="1735140800000" type="1" body="" />
</smses>
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := NewXMLBackupSource(path, nil)
	messages, err := s.FetchMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1, "outgoing and empty-body elements are skipped")

	assert.Equal(t, "15881234", messages[0].Address)
	assert.Equal(t, models.DirectionIncoming, messages[0].Direction)
	assert.Equal(t, int64(1735140660000), messages[0].ReceivedAt.UnixMilli())
	assert.Contains(t, messages[0].Body, "결제")
}

func TestXMLBackupSource_PermissionDenied(t *testing.T) {
	s := NewXMLBackupSource(filepath.Join(t.TempDir(), "missing.xml"), nil)

	_, err := s.FetchMessages(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
