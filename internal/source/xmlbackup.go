package source

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"

	"gopkg.in/xmlpath.v2"
)

// XPath expressions for the Android "SMS Backup & Restore" XML format:
// <smses><sms address="..." body="..." date="<epoch ms>" type="1|2"/></smses>
var (
	xpathSMS     = xmlpath.MustCompile("/smses/sms")
	xpathAddress = xmlpath.MustCompile("@address")
	xpathBody    = xmlpath.MustCompile("@body")
	xpathDate    = xmlpath.MustCompile("@date")
	xpathType    = xmlpath.MustCompile("@type")
)

// XMLBackupSource reads messages from an Android SMS backup XML file.
type XMLBackupSource struct {
	path   string
	logger logging.Logger
}

// NewXMLBackupSource creates a source over the given backup file.
func NewXMLBackupSource(path string, logger logging.Logger) *XMLBackupSource {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &XMLBackupSource{path: path, logger: logger}
}

// Name identifies the source.
func (s *XMLBackupSource) Name() string { return "xml" }

// CheckPermission reports whether the backup file is readable.
func (s *XMLBackupSource) CheckPermission(context.Context) (bool, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	_ = file.Close()
	return true, nil
}

// RequestPermission cannot grant file access; it re-checks only.
func (s *XMLBackupSource) RequestPermission(ctx context.Context) (bool, error) {
	return s.CheckPermission(ctx)
}

// FetchMessages parses the backup and converts every <sms> element.
func (s *XMLBackupSource) FetchMessages(ctx context.Context) ([]models.Message, error) {
	ok, err := s.CheckPermission(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot read %s", ErrPermissionDenied, s.path)
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening backup file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close backup file")
		}
	}()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing backup XML: %w", err)
	}

	var messages []models.Message
	index := 0
	iter := xpathSMS.Iter(root)
	for iter.Next() {
		node := iter.Node()
		index++

		body, _ := xpathBody.String(node)
		if body == "" {
			continue
		}
		if typeText, _ := xpathType.String(node); typeText == "2" {
			// Sent messages never carry payment notifications.
			continue
		}
		address, _ := xpathAddress.String(node)

		receivedAt := time.Time{}
		if dateText, ok := xpathDate.String(node); ok {
			if ms, err := strconv.ParseInt(dateText, 10, 64); err == nil {
				receivedAt = time.UnixMilli(ms)
			}
		}

		messages = append(messages, models.Message{
			ID:         fmt.Sprintf("xml-%d", index),
			Address:    address,
			Body:       body,
			ReceivedAt: receivedAt,
			Direction:  models.DirectionIncoming,
		})
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldSource, Value: s.Name()},
		logging.Field{Key: logging.FieldCount, Value: len(messages)},
	).Info("Fetched messages from SMS backup")
	return messages, nil
}
