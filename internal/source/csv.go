package source

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"

	"github.com/gocarina/gocsv"
)

// csvMessageRow maps one row of a message CSV export.
// received_at accepts RFC 3339 or epoch milliseconds.
type csvMessageRow struct {
	ID         string `csv:"id"`
	Address    string `csv:"address"`
	Body       string `csv:"body"`
	ReceivedAt string `csv:"received_at"`
	Direction  string `csv:"direction"`
}

// CSVSource reads messages from a CSV export file. Permission maps to file
// readability.
type CSVSource struct {
	path   string
	logger logging.Logger
}

// NewCSVSource creates a source over the given CSV file.
func NewCSVSource(path string, logger logging.Logger) *CSVSource {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CSVSource{path: path, logger: logger}
}

// Name identifies the source.
func (s *CSVSource) Name() string { return "csv" }

// CheckPermission reports whether the CSV file is readable.
func (s *CSVSource) CheckPermission(context.Context) (bool, error) {
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
func (s *CSVSource) RequestPermission(ctx context.Context) (bool, error) {
	return s.CheckPermission(ctx)
}

// FetchMessages reads and converts every row of the export.
func (s *CSVSource) FetchMessages(ctx context.Context) ([]models.Message, error) {
	ok, err := s.CheckPermission(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot read %s", ErrPermissionDenied, s.path)
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	var rows []csvMessageRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	messages := make([]models.Message, 0, len(rows))
	for i, row := range rows {
		if row.Body == "" {
			continue
		}
		direction := parseDirection(row.Direction)
		if direction == models.DirectionOutgoing {
			// Only incoming messages can carry payment notifications.
			continue
		}
		receivedAt, err := parseReceivedAt(row.ReceivedAt)
		if err != nil {
			s.logger.WithError(err).WithField("row", i+1).Warn("Skipping row with bad timestamp")
			continue
		}
		messages = append(messages, models.Message{
			ID:         row.ID,
			Address:    row.Address,
			Body:       row.Body,
			ReceivedAt: receivedAt,
			Direction:  direction,
		})
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldSource, Value: s.Name()},
		logging.Field{Key: logging.FieldCount, Value: len(messages)},
	).Info("Fetched messages from CSV export")
	return messages, nil
}

func parseReceivedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
	}
	return time.UnixMilli(ms), nil
}

func parseDirection(value string) models.MessageDirection {
	switch value {
	case "outgoing", "2":
		return models.DirectionOutgoing
	default:
		return models.DirectionIncoming
	}
}
