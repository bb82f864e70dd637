// Package models defines the core data structures shared across the application:
// raw notification messages, parsed expense candidates, ledger expenses, and the
// pattern table configuration loaded from YAML.
package models

import "time"

// MessageDirection indicates whether a message was received or sent.
type MessageDirection string

const (
	DirectionIncoming MessageDirection = "incoming"
	DirectionOutgoing MessageDirection = "outgoing"
)

// Message is one raw notification message as returned by a message source.
// Messages are immutable once fetched; the import session only reads them.
type Message struct {
	ID         string
	Address    string
	Body       string
	ReceivedAt time.Time
	Direction  MessageDirection
}
