package source

import (
	"context"
	"time"

	"jaehyun/sms-ledger/internal/models"
)

// SimulatedSource serves a fixed dataset of notification messages. It backs
// demos and environments that have no real message store, and doubles as the
// default source in tests. Always permitted.
type SimulatedSource struct {
	messages []models.Message
}

// NewSimulatedSource creates a source over the built-in sample dataset.
func NewSimulatedSource() *SimulatedSource {
	now := time.Now()
	return &SimulatedSource{
		messages: []models.Message{
			{
				ID:         "sim-1",
				Address:    "15881234",
				Body:       "[신한카드] 12/25 15:30 스타벅스 결제 6,500원 승인",
				ReceivedAt: now.Add(-3 * time.Hour),
				Direction:  models.DirectionIncoming,
			},
			{
				ID:         "sim-2",
				Address:    "15884000",
				Body:       "KB국민카드 12/25 12:10 교촌치킨 결제 18,000원 일시불",
				ReceivedAt: now.Add(-6 * time.Hour),
				Direction:  models.DirectionIncoming,
			},
			{
				ID:         "sim-3",
				Address:    "15880000",
				Body:       "카카오페이 결제 3,200원 GS25 역삼점",
				ReceivedAt: now.Add(-26 * time.Hour),
				Direction:  models.DirectionIncoming,
			},
			{
				ID:         "sim-4",
				Address:    "15990000",
				Body:       "고객님 요금 안내드립니다",
				ReceivedAt: now.Add(-30 * time.Hour),
				Direction:  models.DirectionIncoming,
			},
			{
				ID:         "sim-5",
				Address:    "010",
				Body:       "엄마 나 3만원만",
				ReceivedAt: now.Add(-31 * time.Hour),
				Direction:  models.DirectionOutgoing,
			},
		},
	}
}

// NewSimulatedSourceWithMessages creates a source over a caller-provided
// dataset.
func NewSimulatedSourceWithMessages(messages []models.Message) *SimulatedSource {
	return &SimulatedSource{messages: messages}
}

// Name identifies the source.
func (s *SimulatedSource) Name() string { return "simulated" }

// CheckPermission always grants access.
func (s *SimulatedSource) CheckPermission(context.Context) (bool, error) { return true, nil }

// RequestPermission always grants access.
func (s *SimulatedSource) RequestPermission(context.Context) (bool, error) { return true, nil }

// FetchMessages returns the incoming messages of the dataset. Outgoing
// messages never carry payment notifications and are dropped at the source.
func (s *SimulatedSource) FetchMessages(context.Context) ([]models.Message, error) {
	out := make([]models.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		if msg.Direction == models.DirectionOutgoing {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}
