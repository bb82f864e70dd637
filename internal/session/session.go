// Package session implements the import session: one "open the import view"
// interaction over a message source, the parser, and the ledger. It tracks
// which candidates were already accepted this session and guarantees at most
// one ledger write per fingerprint per session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jaehyun/sms-ledger/internal/ledger"
	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"
	"jaehyun/sms-ledger/internal/smsparser"
	"jaehyun/sms-ledger/internal/source"
)

// State describes the session lifecycle.
type State string

const (
	StateClosed             State = "closed"
	StateLoading            State = "loading"
	StatePermissionRequired State = "permission_required"
	StateEmpty              State = "empty"
	StateReady              State = "ready"
	StateAccepting          State = "accepting"
)

// Status is the outcome of an accept call. Already-added and nothing-to-add
// are informational results, not errors.
type Status string

const (
	StatusAccepted     Status = "accepted"
	StatusAlreadyAdded Status = "already_added"
	StatusNothingToAdd Status = "nothing_to_add"
)

// ErrClosed is returned when an operation is called on a closed session.
var ErrClosed = errors.New("session is not open")

// Item pairs a fetched message with its parse result. Candidate is nil when
// the parser found no payment in the message; such items stay visible as
// "could not auto-detect" rows but cannot be accepted.
type Item struct {
	Message   models.Message
	Candidate *models.ExpenseCandidate
}

// Parseable reports whether the item carries an actionable candidate.
func (i Item) Parseable() bool { return i.Candidate != nil }

// CandidateEdit overrides parsed fields before acceptance. Nil fields keep
// the parsed value. Edits apply before fingerprinting, so an edited candidate
// dedups on its edited content.
type CandidateEdit struct {
	Amount      *int64
	Description *string
	Merchant    *string
	Category    *string
}

// AcceptResult is the outcome of a single accept.
type AcceptResult struct {
	Status    Status
	ExpenseID string
}

// BatchResult reports an accept-all run. Accepted counts successful ledger
// writes; Skipped counts fingerprints that were already in the accepted set
// when their turn came. Err, when set, is the failure that halted the batch,
// and FailedIndex is the position (within the attempted batch) of the item
// that failed.
type BatchResult struct {
	Status      Status
	Accepted    int
	Skipped     int
	FailedIndex int
	Err         error
}

// Session is the import session manager. All methods are safe for concurrent
// use; the in-flight set makes a second accept for the same fingerprint an
// "already added" no-op even while the first ledger write is pending.
type Session struct {
	src     source.MessageSource
	parser  *smsparser.Parser
	ledger  ledger.Ledger
	logger  logging.Logger
	groupID string
	userID  string

	mu       sync.Mutex
	state    State
	items    []Item
	accepted map[string]bool
	inFlight map[string]bool
}

// New wires a session over its collaborators. The session starts closed;
// call Open to load candidates.
func New(src source.MessageSource, parser *smsparser.Parser, lgr ledger.Ledger, groupID, userID string, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{
		src:      src,
		parser:   parser,
		ledger:   lgr,
		logger:   logger,
		groupID:  groupID,
		userID:   userID,
		state:    StateClosed,
		accepted: map[string]bool{},
		inFlight: map[string]bool{},
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open fetches messages from the source, parses each, and resets the
// accepted set. Reopening always starts from an empty accepted set. A
// permission-denied source leaves the session in StatePermissionRequired
// rather than failing it.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.items = nil
	s.accepted = map[string]bool{}
	s.inFlight = map[string]bool{}
	s.mu.Unlock()

	ok, err := s.src.CheckPermission(ctx)
	if err != nil {
		s.setState(StateClosed)
		return fmt.Errorf("error checking source permission: %w", err)
	}
	if !ok {
		ok, err = s.src.RequestPermission(ctx)
		if err != nil {
			s.setState(StateClosed)
			return fmt.Errorf("error requesting source permission: %w", err)
		}
		if !ok {
			s.logger.WithFields(
				logging.Field{Key: logging.FieldSource, Value: s.src.Name()},
				logging.Field{Key: logging.FieldState, Value: StatePermissionRequired},
			).Warn("Message source permission denied")
			s.setState(StatePermissionRequired)
			return nil
		}
	}

	messages, err := s.src.FetchMessages(ctx)
	if err != nil {
		if errors.Is(err, source.ErrPermissionDenied) {
			s.setState(StatePermissionRequired)
			return nil
		}
		s.setState(StateClosed)
		return fmt.Errorf("error fetching messages: %w", err)
	}

	items := make([]Item, 0, len(messages))
	parsed := 0
	for _, msg := range messages {
		candidate := s.parser.Parse(ctx, msg)
		if candidate != nil {
			parsed++
		}
		items = append(items, Item{Message: msg, Candidate: candidate})
	}

	s.mu.Lock()
	s.items = items
	if len(items) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateReady
	}
	state := s.state
	s.mu.Unlock()

	s.logger.WithFields(
		logging.Field{Key: logging.FieldSource, Value: s.src.Name()},
		logging.Field{Key: logging.FieldState, Value: state},
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: "parsed", Value: parsed},
	).Info("Import session opened")
	return nil
}

// Items returns the full working list, accepted or not.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Visible returns items not yet accepted this session. Unparsed items are
// always visible since they have no fingerprint to track.
func (s *Session) Visible() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *Session) visibleLocked() []Item {
	var out []Item
	for _, item := range s.items {
		if item.Candidate != nil && s.accepted[item.Candidate.Fingerprint()] {
			continue
		}
		out = append(out, item)
	}
	return out
}

// AcceptOne submits one candidate to the ledger. A fingerprint already in
// the accepted set reports StatusAlreadyAdded without a second write; a
// failed write leaves the fingerprint unaccepted so the user may retry.
func (s *Session) AcceptOne(ctx context.Context, candidate models.ExpenseCandidate) (AcceptResult, error) {
	fingerprint := candidate.Fingerprint()

	s.mu.Lock()
	if s.state != StateReady && s.state != StateAccepting {
		s.mu.Unlock()
		return AcceptResult{}, ErrClosed
	}
	if s.accepted[fingerprint] || s.inFlight[fingerprint] {
		s.mu.Unlock()
		s.logger.WithField(logging.FieldFingerprint, fingerprint).
			Debug("Candidate already added this session")
		return AcceptResult{Status: StatusAlreadyAdded}, nil
	}
	// Mark in flight before releasing the lock so a racing second accept
	// of the same fingerprint cannot start another write.
	s.inFlight[fingerprint] = true
	s.mu.Unlock()

	expense := models.ExpenseFromCandidate(candidate, s.groupID, s.userID)
	id, err := s.ledger.Submit(ctx, expense)

	s.mu.Lock()
	delete(s.inFlight, fingerprint)
	if err == nil {
		s.accepted[fingerprint] = true
	}
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, ledger.ErrDuplicate) {
			s.logger.WithField(logging.FieldFingerprint, fingerprint).
				Info("Ledger already holds this expense")
		} else {
			s.logger.WithError(err).WithField(logging.FieldFingerprint, fingerprint).
				Error("Ledger submission failed")
		}
		return AcceptResult{}, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFingerprint, Value: fingerprint},
		logging.Field{Key: logging.FieldAmount, Value: candidate.Amount},
		logging.Field{Key: logging.FieldLedger, Value: id},
	).Info("Candidate accepted")
	return AcceptResult{Status: StatusAccepted, ExpenseID: id}, nil
}

// AcceptAll submits every visible candidate sequentially. An empty visible
// set reports StatusNothingToAdd. A failure halts the batch; items accepted
// before the failure stay accepted, the rest remain visible, so retrying the
// batch never re-submits earlier successes.
func (s *Session) AcceptAll(ctx context.Context) BatchResult {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return BatchResult{Status: StatusNothingToAdd, FailedIndex: -1, Err: ErrClosed}
	}

	var batch []models.ExpenseCandidate
	for _, item := range s.visibleLocked() {
		if item.Candidate != nil {
			batch = append(batch, *item.Candidate)
		}
	}
	if len(batch) == 0 {
		s.mu.Unlock()
		return BatchResult{Status: StatusNothingToAdd, FailedIndex: -1}
	}
	s.state = StateAccepting
	s.mu.Unlock()

	defer s.setState(StateReady)

	result := BatchResult{Status: StatusAccepted, FailedIndex: -1}
	for i, candidate := range batch {
		one, err := s.AcceptOne(ctx, candidate)
		if errors.Is(err, ledger.ErrDuplicate) {
			// The ledger already holds this expense from an earlier session.
			// Retrying can never succeed, so mark it accepted and move on
			// instead of wedging the batch on it.
			s.mu.Lock()
			s.accepted[candidate.Fingerprint()] = true
			s.mu.Unlock()
			result.Skipped++
			continue
		}
		if err != nil {
			result.FailedIndex = i
			result.Err = err
			break
		}
		switch one.Status {
		case StatusAccepted:
			result.Accepted++
		case StatusAlreadyAdded:
			result.Skipped++
		}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: result.Accepted},
		logging.Field{Key: "skipped", Value: result.Skipped},
	).Info("Batch accept finished")
	return result
}

// Edit applies overrides to the parsed candidate at the given item index.
// The edited candidate replaces the stored one, so fingerprinting and any
// later accept see the edited content.
func (s *Session) Edit(index int, edit CandidateEdit) (*models.ExpenseCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrClosed
	}
	if index < 0 || index >= len(s.items) {
		return nil, fmt.Errorf("item index %d out of range", index)
	}
	item := s.items[index]
	if item.Candidate == nil {
		return nil, fmt.Errorf("item %d has no parsed candidate to edit", index)
	}

	edited := *item.Candidate
	if edit.Amount != nil {
		edited.Amount = *edit.Amount
	}
	if edit.Description != nil {
		edited.Description = *edit.Description
	}
	if edit.Merchant != nil {
		edited.Merchant = *edit.Merchant
	}
	if edit.Category != nil {
		edited.Category = *edit.Category
	}
	s.items[index].Candidate = &edited
	return &edited, nil
}

// Remove drops an item from the working list for the rest of the session.
// It never touches the accepted set or the ledger.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrClosed
	}
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("item index %d out of range", index)
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	if len(s.items) == 0 {
		s.state = StateEmpty
	}
	return nil
}

// ResetAccepted clears the accepted-fingerprint set so previously accepted
// candidates reappear in the visible list. It is a view-filter reset only;
// nothing is un-submitted from the ledger.
func (s *Session) ResetAccepted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted = map[string]bool{}
}

// Close discards all session state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
	s.items = nil
	s.accepted = map[string]bool{}
	s.inFlight = map[string]bool{}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
