package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/petrijr/convo/pkg/api"
)

// MemoryStore is a goroutine-safe implementation of api.StateStore and
// api.RecordStore backed by maps. It is the store used in tests and in
// single-process deployments that can afford to lose state on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	states     map[int64]*api.ConversationState
	agreements map[string]*api.Agreement
	reminders  map[string][]api.Reminder
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:     make(map[int64]*api.ConversationState),
		agreements: make(map[string]*api.Agreement),
		reminders:  make(map[string][]api.Reminder),
	}
}

var _ api.StateStore = (*MemoryStore)(nil)

var _ api.RecordStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load(ctx context.Context, userID int64) (*api.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[userID]
	if !ok {
		return nil, api.ErrStateNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, st *api.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	s.states[st.UserID] = &cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}

func (s *MemoryStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, st := range s.states {
		if now.After(st.ExpiresAt) {
			delete(s.states, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateAgreementAndReminders(ctx context.Context, ag *api.Agreement, rems []api.Reminder) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ag
	s.agreements[ag.ID] = &cp
	s.reminders[ag.ID] = append([]api.Reminder(nil), rems...)
	return ag.ID, nil
}

func (s *MemoryStore) UpdateAgreementField(ctx context.Context, agreementID, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.agreements[agreementID]
	if !ok {
		return api.ErrAgreementNotFound
	}
	return applyAgreementPatch(ag, field, value)
}

func (s *MemoryStore) GetAgreement(ctx context.Context, agreementID string) (*api.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ag, ok := s.agreements[agreementID]
	if !ok {
		return nil, api.ErrAgreementNotFound
	}
	cp := *ag
	return &cp, nil
}

// RemindersFor returns the reminders created with an agreement. Test and
// example helper; not part of api.RecordStore.
func (s *MemoryStore) RemindersFor(agreementID string) []api.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]api.Reminder(nil), s.reminders[agreementID]...)
}
