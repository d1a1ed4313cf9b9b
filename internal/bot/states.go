package bot

import (
	"sync"
	"time"
)

// Dialog steps. A user is in at most one step at a time.
const (
	stepNiche         = "mkt:niche"
	stepGoal          = "mkt:goal"
	stepPlatform      = "mkt:platform"
	stepCustomRequest = "mkt:custom"
	stepContract      = "doc:contract"
	stepAct           = "doc:act"
	stepCheck         = "doc:check"
	stepUpload        = "doc:upload"
	stepProfileField  = "profile:field"
	stepQuickSale     = "quick:sale"
)

// Dialog is the state of one multi-step conversation
type Dialog struct {
	Step      string
	Data      map[string]string
	UpdatedAt time.Time
}

func (d Dialog) clone() Dialog {
	data := make(map[string]string, len(d.Data))
	for k, v := range d.Data {
		data[k] = v
	}
	d.Data = data
	return d
}

// StateStore keeps per-user dialogs in memory. Dialogs idle for longer than
// the TTL are dropped on access, so an abandoned wizard never traps the user.
type StateStore struct {
	mu      sync.Mutex
	dialogs map[int64]Dialog
	ttl     time.Duration
	now     func() time.Time
}

// NewStateStore creates a store whose dialogs expire after ttl of inactivity
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		dialogs: make(map[int64]Dialog),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the user's live dialog
func (s *StateStore) Get(userID int64) (Dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dialogs[userID]
	if !ok {
		return Dialog{}, false
	}
	if s.ttl > 0 && s.now().Sub(d.UpdatedAt) > s.ttl {
		delete(s.dialogs, userID)
		return Dialog{}, false
	}
	return d.clone(), true
}

// Start replaces any dialog of the user with a fresh one at step
func (s *StateStore) Start(userID int64, step string) {
	s.Set(userID, Dialog{Step: step})
}

// Set stores the dialog, stamping its activity time
func (s *StateStore) Set(userID int64, d Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d = d.clone()
	d.UpdatedAt = s.now()
	s.dialogs[userID] = d
}

// Advance moves the user's dialog to step and records key=value
func (s *StateStore) Advance(userID int64, step, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.dialogs[userID].clone()
	d.Step = step
	if key != "" {
		d.Data[key] = value
	}
	d.UpdatedAt = s.now()
	s.dialogs[userID] = d
}

// Clear ends the user's dialog
func (s *StateStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dialogs, userID)
}

// Sweep drops every expired dialog and returns how many were removed
func (s *StateStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, d := range s.dialogs {
		if s.ttl > 0 && now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.dialogs, id)
			removed++
		}
	}
	return removed
}

// Len is the number of stored dialogs, expired ones included
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dialogs)
}
