// Package store provides concurrency-safe in-memory implementations of the
// engine's collaborator contracts: the plantation source, the snapshot
// repository, and the notification sink with its dedup query.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/potagerapp/careengine/internal/notify"
	"github.com/potagerapp/careengine/internal/plant"
)

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("record not found")
)

// MemoryStore holds plantations, their snapshot histories, and
// notifications. Snapshot histories are append-only and kept newest first.
type MemoryStore struct {
	mu sync.RWMutex

	plantations   map[uuid.UUID]*plant.Plantation
	snapshots     map[uuid.UUID][]plant.Snapshot // newest first
	notifications []notify.Notification          // oldest first

	// Now is the injected clock for notification timestamps.
	Now func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plantations: make(map[uuid.UUID]*plant.Plantation),
		snapshots:   make(map[uuid.UUID][]plant.Snapshot),
		Now:         time.Now,
	}
}

// SavePlantation inserts or replaces a plantation.
func (s *MemoryStore) SavePlantation(p *plant.Plantation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plantations[p.ID] = p
}

// Plantation returns the plantation with the given id.
func (s *MemoryStore) Plantation(id uuid.UUID) (*plant.Plantation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plantations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// AllWithStatus lists plantations in the given lifecycle status, in a
// stable order so runs are deterministic.
func (s *MemoryStore) AllWithStatus(status plant.Status) ([]*plant.Plantation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*plant.Plantation
	for _, p := range s.plantations {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// AppendSnapshot appends a snapshot to a plantation's history. Snapshots
// are immutable once appended.
func (s *MemoryStore) AppendSnapshot(plantationID uuid.UUID, snap plant.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plantations[plantationID]
	if !ok {
		return ErrNotFound
	}

	s.snapshots[plantationID] = append([]plant.Snapshot{snap}, s.snapshots[plantationID]...)
	p.Snapshots = s.snapshots[plantationID]
	return nil
}

// LatestForPlantation returns the most recent snapshot, or nil when the
// history is empty.
func (s *MemoryStore) LatestForPlantation(plantationID uuid.UUID) (*plant.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.snapshots[plantationID]
	if len(history) == 0 {
		return nil, nil
	}
	snap := history[0]
	return &snap, nil
}

// SnapshotsNewestFirst returns a copy of the full history, newest first.
func (s *MemoryStore) SnapshotsNewestFirst(plantationID uuid.UUID) ([]plant.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.snapshots[plantationID]
	out := make([]plant.Snapshot, len(history))
	copy(out, history)
	return out, nil
}

// HasNotificationSince answers the dedup query: has a notification of the
// given type been created for the plantation at or after since.
func (s *MemoryStore) HasNotificationSince(plantationID uuid.UUID, t notify.Type, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.PlantationID == plantationID && n.Type == t && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// Create renders and persists a notification.
func (s *MemoryStore) Create(userID uuid.UUID, t notify.Type, nctx notify.Context, plantationID uuid.UUID) (*notify.Notification, error) {
	formatted := notify.Format(t, nctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := notify.Notification{
		ID:           uuid.New(),
		UserID:       userID,
		PlantationID: plantationID,
		Type:         t,
		Title:        formatted.Title,
		Message:      formatted.Message,
		Metadata:     map[string]any(nctx),
		CreatedAt:    s.Now(),
	}
	s.notifications = append(s.notifications, n)
	return &n, nil
}

// NotificationsForUser returns a page of the user's notifications, newest
// first, with the total count before paging.
func (s *MemoryStore) NotificationsForUser(userID uuid.UUID, page, limit int, onlyUnread bool) ([]notify.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []notify.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID {
			continue
		}
		if onlyUnread && n.Read {
			continue
		}
		matched = append(matched, n)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// CountUnread returns the user's unread notification count.
func (s *MemoryStore) CountUnread(userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (s *MemoryStore) MarkRead(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead flags all of a user's notifications as read and returns how
// many changed.
func (s *MemoryStore) MarkAllRead(userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	for i := range s.notifications {
		if s.notifications[i].UserID == userID && !s.notifications[i].Read {
			s.notifications[i].Read = true
			affected++
		}
	}
	return affected, nil
}
