package server

import (
	"errors"
	"sync"
	"time"

	"signal-metrics/internal/analysis"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrWorkspaceFull = errors.New("workspace already holds the maximum number of datasets")
)

// StoredDataset is an uploaded dataset kept in a workspace.
type StoredDataset struct {
	ID        string
	Filename  string
	Format    string
	Dataset   analysis.Dataset
	CreatedAt time.Time
}

// Workspace holds one browser session's datasets in upload order.
type Workspace struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	datasets []*StoredDataset
	lastUsed time.Time
}

func (w *Workspace) Add(ds analysis.Dataset, filename, format string) (*StoredDataset, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.datasets) >= analysis.MaxDatasets {
		return nil, ErrWorkspaceFull
	}
	stored := &StoredDataset{
		ID:        uuid.New().String(),
		Filename:  filename,
		Format:    format,
		Dataset:   ds,
		CreatedAt: time.Now(),
	}
	w.datasets = append(w.datasets, stored)
	return stored, nil
}

func (w *Workspace) Get(id string) (*StoredDataset, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, d := range w.datasets {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

func (w *Workspace) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, d := range w.datasets {
		if d.ID == id {
			w.datasets = append(w.datasets[:i:i], w.datasets[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the datasets in upload order.
func (w *Workspace) List() []*StoredDataset {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*StoredDataset, len(w.datasets))
	copy(out, w.datasets)
	return out
}

// Select resolves dataset ids in the given order. No ids selects every
// dataset.
func (w *Workspace) Select(ids []string) ([]analysis.Dataset, error) {
	stored := w.List()
	if len(ids) == 0 {
		out := make([]analysis.Dataset, len(stored))
		for i, d := range stored {
			out[i] = d.Dataset
		}
		return out, nil
	}
	out := make([]analysis.Dataset, 0, len(ids))
	for _, id := range ids {
		d, ok := w.Get(id)
		if !ok {
			return nil, datasetNotFound(id)
		}
		out = append(out, d.Dataset)
	}
	return out, nil
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return now.Sub(w.lastUsed)
}

// Store keeps workspaces in memory, keyed by id.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

func NewStore() *Store {
	return &Store{workspaces: make(map[string]*Workspace)}
}

func (s *Store) Create() *Workspace {
	now := time.Now()
	w := &Workspace{ID: uuid.New().String(), CreatedAt: now, lastUsed: now}
	s.mu.Lock()
	s.workspaces[w.ID] = w
	s.mu.Unlock()
	return w
}

func (s *Store) Get(id string) *Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaces[id]
}

// GetOrCreate returns the workspace for id, creating a fresh one when id is
// unknown.
func (s *Store) GetOrCreate(id string) *Workspace {
	if id != "" {
		if w := s.Get(id); w != nil {
			w.touch(time.Now())
			return w
		}
	}
	return s.Create()
}

// Prune drops workspaces idle for longer than maxAge and returns how many
// were removed.
func (s *Store) Prune(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.workspaces {
		if w.idleSince(now) > maxAge {
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}
