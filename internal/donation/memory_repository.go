package donation

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	donations map[string]Donation
}

// NewMemoryRepository builds an in-memory donation store for tests and
// development without a database.
func NewMemoryRepository() Repository {
	return &memoryRepository{donations: make(map[string]Donation)}
}

func (r *memoryRepository) Create(_ context.Context, d Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations[d.ID] = d
	return nil
}

func (r *memoryRepository) Find(_ context.Context, id string) (Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.donations[id]
	if !ok {
		return Donation{}, ErrNotFound
	}
	return d, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Donation, 0, len(r.donations))
	for _, d := range r.donations {
		out = append(out, d)
	}
	sortByCreatedAtDesc(out)
	return out, nil
}

func (r *memoryRepository) ListByDonor(_ context.Context, donorEmail string) ([]Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Donation
	for _, d := range r.donations {
		if d.DonorEmail == donorEmail {
			out = append(out, d)
		}
	}
	sortByCreatedAtDesc(out)
	return out, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	r.donations[id] = d
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.donations[id]; !ok {
		return ErrNotFound
	}
	delete(r.donations, id)
	return nil
}

func sortByCreatedAtDesc(ds []Donation) {
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].CreatedAt.After(ds[j].CreatedAt)
	})
}
