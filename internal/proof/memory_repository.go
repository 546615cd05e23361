package proof

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	proofs map[string]Proof
}

// NewMemoryRepository builds an in-memory proof store for tests and
// development without a database.
func NewMemoryRepository() Repository {
	return &memoryRepository{proofs: make(map[string]Proof)}
}

func (r *memoryRepository) Create(_ context.Context, p Proof) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proofs[p.ID] = p
	return nil
}

func (r *memoryRepository) Find(_ context.Context, id string) (Proof, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.proofs[id]
	if !ok {
		return Proof{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Proof, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Proof, 0, len(r.proofs))
	for _, p := range r.proofs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *memoryRepository) ListByDonation(_ context.Context, donationID string) ([]Proof, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Proof
	for _, p := range r.proofs {
		if p.DonationID == donationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *memoryRepository) UpdateDescription(_ context.Context, id, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proofs[id]
	if !ok {
		return ErrNotFound
	}
	p.Description = description
	r.proofs[id] = p
	return nil
}
