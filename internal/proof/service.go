package proof

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hopehaven/hopehaven/internal/donation"
	"github.com/hopehaven/hopehaven/internal/signature"
)

// Service records expense proofs against donations. Each proof's content
// is signed so later readers can detect substitution of the receipt.
type Service struct {
	repo      Repository
	donations *donation.Service
	signer    *signature.Signer
}

// NewService constructs a proof service.
func NewService(repo Repository, donations *donation.Service, signer *signature.Signer) *Service {
	return &Service{repo: repo, donations: donations, signer: signer}
}

// CreateInput captures a new proof upload.
type CreateInput struct {
	DonationID  string
	Content     string
	Description string
}

// Create validates the referenced donation, signs the content and
// persists the proof.
func (s *Service) Create(ctx context.Context, input CreateInput) (Proof, error) {
	if input.Content == "" {
		return Proof{}, errors.New("content is required")
	}
	if _, err := s.donations.Get(ctx, input.DonationID); err != nil {
		if errors.Is(err, donation.ErrNotFound) {
			return Proof{}, donation.ErrNotFound
		}
		return Proof{}, err
	}

	sig, err := s.signer.Sign(input.Content)
	if err != nil {
		return Proof{}, err
	}

	p := Proof{
		ID:          uuid.NewString(),
		DonationID:  input.DonationID,
		Content:     input.Content,
		Description: input.Description,
		Signature:   sig,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Proof{}, err
	}
	return p, nil
}

// List returns every proof.
func (s *Service) List(ctx context.Context) ([]Proof, error) {
	return s.repo.List(ctx)
}

// ListByDonation returns proofs attached to one donation.
func (s *Service) ListByDonation(ctx context.Context, donationID string) ([]Proof, error) {
	return s.repo.ListByDonation(ctx, donationID)
}

// Get fetches a single proof.
func (s *Service) Get(ctx context.Context, id string) (Proof, error) {
	return s.repo.Find(ctx, id)
}

// UpdateDescription amends the free-text description; the signed content
// itself is immutable.
func (s *Service) UpdateDescription(ctx context.Context, id, description string) error {
	return s.repo.UpdateDescription(ctx, id, description)
}

// VerifyIntegrity re-checks the stored content signature.
func (s *Service) VerifyIntegrity(p Proof) (bool, error) {
	return s.signer.Verify(p.Content, p.Signature)
}
