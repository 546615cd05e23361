package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hopehaven/hopehaven/internal/cipher"
	"github.com/hopehaven/hopehaven/internal/notification"
	"github.com/hopehaven/hopehaven/internal/signature"
)

// Service records and reads donations. Sensitive fields are encrypted
// before persistence and every record carries an integrity signature over
// its canonical string.
type Service struct {
	repo     Repository
	cipher   *cipher.Cipher
	signer   *signature.Signer
	notifier notification.Notifier
}

// NewService constructs a donation service.
func NewService(repo Repository, c *cipher.Cipher, signer *signature.Signer, notifier notification.Notifier) *Service {
	return &Service{repo: repo, cipher: c, signer: signer, notifier: notifier}
}

// CreateInput captures a new donation submission. DonorEmail comes from
// the authenticated identity, never from the request body.
type CreateInput struct {
	DonorEmail string
	Phone      string
	Amount     int64
	Purpose    string
}

// canonical builds the string that integrity signatures cover.
func canonical(donorEmail string, amount int64, purpose string) string {
	return fmt.Sprintf("%s|%d|%s", donorEmail, amount, purpose)
}

// Create encrypts the donor phone, signs the canonical record string and
// persists the donation as PENDING.
func (s *Service) Create(ctx context.Context, input CreateInput) (Donation, error) {
	if input.DonorEmail == "" {
		return Donation{}, errors.New("donor email is required")
	}
	if input.Amount <= 0 {
		return Donation{}, errors.New("amount must be positive")
	}
	if input.Purpose == "" {
		return Donation{}, errors.New("purpose is required")
	}

	encryptedPhone, err := s.cipher.Encrypt(input.Phone)
	if err != nil {
		return Donation{}, err
	}
	sig, err := s.signer.Sign(canonical(input.DonorEmail, input.Amount, input.Purpose))
	if err != nil {
		return Donation{}, err
	}

	d := Donation{
		ID:             uuid.NewString(),
		DonorEmail:     input.DonorEmail,
		EncryptedPhone: encryptedPhone,
		Amount:         input.Amount,
		Purpose:        input.Purpose,
		Status:         StatusPending,
		Signature:      sig,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Donation{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDonationReceived,
			Destination: input.DonorEmail,
			Body:        fmt.Sprintf("Donation of %d for %q recorded", input.Amount, input.Purpose),
		})
	}
	return d, nil
}

// ListAll returns every donation, for admin and staff review.
func (s *Service) ListAll(ctx context.Context) ([]Donation, error) {
	return s.repo.List(ctx)
}

// ListByDonor returns the caller's own donations with the phone number
// decrypted. The donor email filter is the ownership predicate the ACL
// table's read_own token relies on.
func (s *Service) ListByDonor(ctx context.Context, donorEmail string) ([]Donation, error) {
	ds, err := s.repo.ListByDonor(ctx, donorEmail)
	if err != nil {
		return nil, err
	}
	for i := range ds {
		phone, err := s.cipher.Decrypt(ds[i].EncryptedPhone)
		if err != nil {
			return nil, fmt.Errorf("donation %s: %w", ds[i].ID, err)
		}
		ds[i].EncryptedPhone = phone
	}
	return ds, nil
}

// Get fetches a single donation.
func (s *Service) Get(ctx context.Context, id string) (Donation, error) {
	return s.repo.Find(ctx, id)
}

// UpdateStatus moves a donation through review.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a donation record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// VerifyIntegrity re-checks the stored signature against the record's
// canonical string.
func (s *Service) VerifyIntegrity(d Donation) (bool, error) {
	return s.signer.Verify(canonical(d.DonorEmail, d.Amount, d.Purpose), d.Signature)
}
