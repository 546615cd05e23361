package proof

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hopehaven/hopehaven/internal/cipher"
	"github.com/hopehaven/hopehaven/internal/donation"
	"github.com/hopehaven/hopehaven/internal/encoding"
	"github.com/hopehaven/hopehaven/internal/signature"
)

func newTestService(t *testing.T) (*Service, *donation.Service) {
	t.Helper()
	c, err := cipher.New(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	signer, err := signature.New()
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	donations := donation.NewService(donation.NewMemoryRepository(), c, signer, nil)
	return NewService(NewMemoryRepository(), donations, signer), donations
}

func TestCreateSignsContent(t *testing.T) {
	svc, donations := newTestService(t)
	ctx := context.Background()

	d, err := donations.Create(ctx, donation.CreateInput{DonorEmail: "a@x.com", Amount: 5000, Purpose: "meals"})
	if err != nil {
		t.Fatalf("donation: %v", err)
	}

	content := encoding.EncodeBase64("receipt image bytes")
	p, err := svc.Create(ctx, CreateInput{DonationID: d.ID, Content: content, Description: "grocery receipt"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := svc.VerifyIntegrity(p)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("fresh proof failed integrity check")
	}

	p.Content = encoding.EncodeBase64("substituted receipt")
	ok, err = svc.VerifyIntegrity(p)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("substituted content passed integrity check")
	}
}

func TestCreateRequiresExistingDonation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{DonationID: "missing", Content: "x"})
	if !errors.Is(err, donation.ErrNotFound) {
		t.Fatalf("expected donation.ErrNotFound, got %v", err)
	}
}

func TestListByDonation(t *testing.T) {
	svc, donations := newTestService(t)
	ctx := context.Background()

	d1, _ := donations.Create(ctx, donation.CreateInput{DonorEmail: "a@x.com", Amount: 100, Purpose: "meals"})
	d2, _ := donations.Create(ctx, donation.CreateInput{DonorEmail: "a@x.com", Amount: 200, Purpose: "books"})

	if _, err := svc.Create(ctx, CreateInput{DonationID: d1.ID, Content: "c1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{DonationID: d2.ID, Content: "c2"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ps, err := svc.ListByDonation(ctx, d1.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ps) != 1 || ps[0].Content != "c1" {
		t.Fatalf("unexpected proofs %+v", ps)
	}
}

func TestUpdateDescription(t *testing.T) {
	svc, donations := newTestService(t)
	ctx := context.Background()

	d, _ := donations.Create(ctx, donation.CreateInput{DonorEmail: "a@x.com", Amount: 100, Purpose: "meals"})
	p, err := svc.Create(ctx, CreateInput{DonationID: d.ID, Content: "c1", Description: "old"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.UpdateDescription(ctx, p.ID, "new"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.Get(ctx, p.ID)
	if got.Description != "new" {
		t.Fatalf("expected updated description, got %q", got.Description)
	}

	// Signed content must still verify after a description edit.
	ok, err := svc.VerifyIntegrity(got)
	if err != nil || !ok {
		t.Fatalf("integrity after update: ok=%v err=%v", ok, err)
	}

	if err := svc.UpdateDescription(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
