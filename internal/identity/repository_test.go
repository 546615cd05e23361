package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryRepositoryDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := Identity{ID: uuid.NewString(), Email: "a@x.com", PasswordHash: []byte("h1"), Role: RoleDonor, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := Identity{ID: uuid.NewString(), Email: "a@x.com", PasswordHash: []byte("h2"), Role: RoleDonor, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, second); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestMemoryRepositoryLookups(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	ident := Identity{ID: uuid.NewString(), Email: "a@x.com", PasswordHash: []byte("h"), Role: RoleStaff, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, ident); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.Role != RoleStaff {
		t.Fatalf("unexpected role %q", byEmail.Role)
	}

	byID, err := repo.FindByID(ctx, ident.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "a@x.com" {
		t.Fatalf("unexpected email %q", byID.Email)
	}

	if _, err := repo.FindByEmail(ctx, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for input, want := range map[string]Role{"admin": RoleAdmin, " Donor ": RoleDonor, "STAFF": RoleStaff} {
		got, err := ParseRole(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", input, got, want)
		}
	}
	if _, err := ParseRole("orphanage"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
