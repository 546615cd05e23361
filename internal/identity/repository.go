package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDuplicateIdentity indicates the email is already registered. The
	// database unique constraint is the authoritative source of this error,
	// closing the check-then-insert race.
	ErrDuplicateIdentity = errors.New("identity: already registered")
	// ErrNotFound indicates no identity matches the lookup.
	ErrNotFound = errors.New("identity: not found")
)

const uniqueViolationCode = "23505"

// Repository persists identities.
type Repository interface {
	Create(ctx context.Context, id Identity) error
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new identity. A unique-key conflict on email surfaces
// as ErrDuplicateIdentity.
func (r *PostgresRepository) Create(ctx context.Context, id Identity) error {
	identityID, err := uuid.Parse(id.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO identities (id, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5)`, identityID, id.Email, id.PasswordHash, string(id.Role), id.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateIdentity
	}
	return err
}

// FindByEmail fetches an identity by its email identifier.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at FROM identities WHERE email = $1`, email)
	return scanIdentity(row)
}

// FindByID fetches an identity by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Identity, error) {
	identityID, err := uuid.Parse(id)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at FROM identities WHERE id = $1`, identityID)
	return scanIdentity(row)
}

func scanIdentity(row pgx.Row) (Identity, error) {
	var (
		id        uuid.UUID
		role      string
		createdAt time.Time
		ident     Identity
	)
	if err := row.Scan(&id, &ident.Email, &ident.PasswordHash, &role, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	ident.ID = id.String()
	ident.Role = Role(role)
	ident.CreatedAt = createdAt.UTC()
	return ident, nil
}
