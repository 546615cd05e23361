package donation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no donation matches the lookup.
var ErrNotFound = errors.New("donation: not found")

// Repository persists donations.
type Repository interface {
	Create(ctx context.Context, d Donation) error
	Find(ctx context.Context, id string) (Donation, error)
	List(ctx context.Context) ([]Donation, error)
	ListByDonor(ctx context.Context, donorEmail string) ([]Donation, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed donation repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d Donation) error {
	donationID, err := uuid.Parse(d.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO donations (id, donor_email, encrypted_phone, amount, purpose, status, signature, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		donationID, d.DonorEmail, d.EncryptedPhone, d.Amount, d.Purpose, string(d.Status), d.Signature, d.CreatedAt.UTC())
	return err
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (Donation, error) {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return Donation{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, donor_email, encrypted_phone, amount, purpose, status, signature, created_at
        FROM donations WHERE id = $1`, donationID)
	return scanDonation(row)
}

func (r *PostgresRepository) List(ctx context.Context) ([]Donation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, donor_email, encrypted_phone, amount, purpose, status, signature, created_at
        FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (r *PostgresRepository) ListByDonor(ctx context.Context, donorEmail string) ([]Donation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, donor_email, encrypted_phone, amount, purpose, status, signature, created_at
        FROM donations WHERE donor_email = $1 ORDER BY created_at DESC`, donorEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE donations SET status = $1 WHERE id = $2`, string(status), donationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM donations WHERE id = $1`, donationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDonation(row pgx.Row) (Donation, error) {
	var (
		id        uuid.UUID
		status    string
		createdAt time.Time
		d         Donation
	)
	if err := row.Scan(&id, &d.DonorEmail, &d.EncryptedPhone, &d.Amount, &d.Purpose, &status, &d.Signature, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Donation{}, ErrNotFound
		}
		return Donation{}, err
	}
	d.ID = id.String()
	d.Status = Status(status)
	d.CreatedAt = createdAt.UTC()
	return d, nil
}

func collectDonations(rows pgx.Rows) ([]Donation, error) {
	var out []Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
