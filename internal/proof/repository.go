package proof

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no proof matches the lookup.
var ErrNotFound = errors.New("proof: not found")

// Repository persists expense proofs.
type Repository interface {
	Create(ctx context.Context, p Proof) error
	Find(ctx context.Context, id string) (Proof, error)
	List(ctx context.Context) ([]Proof, error)
	ListByDonation(ctx context.Context, donationID string) ([]Proof, error)
	UpdateDescription(ctx context.Context, id, description string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed proof repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p Proof) error {
	proofID, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO expense_proofs (id, donation_id, content, description, signature, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		proofID, p.DonationID, p.Content, p.Description, p.Signature, p.UploadedAt.UTC())
	return err
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (Proof, error) {
	proofID, err := uuid.Parse(id)
	if err != nil {
		return Proof{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, donation_id, content, description, signature, uploaded_at
        FROM expense_proofs WHERE id = $1`, proofID)
	return scanProof(row)
}

func (r *PostgresRepository) List(ctx context.Context) ([]Proof, error) {
	rows, err := r.db.Query(ctx, `SELECT id, donation_id, content, description, signature, uploaded_at
        FROM expense_proofs ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProofs(rows)
}

func (r *PostgresRepository) ListByDonation(ctx context.Context, donationID string) ([]Proof, error) {
	rows, err := r.db.Query(ctx, `SELECT id, donation_id, content, description, signature, uploaded_at
        FROM expense_proofs WHERE donation_id = $1 ORDER BY uploaded_at DESC`, donationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProofs(rows)
}

func (r *PostgresRepository) UpdateDescription(ctx context.Context, id, description string) error {
	proofID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE expense_proofs SET description = $1 WHERE id = $2`, description, proofID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProof(row pgx.Row) (Proof, error) {
	var (
		id         uuid.UUID
		uploadedAt time.Time
		p          Proof
	)
	if err := row.Scan(&id, &p.DonationID, &p.Content, &p.Description, &p.Signature, &uploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proof{}, ErrNotFound
		}
		return Proof{}, err
	}
	p.ID = id.String()
	p.UploadedAt = uploadedAt.UTC()
	return p, nil
}

func collectProofs(rows pgx.Rows) ([]Proof, error) {
	var out []Proof
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
