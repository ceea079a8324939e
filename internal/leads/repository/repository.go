package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is one WhatsApp contact. Phone is E.164 and unique per company; Name
// is nil until the conversation captures it.
type Lead struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Phone     string
	Name      *string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const leadColumns = `id, company_id, phone, name, source, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(&lead.ID, &lead.CompanyID, &lead.Phone, &lead.Name, &lead.Source, &lead.CreatedAt, &lead.UpdatedAt)
	return lead, err
}

// GetOrCreateByPhone returns the lead for the phone, inserting a new row on
// first contact. The ON CONFLICT no-op update makes the insert race-safe
// under duplicate webhook delivery. The bool result reports a fresh insert.
func (r *Repository) GetOrCreateByPhone(ctx context.Context, companyID uuid.UUID, phone, source string) (Lead, bool, error) {
	var lead Lead
	var inserted bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (company_id, phone, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, phone) DO UPDATE SET phone = leads.phone
		RETURNING `+leadColumns+`, (xmax = 0)
	`, companyID, phone, source).Scan(
		&lead.ID, &lead.CompanyID, &lead.Phone, &lead.Name, &lead.Source,
		&lead.CreatedAt, &lead.UpdatedAt, &inserted,
	)
	if err != nil {
		return Lead{}, false, err
	}
	return lead, inserted, nil
}

func (r *Repository) GetByID(ctx context.Context, companyID, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE company_id = $1 AND id = $2
	`, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByPhone(ctx context.Context, companyID uuid.UUID, phone string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE company_id = $1 AND phone = $2
	`, companyID, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateName sets the lead name once captured. An already-set name is kept;
// the dialogue never overwrites a confirmed name with a later guess.
func (r *Repository) UpdateName(ctx context.Context, companyID, id uuid.UUID, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET name = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND name IS NULL
	`, companyID, id, name)
	return err
}

// List returns leads newest first.
func (r *Repository) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	return items, rows.Err()
}
