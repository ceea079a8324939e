// Package repository provides pgx-backed persistence for qualification records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental_leads_backend/internal/qualification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists qualification records in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new qualification repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByLeadID returns the qualification for a lead, or (nil, nil) when the
// lead has not been qualified yet.
func (r *Repository) GetByLeadID(ctx context.Context, companyID, leadID uuid.UUID) (*qualification.Qualification, error) {
	q := qualification.Qualification{LeadID: leadID, CompanyID: companyID}
	err := r.pool.QueryRow(ctx, `
		SELECT height_m, height_ft, lift_type, activity, terrain, city, duration_days, contact_email, created_at, updated_at
		FROM qualifications
		WHERE company_id = $1 AND lead_id = $2`,
		companyID, leadID,
	).Scan(&q.HeightM, &q.HeightFt, &q.LiftType, &q.Activity, &q.Terrain, &q.City, &q.DurationDays, &q.ContactEmail, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get qualification: %w", err)
	}
	return &q, nil
}

// Create inserts an all-null qualification for the lead. A concurrent insert
// for the same lead is absorbed by ON CONFLICT: creation is idempotent.
func (r *Repository) Create(ctx context.Context, companyID, leadID uuid.UUID) (*qualification.Qualification, error) {
	q := qualification.Qualification{LeadID: leadID, CompanyID: companyID}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO qualifications (company_id, lead_id)
		VALUES ($1, $2)
		ON CONFLICT (company_id, lead_id) DO UPDATE SET lead_id = qualifications.lead_id
		RETURNING created_at, updated_at`,
		companyID, leadID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create qualification: %w", err)
	}
	return &q, nil
}

// ApplyPatch writes only the non-nil fields of the patch. Callers guarantee
// the patch is non-empty; an empty patch is rejected rather than silently
// issuing a pointless UPDATE.
func (r *Repository) ApplyPatch(ctx context.Context, companyID, leadID uuid.UUID, patch qualification.SparsePatch) error {
	sets := make([]string, 0, 9)
	args := make([]any, 0, 11)
	args = append(args, companyID, leadID)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.HeightM != nil {
		add("height_m", *patch.HeightM)
	}
	if patch.HeightFt != nil {
		add("height_ft", *patch.HeightFt)
	}
	if patch.LiftType != nil {
		add("lift_type", string(*patch.LiftType))
	}
	if patch.Activity != nil {
		add("activity", string(*patch.Activity))
	}
	if patch.Terrain != nil {
		add("terrain", string(*patch.Terrain))
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.DurationDays != nil {
		add("duration_days", *patch.DurationDays)
	}
	if patch.ContactEmail != nil {
		add("contact_email", *patch.ContactEmail)
	}

	if len(sets) == 0 {
		return errors.New("empty qualification patch")
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(
		"UPDATE qualifications SET %s WHERE company_id = $1 AND lead_id = $2",
		strings.Join(sets, ", "),
	)
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("patch qualification: %w", err)
	}
	return nil
}

var _ qualification.Store = (*Repository)(nil)
