// Package repository provides pgx-backed persistence for conversation state.
package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_leads_backend/internal/conversation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists conversation control-state records in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new conversation repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetOrCreateActive returns the lead's active conversation, creating one in
// INIT when none exists. When historic duplicates exist the most recently
// updated one wins.
func (r *Repository) GetOrCreateActive(ctx context.Context, companyID, leadID uuid.UUID) (*conversation.Conversation, error) {
	conv, err := r.getActive(ctx, companyID, leadID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &conversation.Conversation{
		ID:        uuid.New(),
		CompanyID: companyID,
		LeadID:    leadID,
		State:     conversation.StateInit,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO conversations (id, company_id, lead_id, state, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING last_activity_at, created_at`,
		conv.ID, companyID, leadID, string(conv.State),
	).Scan(&conv.LastActivityAt, &conv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (r *Repository) getActive(ctx context.Context, companyID, leadID uuid.UUID) (*conversation.Conversation, error) {
	conv := conversation.Conversation{CompanyID: companyID, LeadID: leadID}
	var state string
	err := r.pool.QueryRow(ctx, `
		SELECT id, state, last_activity_at, created_at
		FROM conversations
		WHERE company_id = $1 AND lead_id = $2
		ORDER BY last_activity_at DESC
		LIMIT 1`,
		companyID, leadID,
	).Scan(&conv.ID, &state, &conv.LastActivityAt, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	conv.State = conversation.State(state)
	return &conv, nil
}

// GetByID loads a conversation by primary key.
func (r *Repository) GetByID(ctx context.Context, companyID, conversationID uuid.UUID) (*conversation.Conversation, error) {
	conv := conversation.Conversation{ID: conversationID, CompanyID: companyID}
	var state string
	err := r.pool.QueryRow(ctx, `
		SELECT lead_id, state, last_activity_at, created_at
		FROM conversations
		WHERE company_id = $1 AND id = $2`,
		companyID, conversationID,
	).Scan(&conv.LeadID, &state, &conv.LastActivityAt, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation by id: %w", err)
	}
	conv.State = conversation.State(state)
	return &conv, nil
}

// SetState moves the conversation to the given state and refreshes the
// activity timestamp. The QUOTE_DRAFTED transition does not go through here;
// it is committed together with the quote insert.
func (r *Repository) SetState(ctx context.Context, companyID, conversationID uuid.UUID, state conversation.State) error {
	if !state.Valid() {
		return fmt.Errorf("invalid conversation state %q", state)
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE conversations
		SET state = $3, last_activity_at = now()
		WHERE company_id = $1 AND id = $2`,
		companyID, conversationID, string(state),
	)
	if err != nil {
		return fmt.Errorf("set conversation state: %w", err)
	}
	return nil
}

// Touch refreshes last_activity_at without changing state.
func (r *Repository) Touch(ctx context.Context, companyID, conversationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE conversations
		SET last_activity_at = now()
		WHERE company_id = $1 AND id = $2`,
		companyID, conversationID,
	)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}
