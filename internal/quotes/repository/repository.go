package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("quote not found")
	// ErrStateChanged reports that the conversation left READY_FOR_MATCH
	// between the pre-check and the commit, so no quote was written.
	ErrStateChanged = errors.New("conversation state changed before quote commit")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Quote is the persisted quote header. Header amounts are the primary
// option's totals only; reference options live in the lines.
// QualificationSnapshot is the requirement record the quote was priced from,
// frozen as JSON at draft time.
type Quote struct {
	ID                    uuid.UUID
	CompanyID             uuid.UUID
	LeadID                uuid.UUID
	QuoteNumber           string
	Status                string
	Currency              string
	DurationDays          int
	Subtotal              int64
	VAT                   int64
	Total                 int64
	PDFObject             *string
	QualificationSnapshot []byte
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// QuoteLine is one priced option on the quote, in presentation order.
type QuoteLine struct {
	ID           uuid.UUID
	QuoteID      uuid.UUID
	Position     int
	Label        string
	DurationDays int
	RentalBase   int64
	Transport    int64
	Subtotal     int64
	VAT          int64
	Total        int64
	PerDayCost   int64
	IsPrimary    bool
	IsCheapest   bool
}

const (
	StatusDraft = "DRAFT"
	StatusSent  = "SENT"
)

// NextQuoteNumber atomically generates the next quote number for a company.
// The counter row is year-scoped so numbering restarts each January.
func (r *Repository) NextQuoteNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	year := time.Now().Year()

	var nextNum int
	query := `
		INSERT INTO quote_counters (company_id, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, year) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, companyID, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	return fmt.Sprintf("COT-%d-%04d", year, nextNum), nil
}

// CreateDraftWithLines inserts the quote and its lines and flips the
// conversation into QUOTE_DRAFTED, all in one transaction. The conversation
// update is conditional on the state still being READY_FOR_MATCH; when a
// concurrent delivery already drafted a quote the update matches zero rows
// and the whole transaction rolls back with ErrStateChanged.
func (r *Repository) CreateDraftWithLines(ctx context.Context, quote *Quote, lines []QuoteLine, conversationID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE conversations
		SET state = 'QUOTE_DRAFTED', last_activity_at = now()
		WHERE id = $1 AND company_id = $2 AND state = 'READY_FOR_MATCH'
	`, conversationID, quote.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to advance conversation state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStateChanged
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (
			company_id, lead_id, quote_number, status, currency,
			duration_days, subtotal, vat, total, pdf_object, qualification_snapshot
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		quote.CompanyID, quote.LeadID, quote.QuoteNumber, quote.Status, quote.Currency,
		quote.DurationDays, quote.Subtotal, quote.VAT, quote.Total, quote.PDFObject,
		quote.QualificationSnapshot,
	).Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	for i := range lines {
		lines[i].QuoteID = quote.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO quote_lines (
				quote_id, position, label, duration_days, rental_base,
				transport, subtotal, vat, total, per_day_cost, is_primary, is_cheapest
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`,
			lines[i].QuoteID, lines[i].Position, lines[i].Label, lines[i].DurationDays,
			lines[i].RentalBase, lines[i].Transport, lines[i].Subtotal, lines[i].VAT,
			lines[i].Total, lines[i].PerDayCost, lines[i].IsPrimary, lines[i].IsCheapest,
		).Scan(&lines[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert quote line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// SetPDFObject records the archived PDF object key after rendering.
func (r *Repository) SetPDFObject(ctx context.Context, companyID, quoteID uuid.UUID, object string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE quotes SET pdf_object = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2
	`, companyID, quoteID, object)
	return err
}

const quoteColumns = `id, company_id, lead_id, quote_number, status, currency,
		duration_days, subtotal, vat, total, pdf_object, qualification_snapshot, created_at, updated_at`

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.CompanyID, &q.LeadID, &q.QuoteNumber, &q.Status, &q.Currency,
		&q.DurationDays, &q.Subtotal, &q.VAT, &q.Total, &q.PDFObject, &q.QualificationSnapshot,
		&q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func (r *Repository) GetByID(ctx context.Context, companyID, id uuid.UUID) (Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+` FROM quotes WHERE company_id = $1 AND id = $2
	`, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	return q, err
}

// GetLatestByLead returns the newest quote for a lead, used for the
// already-quoted acknowledgment.
func (r *Repository) GetLatestByLead(ctx context.Context, companyID, leadID uuid.UUID) (Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE company_id = $1 AND lead_id = $2
		ORDER BY created_at DESC LIMIT 1
	`, companyID, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	return q, err
}

func (r *Repository) ListLines(ctx context.Context, quoteID uuid.UUID) ([]QuoteLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_id, position, label, duration_days, rental_base,
			transport, subtotal, vat, total, per_day_cost, is_primary, is_cheapest
		FROM quote_lines WHERE quote_id = $1 ORDER BY position ASC
	`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]QuoteLine, 0)
	for rows.Next() {
		var l QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.Position, &l.Label, &l.DurationDays,
			&l.RentalBase, &l.Transport, &l.Subtotal, &l.VAT, &l.Total,
			&l.PerDayCost, &l.IsPrimary, &l.IsCheapest); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *Repository) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
