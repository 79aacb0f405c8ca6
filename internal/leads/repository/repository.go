// Package repository provides data access for both lead schemas. Every read
// is filtered through the typed predicate DSL; writes route to the table the
// lead's schema tag names.
package repository

import (
	"context"
	"errors"

	"lawoffice_crm_backend/internal/query"
	"lawoffice_crm_backend/internal/refs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lead id matches no row.
var ErrNotFound = errors.New("lead not found")

const newLeadColumns = `
	id, lead_number, master_id, name, email, phone, stage, category_id, topic,
	language, source_id, handler_id, handler, eligible, facts, total,
	currency_id, currency_code, unactivated_at, created_at`

const legacyLeadColumns = `
	id, lead_number, master_id, name, email, phone, stage, category, topic,
	language_id, source_id, handler_id, handler, is_eligible, facts, total,
	currency_id, status, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanNewLead(row pgx.Row) (NewLead, error) {
	var l NewLead
	err := row.Scan(
		&l.ID, &l.LeadNumber, &l.MasterID, &l.Name, &l.Email, &l.Phone,
		&l.Stage, &l.CategoryID, &l.Topic, &l.Language, &l.SourceID,
		&l.HandlerID, &l.Handler, &l.Eligible, &l.Facts, &l.Total,
		&l.CurrencyID, &l.CurrencyCode, &l.UnactivatedAt, &l.CreatedAt,
	)
	return l, err
}

func scanLegacyLead(row pgx.Row) (LegacyLead, error) {
	var l LegacyLead
	err := row.Scan(
		&l.ID, &l.LeadNumber, &l.MasterID, &l.Name, &l.Email, &l.Phone,
		&l.Stage, &l.Category, &l.Topic, &l.LanguageID, &l.SourceID,
		&l.HandlerID, &l.Handler, &l.IsEligible, &l.Facts, &l.Total,
		&l.CurrencyID, &l.Status, &l.CreatedAt,
	)
	return l, err
}

// SearchNew runs the new-schema half of a dual-source search.
func (r *Repository) SearchNew(ctx context.Context, f Filters, m *refs.Maps, scope SourceScope) ([]NewLead, error) {
	where, args := query.Where(NewLeadPreds(f, m, scope)...)
	rows, err := r.pool.Query(ctx,
		"SELECT"+newLeadColumns+" FROM leads"+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]NewLead, 0)
	for rows.Next() {
		l, err := scanNewLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// SearchLegacy runs the legacy-schema half of a dual-source search.
func (r *Repository) SearchLegacy(ctx context.Context, f Filters, m *refs.Maps, scope SourceScope) ([]LegacyLead, error) {
	where, args := query.Where(LegacyLeadPreds(f, m, scope)...)
	rows, err := r.pool.Query(ctx,
		"SELECT"+legacyLeadColumns+" FROM leads_lead"+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]LegacyLead, 0)
	for rows.Next() {
		l, err := scanLegacyLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UnassignedNew lists new-schema leads with no handler reference at all.
func (r *Repository) UnassignedNew(ctx context.Context) ([]NewLead, error) {
	where, args := query.Where(UnassignedPreds()...)
	rows, err := r.pool.Query(ctx,
		"SELECT"+newLeadColumns+" FROM leads"+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]NewLead, 0)
	for rows.Next() {
		l, err := scanNewLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UnassignedLegacy lists legacy-schema leads with no handler reference.
func (r *Repository) UnassignedLegacy(ctx context.Context) ([]LegacyLead, error) {
	where, args := query.Where(UnassignedPreds()...)
	rows, err := r.pool.Query(ctx,
		"SELECT"+legacyLeadColumns+" FROM leads_lead"+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]LegacyLead, 0)
	for rows.Next() {
		l, err := scanLegacyLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// GetNew fetches one new-schema lead by id.
func (r *Repository) GetNew(ctx context.Context, id int64) (NewLead, error) {
	l, err := scanNewLead(r.pool.QueryRow(ctx,
		"SELECT"+newLeadColumns+" FROM leads WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return NewLead{}, ErrNotFound
	}
	return l, err
}

// GetLegacy fetches one legacy-schema lead by id.
func (r *Repository) GetLegacy(ctx context.Context, id int64) (LegacyLead, error) {
	l, err := scanLegacyLead(r.pool.QueryRow(ctx,
		"SELECT"+legacyLeadColumns+" FROM leads_lead WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LegacyLead{}, ErrNotFound
	}
	return l, err
}

// ContactsForNew lists contacts linked to a new-schema lead.
func (r *Repository) ContactsForNew(ctx context.Context, leadID int64) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.email, c.phone, lc.role
		FROM lead_leadcontact lc
		JOIN leads_contact c ON c.id = lc.contact_id
		WHERE lc.lead_id = $1
		ORDER BY c.id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Role); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// AssignNew assigns a handler to new-schema leads. Both the id and the text
// reference are written so the unassigned check stays consistent during the
// schema transition.
func (r *Repository) AssignNew(ctx context.Context, handlerID int64, handlerName string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET handler_id = $1, handler = $2, updated_at = NOW()
		WHERE id = ANY($3)
	`, handlerID, handlerName, ids)
	return err
}

// AssignLegacy assigns a handler to legacy-schema leads.
func (r *Repository) AssignLegacy(ctx context.Context, handlerID int64, handlerName string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE leads_lead SET handler_id = $1, handler = $2
		WHERE id = ANY($3)
	`, handlerID, handlerName, ids)
	return err
}
