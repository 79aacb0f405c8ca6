// Package service merges both lead schemas into one collection and owns the
// write paths that must stay schema-aware.
package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"lawoffice_crm_backend/internal/leads/normalize"
	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/phone"
)

// LeadStore is the persistence surface the service needs.
type LeadStore interface {
	SearchNew(ctx context.Context, f repository.Filters, m *refs.Maps, scope repository.SourceScope) ([]repository.NewLead, error)
	SearchLegacy(ctx context.Context, f repository.Filters, m *refs.Maps, scope repository.SourceScope) ([]repository.LegacyLead, error)
	UnassignedNew(ctx context.Context) ([]repository.NewLead, error)
	UnassignedLegacy(ctx context.Context) ([]repository.LegacyLead, error)
	GetNew(ctx context.Context, id int64) (repository.NewLead, error)
	GetLegacy(ctx context.Context, id int64) (repository.LegacyLead, error)
	ContactsForNew(ctx context.Context, leadID int64) ([]repository.Contact, error)
	AssignNew(ctx context.Context, handlerID int64, handlerName string, ids []int64) error
	AssignLegacy(ctx context.Context, handlerID int64, handlerName string, ids []int64) error
}

// RefProvider yields the reference lookup maps for a request cycle.
type RefProvider interface {
	Maps(ctx context.Context) (*refs.Maps, error)
}

// Source labels used in partial-failure reporting.
const (
	sourceNew    = "leads"
	sourceLegacy = "leads_lead"
)

// SourceError reports that one of the two lead tables failed to answer. The
// other table's rows are still returned.
type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// SearchResult is a merged, normalized search answer. Stale means a newer
// search for the same principal started while this one ran, and the client
// should discard it.
type SearchResult struct {
	Leads      []normalize.Lead `json:"leads"`
	Errors     []SourceError    `json:"errors,omitempty"`
	Stale      bool             `json:"stale"`
	Generation uint64           `json:"generation"`
}

// ContactView is a lead contact with a normalized phone.
type ContactView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// LeadDetails is the single-lead view.
type LeadDetails struct {
	Lead     normalize.Lead `json:"lead"`
	Contacts []ContactView  `json:"contacts"`
}

type Service struct {
	store LeadStore
	refs  RefProvider
	log   *logger.Logger
	gens  *Generations
}

func New(store LeadStore, refProvider RefProvider, log *logger.Logger) *Service {
	return &Service{
		store: store,
		refs:  refProvider,
		log:   log,
		gens:  NewGenerations(),
	}
}

// Search queries both schemas concurrently, normalizes and merges the rows,
// and numbers sublead families. A failing table contributes a SourceError
// instead of failing the whole search.
func (s *Service) Search(ctx context.Context, principal int64, scope repository.SourceScope, f repository.Filters) (SearchResult, error) {
	gen := s.gens.Begin(principal)

	m, err := s.refs.Maps(ctx)
	if err != nil {
		return SearchResult{}, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}

	var (
		newRows    []repository.NewLead
		legacyRows []repository.LegacyLead
		newErr     error
		legacyErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		newRows, newErr = s.store.SearchNew(gctx, f, m, scope)
		return nil
	})
	g.Go(func() error {
		legacyRows, legacyErr = s.store.SearchLegacy(gctx, f, m, scope)
		return nil
	})
	_ = g.Wait()

	result := SearchResult{Generation: gen}
	if newErr != nil {
		s.log.QueryError(sourceNew, "search", newErr)
		result.Errors = append(result.Errors, SourceError{Source: sourceNew, Message: "search failed for current leads"})
	}
	if legacyErr != nil {
		s.log.QueryError(sourceLegacy, "search", legacyErr)
		result.Errors = append(result.Errors, SourceError{Source: sourceLegacy, Message: "search failed for archived leads"})
	}

	leads := make([]normalize.Lead, 0, len(newRows)+len(legacyRows))
	for _, row := range newRows {
		leads = append(leads, normalize.FromNew(row, m))
	}
	for _, row := range legacyRows {
		leads = append(leads, normalize.FromLegacy(row, m))
	}

	normalize.ApplyNumbering(leads)
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})

	result.Leads = leads
	result.Stale = !s.gens.IsCurrent(principal, gen)
	return result, nil
}

// Unassigned returns leads with no handler in either schema.
func (s *Service) Unassigned(ctx context.Context) ([]normalize.Lead, error) {
	m, err := s.refs.Maps(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}

	newRows, err := s.store.UnassignedNew(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "querying unassigned leads", err)
	}
	legacyRows, err := s.store.UnassignedLegacy(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "querying unassigned archived leads", err)
	}

	leads := make([]normalize.Lead, 0, len(newRows)+len(legacyRows))
	for _, row := range newRows {
		leads = append(leads, normalize.FromNew(row, m))
	}
	for _, row := range legacyRows {
		leads = append(leads, normalize.FromLegacy(row, m))
	}

	normalize.ApplyNumbering(leads)
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

// parseID splits a unified id into its schema and numeric parts.
func parseID(id string) (numeric int64, legacy bool, err error) {
	raw := id
	if rest, ok := strings.CutPrefix(id, normalize.LegacyIDPrefix); ok {
		legacy = true
		raw = rest
	}
	numeric, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil || numeric <= 0 {
		return 0, false, apperr.Validation("invalid lead id: " + id)
	}
	return numeric, legacy, nil
}

// Details loads one lead by unified id. Contacts only exist for the new
// schema; legacy leads return an empty contact list.
func (s *Service) Details(ctx context.Context, id string) (LeadDetails, error) {
	numeric, legacy, err := parseID(id)
	if err != nil {
		return LeadDetails{}, err
	}

	m, err := s.refs.Maps(ctx)
	if err != nil {
		return LeadDetails{}, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}

	if legacy {
		row, err := s.store.GetLegacy(ctx, numeric)
		if err != nil {
			if err == repository.ErrNotFound {
				return LeadDetails{}, apperr.NotFound("lead not found")
			}
			return LeadDetails{}, apperr.Wrap(apperr.KindInternal, "loading lead", err)
		}
		lead := normalize.FromLegacy(row, m)
		lead.Phone = phone.NormalizeE164(lead.Phone)
		return LeadDetails{Lead: lead, Contacts: []ContactView{}}, nil
	}

	row, err := s.store.GetNew(ctx, numeric)
	if err != nil {
		if err == repository.ErrNotFound {
			return LeadDetails{}, apperr.NotFound("lead not found")
		}
		return LeadDetails{}, apperr.Wrap(apperr.KindInternal, "loading lead", err)
	}
	lead := normalize.FromNew(row, m)
	lead.Phone = phone.NormalizeE164(lead.Phone)

	contacts, err := s.store.ContactsForNew(ctx, numeric)
	if err != nil {
		return LeadDetails{}, apperr.Wrap(apperr.KindInternal, "loading lead contacts", err)
	}
	views := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, ContactView{
			ID:    c.ID,
			Name:  c.Name,
			Email: strval(c.Email),
			Phone: phone.NormalizeE164(strval(c.Phone)),
			Role:  strval(c.Role),
		})
	}
	return LeadDetails{Lead: lead, Contacts: views}, nil
}

// Assign sets the handler on every given lead, routing each id to its own
// table. All ids are validated before any write so a bad id never leaves a
// half-assigned batch.
func (s *Service) Assign(ctx context.Context, handlerID int64, leadIDs []string) (int, error) {
	if len(leadIDs) == 0 {
		return 0, apperr.Validation("no lead ids given")
	}

	m, err := s.refs.Maps(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}
	emp, ok := m.Employee(handlerID)
	if !ok {
		return 0, apperr.Validation("unknown handler id: " + strconv.FormatInt(handlerID, 10))
	}
	if !emp.IsActive {
		return 0, apperr.Validation("handler is not active: " + emp.DisplayName)
	}

	var newIDs, legacyIDs []int64
	for _, id := range leadIDs {
		numeric, legacy, err := parseID(id)
		if err != nil {
			return 0, err
		}
		if legacy {
			legacyIDs = append(legacyIDs, numeric)
		} else {
			newIDs = append(newIDs, numeric)
		}
	}

	if len(newIDs) > 0 {
		if err := s.store.AssignNew(ctx, handlerID, emp.DisplayName, newIDs); err != nil {
			return 0, apperr.Wrap(apperr.KindInternal, "assigning leads", err)
		}
	}
	if len(legacyIDs) > 0 {
		if err := s.store.AssignLegacy(ctx, handlerID, emp.DisplayName, legacyIDs); err != nil {
			return 0, apperr.Wrap(apperr.KindInternal, "assigning archived leads", err)
		}
	}
	return len(newIDs) + len(legacyIDs), nil
}

func strval(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
