// Package service builds the handler-management views: the caseload
// overview, the unassigned pool, bulk assignment, and monthly dues.
package service

import (
	"context"
	"sort"
	"time"

	"lawoffice_crm_backend/internal/caseload/repository"
	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/internal/leads/normalize"
	"lawoffice_crm_backend/internal/payments"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

// CountStore is the persistence surface the service needs.
type CountStore interface {
	CountsByHandler(ctx context.Context) (map[int64]repository.StageCounts, error)
}

// LeadDirectory is the slice of the leads module this module consumes.
type LeadDirectory interface {
	Unassigned(ctx context.Context) ([]normalize.Lead, error)
	Assign(ctx context.Context, handlerID int64, leadIDs []string) (int, error)
}

// DuesProvider yields a handler's monthly dues report.
type DuesProvider interface {
	Dues(ctx context.Context, handlerID int64, month time.Time) (payments.DuesReport, error)
}

// RefProvider yields the reference lookup maps for a request cycle.
type RefProvider interface {
	Maps(ctx context.Context) (*refs.Maps, error)
}

// HandlerSummary is one row of the caseload overview.
type HandlerSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Department       string `json:"department,omitempty"`
	NewCases         int    `json:"newCasesCount"`
	ActiveCases      int    `json:"activeCasesCount"`
	InProcess        int    `json:"inProcessCount"`
	ApplicationsSent int    `json:"applicationsSentCount"`
}

// AssignResult reports a completed bulk assignment.
type AssignResult struct {
	HandlerID   int64  `json:"handlerId"`
	HandlerName string `json:"handlerName"`
	Assigned    int    `json:"assigned"`
}

type Service struct {
	counts CountStore
	leads  LeadDirectory
	dues   DuesProvider
	refs   RefProvider
	bus    events.Bus
	log    *logger.Logger
}

func New(counts CountStore, leads LeadDirectory, dues DuesProvider, refProvider RefProvider, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		counts: counts,
		leads:  leads,
		dues:   dues,
		refs:   refProvider,
		bus:    bus,
		log:    log,
	}
}

// Handlers lists every active employee with freshly computed caseload
// counters. Employees with no leads still appear, with zero counts.
func (s *Service) Handlers(ctx context.Context) ([]HandlerSummary, error) {
	m, err := s.refs.Maps(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}
	counts, err := s.counts.CountsByHandler(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "counting caseloads", err)
	}

	var out []HandlerSummary
	for _, e := range m.ActiveEmployees() {
		c := counts[e.ID]
		out = append(out, HandlerSummary{
			ID:               e.ID,
			Name:             e.DisplayName,
			Email:            e.Email,
			Department:       e.Department,
			NewCases:         c.New,
			ActiveCases:      c.Active,
			InProcess:        c.InProcess,
			ApplicationsSent: c.ApplicationsSent,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UnassignedLeads returns the pool of leads waiting for a handler.
func (s *Service) UnassignedLeads(ctx context.Context) ([]normalize.Lead, error) {
	return s.leads.Unassigned(ctx)
}

// Assign hands a batch of leads to one handler and publishes a LeadsAssigned
// event for the notification pipeline.
func (s *Service) Assign(ctx context.Context, assignedBy, handlerID int64, leadIDs []string) (AssignResult, error) {
	m, err := s.refs.Maps(ctx)
	if err != nil {
		return AssignResult{}, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}
	emp, ok := m.Employee(handlerID)
	if !ok {
		return AssignResult{}, apperr.Validation("unknown handler id")
	}

	n, err := s.leads.Assign(ctx, handlerID, leadIDs)
	if err != nil {
		return AssignResult{}, err
	}

	s.bus.Publish(ctx, events.LeadsAssigned{
		BaseEvent:    events.NewBaseEvent(),
		HandlerID:    handlerID,
		HandlerName:  emp.DisplayName,
		HandlerEmail: emp.Email,
		LeadIDs:      leadIDs,
		AssignedBy:   assignedBy,
	})

	return AssignResult{HandlerID: handlerID, HandlerName: emp.DisplayName, Assigned: n}, nil
}

// Dues delegates to the payments module.
func (s *Service) Dues(ctx context.Context, handlerID int64, month time.Time) (payments.DuesReport, error) {
	return s.dues.Dues(ctx, handlerID, month)
}
