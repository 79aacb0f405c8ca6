package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"lawoffice_crm_backend/internal/caseload/repository"
	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/internal/leads/normalize"
	"lawoffice_crm_backend/internal/payments"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

type fakeCounts struct {
	counts map[int64]repository.StageCounts
}

func (f fakeCounts) CountsByHandler(ctx context.Context) (map[int64]repository.StageCounts, error) {
	return f.counts, nil
}

type fakeLeads struct {
	unassigned  []normalize.Lead
	assignedIDs []string
	assignedTo  int64
}

func (f *fakeLeads) Unassigned(ctx context.Context) ([]normalize.Lead, error) {
	return f.unassigned, nil
}

func (f *fakeLeads) Assign(ctx context.Context, handlerID int64, leadIDs []string) (int, error) {
	f.assignedTo = handlerID
	f.assignedIDs = leadIDs
	return len(leadIDs), nil
}

type fakeDues struct{}

func (fakeDues) Dues(ctx context.Context, handlerID int64, month time.Time) (payments.DuesReport, error) {
	return payments.DuesReport{}, nil
}

type staticRefs struct{ maps *refs.Maps }

func (s staticRefs) Maps(ctx context.Context) (*refs.Maps, error) { return s.maps, nil }

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func caseloadMaps() *refs.Maps {
	return refs.NewMaps(refs.Bundle{
		Employees: []refs.Employee{
			{ID: 7, DisplayName: "Dana Levi", Email: "dana@example.com", Department: "Germany", IsActive: true},
			{ID: 8, DisplayName: "Avi Mizrahi", IsActive: true},
			{ID: 9, DisplayName: "Former Employee", IsActive: false},
		},
	})
}

func newTestService(counts fakeCounts, leads *fakeLeads, bus *recordingBus) *Service {
	return New(counts, leads, fakeDues{}, staticRefs{caseloadMaps()}, bus, logger.New("development"))
}

func TestHandlersIncludesIdleEmployeesAndSkipsInactive(t *testing.T) {
	counts := fakeCounts{counts: map[int64]repository.StageCounts{
		7: {New: 3, Active: 5, InProcess: 2, ApplicationsSent: 1},
	}}
	svc := newTestService(counts, &fakeLeads{}, &recordingBus{})

	handlers, err := svc.Handlers(context.Background())
	if err != nil {
		t.Fatalf("handlers: %v", err)
	}
	if len(handlers) != 2 {
		t.Fatalf("got %d handlers", len(handlers))
	}
	// Sorted by name: Avi before Dana.
	if handlers[0].Name != "Avi Mizrahi" || handlers[0].NewCases != 0 {
		t.Fatalf("idle handler: %+v", handlers[0])
	}
	if handlers[1].Name != "Dana Levi" || handlers[1].ActiveCases != 5 || handlers[1].ApplicationsSent != 1 {
		t.Fatalf("busy handler: %+v", handlers[1])
	}
}

func TestAssignPublishesEvent(t *testing.T) {
	leads := &fakeLeads{}
	bus := &recordingBus{}
	svc := newTestService(fakeCounts{}, leads, bus)

	result, err := svc.Assign(context.Background(), 1, 7, []string{"10", "legacy_20"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.Assigned != 2 || result.HandlerName != "Dana Levi" {
		t.Fatalf("result: %+v", result)
	}
	if leads.assignedTo != 7 || len(leads.assignedIDs) != 2 {
		t.Fatalf("delegation: to=%d ids=%v", leads.assignedTo, leads.assignedIDs)
	}

	if len(bus.events) != 1 {
		t.Fatalf("got %d events", len(bus.events))
	}
	e, ok := bus.events[0].(events.LeadsAssigned)
	if !ok {
		t.Fatalf("event type: %T", bus.events[0])
	}
	if e.HandlerEmail != "dana@example.com" || e.AssignedBy != 1 {
		t.Fatalf("event payload: %+v", e)
	}
}

func TestAssignUnknownHandlerPublishesNothing(t *testing.T) {
	bus := &recordingBus{}
	svc := newTestService(fakeCounts{}, &fakeLeads{}, bus)

	_, err := svc.Assign(context.Background(), 1, 999, []string{"10"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("event published for failed assignment")
	}
}
