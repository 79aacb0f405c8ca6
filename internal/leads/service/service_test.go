package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

type fakeStore struct {
	newRows    []repository.NewLead
	legacyRows []repository.LegacyLead
	newErr     error
	legacyErr  error

	assignedNew    []int64
	assignedLegacy []int64
	assignedName   string
}

func (f *fakeStore) SearchNew(ctx context.Context, _ repository.Filters, _ *refs.Maps, _ repository.SourceScope) ([]repository.NewLead, error) {
	return f.newRows, f.newErr
}

func (f *fakeStore) SearchLegacy(ctx context.Context, _ repository.Filters, _ *refs.Maps, _ repository.SourceScope) ([]repository.LegacyLead, error) {
	return f.legacyRows, f.legacyErr
}

func (f *fakeStore) UnassignedNew(ctx context.Context) ([]repository.NewLead, error) {
	return f.newRows, f.newErr
}

func (f *fakeStore) UnassignedLegacy(ctx context.Context) ([]repository.LegacyLead, error) {
	return f.legacyRows, f.legacyErr
}

func (f *fakeStore) GetNew(ctx context.Context, id int64) (repository.NewLead, error) {
	for _, r := range f.newRows {
		if r.ID == id {
			return r, nil
		}
	}
	return repository.NewLead{}, repository.ErrNotFound
}

func (f *fakeStore) GetLegacy(ctx context.Context, id int64) (repository.LegacyLead, error) {
	for _, r := range f.legacyRows {
		if r.ID == id {
			return r, nil
		}
	}
	return repository.LegacyLead{}, repository.ErrNotFound
}

func (f *fakeStore) ContactsForNew(ctx context.Context, leadID int64) ([]repository.Contact, error) {
	return nil, nil
}

func (f *fakeStore) AssignNew(ctx context.Context, handlerID int64, handlerName string, ids []int64) error {
	f.assignedNew = append(f.assignedNew, ids...)
	f.assignedName = handlerName
	return nil
}

func (f *fakeStore) AssignLegacy(ctx context.Context, handlerID int64, handlerName string, ids []int64) error {
	f.assignedLegacy = append(f.assignedLegacy, ids...)
	f.assignedName = handlerName
	return nil
}

type staticRefs struct{ maps *refs.Maps }

func (s staticRefs) Maps(ctx context.Context) (*refs.Maps, error) { return s.maps, nil }

func serviceMaps() *refs.Maps {
	return refs.NewMaps(refs.Bundle{
		Employees: []refs.Employee{
			{ID: 7, DisplayName: "Dana Levi", IsActive: true},
			{ID: 8, DisplayName: "Retired Handler", IsActive: false},
		},
		Stages: []refs.Stage{{ID: 110, Name: "Active", Color: "#4caf50"}},
	})
}

func newTestService(store *fakeStore) *Service {
	return New(store, staticRefs{maps: serviceMaps()}, logger.New("development"))
}

func date(day int) time.Time {
	return time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC)
}

func TestSearchMergesBothSchemasNewestFirst(t *testing.T) {
	store := &fakeStore{
		newRows: []repository.NewLead{
			{ID: 1, LeadNumber: "L-1", Name: "new", CreatedAt: date(10)},
		},
		legacyRows: []repository.LegacyLead{
			{ID: 2, Name: "old", CreatedAt: date(20)},
		},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), 1, repository.SourceScope{}, repository.Filters{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected source errors: %+v", res.Errors)
	}
	if len(res.Leads) != 2 {
		t.Fatalf("got %d leads", len(res.Leads))
	}
	if res.Leads[0].ID != "legacy_2" || res.Leads[1].ID != "1" {
		t.Fatalf("order: got %q, %q", res.Leads[0].ID, res.Leads[1].ID)
	}
	if res.Stale {
		t.Fatalf("single search should not be stale")
	}
}

func TestSearchSurvivesOneFailingTable(t *testing.T) {
	store := &fakeStore{
		newErr: errors.New("connection refused"),
		legacyRows: []repository.LegacyLead{
			{ID: 2, Name: "old", CreatedAt: date(20)},
		},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), 1, repository.SourceScope{}, repository.Filters{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Leads) != 1 || res.Leads[0].ID != "legacy_2" {
		t.Fatalf("surviving rows: %+v", res.Leads)
	}
	if len(res.Errors) != 1 || res.Errors[0].Source != "leads" {
		t.Fatalf("source errors: %+v", res.Errors)
	}
}

func TestSearchBothTablesFailingStillAnswers(t *testing.T) {
	store := &fakeStore{
		newErr:    errors.New("down"),
		legacyErr: errors.New("down"),
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), 1, repository.SourceScope{}, repository.Filters{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Leads) != 0 || len(res.Errors) != 2 {
		t.Fatalf("got %d leads, %d errors", len(res.Leads), len(res.Errors))
	}
}

func TestGenerationsMarkOvertakenSearch(t *testing.T) {
	gens := NewGenerations()
	first := gens.Begin(1)
	second := gens.Begin(1)

	if gens.IsCurrent(1, first) {
		t.Fatalf("overtaken generation should not be current")
	}
	if !gens.IsCurrent(1, second) {
		t.Fatalf("latest generation should be current")
	}
	// Another principal's searches never interfere.
	other := gens.Begin(2)
	if !gens.IsCurrent(1, second) || !gens.IsCurrent(2, other) {
		t.Fatalf("generations leaked across principals")
	}
}

func TestDetailsRoutesLegacyPrefix(t *testing.T) {
	store := &fakeStore{
		legacyRows: []repository.LegacyLead{{ID: 99, Name: "old", CreatedAt: date(1)}},
	}
	svc := newTestService(store)

	d, err := svc.Details(context.Background(), "legacy_99")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d.Lead.ID != "legacy_99" || d.Lead.LeadType != "legacy" {
		t.Fatalf("got %q type %q", d.Lead.ID, d.Lead.LeadType)
	}
	if d.Contacts == nil || len(d.Contacts) != 0 {
		t.Fatalf("legacy leads have an empty contact list, got %+v", d.Contacts)
	}
}

func TestDetailsRejectsMalformedID(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.Details(context.Background(), "legacy_abc")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	_, err = svc.Details(context.Background(), "1/2")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("suffixed number is not an id, got %v", err)
	}
}

func TestDetailsNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.Details(context.Background(), "42")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestAssignRoutesIDsByPrefix(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	n, err := svc.Assign(context.Background(), 7, []string{"1", "legacy_2", "3"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if n != 3 {
		t.Fatalf("count: got %d", n)
	}
	if len(store.assignedNew) != 2 || len(store.assignedLegacy) != 1 {
		t.Fatalf("routing: new=%v legacy=%v", store.assignedNew, store.assignedLegacy)
	}
	if store.assignedName != "Dana Levi" {
		t.Fatalf("handler name: got %q", store.assignedName)
	}
}

func TestAssignValidatesBeforeWriting(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.Assign(context.Background(), 7, []string{"1", "not-a-lead"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(store.assignedNew) != 0 || len(store.assignedLegacy) != 0 {
		t.Fatalf("writes happened despite invalid batch")
	}

	if _, err := svc.Assign(context.Background(), 999, []string{"1"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown handler: got %v", err)
	}
	if _, err := svc.Assign(context.Background(), 8, []string{"1"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("inactive handler: got %v", err)
	}
	if _, err := svc.Assign(context.Background(), 7, nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty batch: got %v", err)
	}
}
