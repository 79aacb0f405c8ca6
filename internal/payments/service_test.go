package payments

import (
	"context"
	"testing"
	"time"

	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

type fakeDueStore struct {
	rows []DueRow
	from time.Time
	to   time.Time
}

func (f *fakeDueStore) DueRowsForHandler(ctx context.Context, handlerID int64, from, to time.Time) ([]DueRow, error) {
	f.from, f.to = from, to
	return f.rows, nil
}

type staticRefs struct{ maps *refs.Maps }

func (s staticRefs) Maps(ctx context.Context) (*refs.Maps, error) { return s.maps, nil }

func paymentsMaps() *refs.Maps {
	de, at := int64(1), int64(2)
	return refs.NewMaps(refs.Bundle{
		Categories: []refs.Category{
			{ID: 10, Name: "Citizenship", MainID: &de},
			{ID: 20, Name: "Citizenship", MainID: &at},
			{ID: 30, Name: "Visa"},
		},
		MainCategories: []refs.MainCategory{
			{ID: 1, Name: "Germany"},
			{ID: 2, Name: "Austria"},
		},
		Employees: []refs.Employee{{ID: 7, DisplayName: "Dana Levi", IsActive: true}},
	})
}

func ptr[T any](v T) *T { return &v }

func dueRow(rowID int64, order int64, value float64, currencyID int64, categoryID *int64) DueRow {
	return DueRow{
		RowID:      rowID,
		LeadID:     rowID * 100,
		LeadName:   "lead",
		DueDate:    time.Date(2024, 5, int(rowID), 0, 0, 0, 0, time.UTC),
		Value:      value,
		CurrencyID: &currencyID,
		OrderCode:  &order,
		CategoryID: categoryID,
	}
}

func TestDuesMonthWindow(t *testing.T) {
	store := &fakeDueStore{}
	svc := NewService(store, staticRefs{paymentsMaps()}, logger.New("development"))

	if _, err := svc.Dues(context.Background(), 7, time.Date(2024, 5, 17, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("dues: %v", err)
	}
	if !store.from.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from: got %v", store.from)
	}
	if !store.to.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to: got %v", store.to)
	}
}

func TestDuesUnknownHandler(t *testing.T) {
	svc := NewService(&fakeDueStore{}, staticRefs{paymentsMaps()}, logger.New("development"))
	_, err := svc.Dues(context.Background(), 999, time.Now())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestDuesBucketsAndJurisdictionSplit(t *testing.T) {
	deCat, atCat, plainCat := int64(10), int64(20), int64(30)
	store := &fakeDueStore{rows: []DueRow{
		dueRow(1, 1, 1000, 1, &deCat),  // first, NIS
		dueRow(2, 2, 500, 2, &deCat),   // intermediate, USD
		dueRow(3, 3, 2000, 1, &deCat),  // final, Germany
		dueRow(4, 3, 3000, 1, &atCat),  // final, Austria
		dueRow(5, 3, 400, 1, &plainCat), // final, no main category
	}}
	svc := NewService(store, staticRefs{paymentsMaps()}, logger.New("development"))

	report, err := svc.Dues(context.Background(), 7, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dues: %v", err)
	}

	if got := report.First["NIS"]; got != 1000 {
		t.Fatalf("first NIS: got %v", got)
	}
	if got := report.Intermediate["USD"]; got != 500 {
		t.Fatalf("intermediate USD: got %v", got)
	}
	if got := report.FinalGermany["NIS"]; got != 2000 {
		t.Fatalf("final Germany: got %v", got)
	}
	if got := report.FinalAustria["NIS"]; got != 3000 {
		t.Fatalf("final Austria: got %v", got)
	}
	if got := report.FinalOther["NIS"]; got != 400 {
		t.Fatalf("final other: got %v", got)
	}

	for _, d := range report.Rows {
		if d.Order != OrderFinal && d.Jurisdiction != "" {
			t.Fatalf("non-final row %d carries jurisdiction %q", d.RowID, d.Jurisdiction)
		}
	}
}

func TestDuesCurrencyFallback(t *testing.T) {
	two := int64(2)
	store := &fakeDueStore{rows: []DueRow{
		{RowID: 1, LeadID: 100, DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Value: 100, CurrencyID: &two, OrderCode: ptr(int64(1))},
	}}
	svc := NewService(store, staticRefs{paymentsMaps()}, logger.New("development"))

	report, err := svc.Dues(context.Background(), 7, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dues: %v", err)
	}
	if report.Rows[0].Currency != "USD" || report.Rows[0].CurrencySymbol != "$" {
		t.Fatalf("currency_id 2 with no joined record: got %q %q", report.Rows[0].Currency, report.Rows[0].CurrencySymbol)
	}
}

func TestDuesLegacyLeadIDAndCategoryText(t *testing.T) {
	store := &fakeDueStore{rows: []DueRow{
		{
			RowID:        1,
			LeadID:       42,
			LeadLegacy:   true,
			CategoryText: ptr("Citizenship"),
			DueDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Value:        700,
			OrderCode:    ptr(int64(3)),
		},
	}}
	svc := NewService(store, staticRefs{paymentsMaps()}, logger.New("development"))

	report, err := svc.Dues(context.Background(), 7, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dues: %v", err)
	}
	if report.Rows[0].LeadID != "legacy_42" {
		t.Fatalf("lead id: got %q", report.Rows[0].LeadID)
	}
	// "Citizenship" is ambiguous between the two practices; the first
	// resolved category wins, which maps to Germany here.
	if report.Rows[0].Jurisdiction != JurisdictionGermany {
		t.Fatalf("jurisdiction: got %q", report.Rows[0].Jurisdiction)
	}
}
