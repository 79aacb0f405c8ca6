package normalize

import (
	"testing"
	"time"

	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/refs"
)

func testMaps() *refs.Maps {
	mainID := int64(1)
	return refs.NewMaps(refs.Bundle{
		Categories: []refs.Category{
			{ID: 10, Name: "Citizenship", MainID: &mainID},
			{ID: 11, Name: "Visa"},
		},
		MainCategories: []refs.MainCategory{{ID: 1, Name: "Germany"}},
		Sources:        []refs.Source{{ID: 3, Name: "Website"}},
		Languages: []refs.Language{
			{ID: 1, Name: "English", Code: "EN"},
			{ID: 2, Name: "Hebrew", Code: "HE"},
		},
		Stages: []refs.Stage{
			{ID: 100, Name: "New", Color: "#2196f3"},
			{ID: 110, Name: "Active", Color: "#4caf50"},
		},
		Employees: []refs.Employee{
			{ID: 7, DisplayName: "Dana Levi", Email: "dana@example.com", IsActive: true},
		},
	})
}

func ptr[T any](v T) *T { return &v }

func TestFromNew(t *testing.T) {
	m := testMaps()
	row := repository.NewLead{
		ID:         42,
		LeadNumber: "L-2024-0042",
		Name:       "John Smith",
		Email:      ptr("john@example.com"),
		Stage:      ptr(110),
		CategoryID: ptr(int64(10)),
		Language:   ptr("English"),
		SourceID:   ptr(int64(3)),
		HandlerID:  ptr(int64(7)),
		Eligible:   ptr(true),
		Total:      ptr(2500.0),
		CurrencyID: ptr(int64(2)),
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	l := FromNew(row, m)

	if l.ID != "42" || l.LeadType != LeadTypeNew {
		t.Fatalf("identity: got id=%q type=%q", l.ID, l.LeadType)
	}
	if l.Category != "Citizenship (Germany)" {
		t.Fatalf("category: got %q", l.Category)
	}
	if l.MainCategory != "Germany" {
		t.Fatalf("main category: got %q", l.MainCategory)
	}
	if l.StageName != "Active" || l.StageColor != "#4caf50" {
		t.Fatalf("stage badge: got %q/%q", l.StageName, l.StageColor)
	}
	if l.SourceName != "Website" {
		t.Fatalf("source: got %q", l.SourceName)
	}
	if l.HandlerName != "Dana Levi" || l.Unassigned {
		t.Fatalf("handler: got %q unassigned=%v", l.HandlerName, l.Unassigned)
	}
	if !l.Active {
		t.Fatalf("nil unactivated_at should be active")
	}
	if l.Currency != "USD" || l.CurrencySymbol != "$" {
		t.Fatalf("currency: got %q %q", l.Currency, l.CurrencySymbol)
	}
	if l.Total != 2500 {
		t.Fatalf("total: got %v", l.Total)
	}
}

func TestFromNewInactive(t *testing.T) {
	m := testMaps()
	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	l := FromNew(repository.NewLead{ID: 1, LeadNumber: "L-1", Name: "x", UnactivatedAt: &when}, m)
	if l.Active {
		t.Fatalf("set unactivated_at should be inactive")
	}
	if !l.Unassigned {
		t.Fatalf("no handler fields should be unassigned")
	}
}

func TestFromLegacy(t *testing.T) {
	m := testMaps()
	row := repository.LegacyLead{
		ID:         99,
		LeadNumber: ptr("L-2019-0099"),
		Name:       "Maria Cohen",
		Stage:      ptr(100),
		Category:   ptr("Citizenship"),
		LanguageID: ptr(int64(2)),
		Handler:    ptr("Dana Levi"),
		IsEligible: ptr(1),
		Status:     ptr(0),
		CurrencyID: ptr(int64(1)),
		CreatedAt:  time.Date(2019, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	l := FromLegacy(row, m)

	if l.ID != "legacy_99" || l.LeadType != LeadTypeLegacy {
		t.Fatalf("identity: got id=%q type=%q", l.ID, l.LeadType)
	}
	if l.NumericID != 99 {
		t.Fatalf("numeric id: got %d", l.NumericID)
	}
	// The stored bare name resolves and both schemas converge on the same
	// display form.
	if l.Category != "Citizenship (Germany)" {
		t.Fatalf("category: got %q", l.Category)
	}
	if l.MainCategory != "Germany" {
		t.Fatalf("main category: got %q", l.MainCategory)
	}
	if l.Language != "Hebrew" {
		t.Fatalf("language: got %q", l.Language)
	}
	if l.HandlerName != "Dana Levi" || l.Unassigned {
		t.Fatalf("handler: got %q unassigned=%v", l.HandlerName, l.Unassigned)
	}
	if !l.Active {
		t.Fatalf("status 0 should be active")
	}
	if !l.Eligible {
		t.Fatalf("is_eligible 1 should be eligible")
	}
	if l.Currency != "NIS" || l.CurrencySymbol != "₪" {
		t.Fatalf("currency: got %q %q", l.Currency, l.CurrencySymbol)
	}
}

func TestFromLegacyStatusEncodings(t *testing.T) {
	m := testMaps()
	if l := FromLegacy(repository.LegacyLead{ID: 1, Name: "a"}, m); !l.Active {
		t.Fatalf("nil status should be active")
	}
	if l := FromLegacy(repository.LegacyLead{ID: 2, Name: "b", Status: ptr(10)}, m); l.Active {
		t.Fatalf("status 10 should be inactive")
	}
}

func TestFromLegacyUnresolvedCategoryKeptVerbatim(t *testing.T) {
	m := testMaps()
	l := FromLegacy(repository.LegacyLead{ID: 5, Name: "x", Category: ptr("Old Handwritten Label")}, m)
	if l.Category != "Old Handwritten Label" {
		t.Fatalf("unresolved category should pass through, got %q", l.Category)
	}
	if l.MainCategory != "" {
		t.Fatalf("unresolved category has no main, got %q", l.MainCategory)
	}
}

func TestFromLegacyMissingLeadNumber(t *testing.T) {
	m := testMaps()
	l := FromLegacy(repository.LegacyLead{ID: 314, Name: "x"}, m)
	if l.LeadNumber != "314" || l.DisplayLeadNumber != "314" {
		t.Fatalf("missing lead number should fall back to id, got %q/%q", l.LeadNumber, l.DisplayLeadNumber)
	}
}

func TestUnassignedRequiresBothFieldsEmpty(t *testing.T) {
	m := testMaps()
	cases := []struct {
		handlerID *int64
		handler   *string
		want      bool
	}{
		{nil, nil, true},
		{nil, ptr(""), true},
		{nil, ptr("   "), true},
		{ptr(int64(7)), nil, false},
		{nil, ptr("Dana Levi"), false},
	}
	for i, c := range cases {
		l := FromNew(repository.NewLead{ID: int64(i), LeadNumber: "L", Name: "x", HandlerID: c.handlerID, Handler: c.handler}, m)
		if l.Unassigned != c.want {
			t.Fatalf("case %d: got unassigned=%v, want %v", i, l.Unassigned, c.want)
		}
	}
}

func TestFromNewUnknownStageGetsNeutralBadge(t *testing.T) {
	m := testMaps()
	l := FromNew(repository.NewLead{ID: 1, LeadNumber: "L", Name: "x", Stage: ptr(999)}, m)
	if l.StageName != refs.NoStageName || l.StageColor != refs.NoStageColor {
		t.Fatalf("unknown stage: got %q/%q", l.StageName, l.StageColor)
	}
}

func TestParseFacts(t *testing.T) {
	if got := ParseFacts(`{"country":"Germany","born":1956}`); got != "born: 1956\ncountry: Germany" {
		t.Fatalf("object facts: got %q", got)
	}
	if got := ParseFacts(`["first fact","second fact"]`); got != "first fact\nsecond fact" {
		t.Fatalf("array facts: got %q", got)
	}
	if got := ParseFacts(`<p>Grandfather born in <b>Berlin</b></p>`); got != "Grandfather born in Berlin" {
		t.Fatalf("html facts: got %q", got)
	}
	if got := ParseFacts("  "); got != "" {
		t.Fatalf("blank facts: got %q", got)
	}
	// Malformed JSON degrades to text handling instead of erroring.
	if got := ParseFacts(`{"broken":`); got != `{"broken":` {
		t.Fatalf("malformed json facts: got %q", got)
	}
}
