package transport

import (
	"testing"
	"time"

	"lawoffice_crm_backend/platform/apperr"
)

func TestSearchRequestFiltersDateBounds(t *testing.T) {
	f, err := SearchRequest{From: "2024-05-01", To: "2024-05-31"}.Filters()
	if err != nil {
		t.Fatalf("filters: %v", err)
	}
	wantFrom := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !f.From.Equal(wantFrom) {
		t.Fatalf("from: got %v", f.From)
	}
	// The "to" day is inclusive up to its last instant.
	if !f.To.After(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("to: got %v", f.To)
	}
	if !f.To.Before(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to crosses into the next day: %v", f.To)
	}
}

func TestSearchRequestFiltersEmptyDates(t *testing.T) {
	f, err := SearchRequest{}.Filters()
	if err != nil {
		t.Fatalf("filters: %v", err)
	}
	if f.From != nil || f.To != nil {
		t.Fatalf("empty dates should stay nil")
	}
}

func TestSearchRequestFiltersRejectsInvertedRange(t *testing.T) {
	_, err := SearchRequest{From: "2024-06-01", To: "2024-05-01"}.Filters()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestSearchRequestFiltersRejectsBadDate(t *testing.T) {
	_, err := SearchRequest{From: "01/05/2024"}.Filters()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}
