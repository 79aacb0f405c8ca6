package transport

import (
	"time"

	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/platform/apperr"
)

const dateLayout = "2006-01-02"

// SearchRequest is the request body for the lead search endpoint. Dates are
// calendar days; every list field is optional and an empty list means "no
// constraint" on that dimension.
type SearchRequest struct {
	From         string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Categories   []string `json:"categories" validate:"omitempty,dive,min=1,max=200"`
	Languages    []string `json:"languages" validate:"omitempty,dive,min=1,max=100"`
	Statuses     []string `json:"statuses" validate:"omitempty,dive,oneof=Active 'Not active'"`
	Sources      []string `json:"sources" validate:"omitempty,dive,min=1,max=200"`
	Stages       []int    `json:"stages" validate:"omitempty,dive,min=0,max=999"`
	Topics       []string `json:"topics" validate:"omitempty,dive,min=1,max=500"`
	EligibleOnly bool     `json:"eligibleOnly"`
}

// Filters converts the request to repository filters. A "from" day starts at
// midnight UTC; a "to" day extends to its last instant so both bounds are
// inclusive.
func (r SearchRequest) Filters() (repository.Filters, error) {
	f := repository.Filters{
		Categories:   r.Categories,
		Languages:    r.Languages,
		Statuses:     r.Statuses,
		Sources:      r.Sources,
		Stages:       r.Stages,
		Topics:       r.Topics,
		EligibleOnly: r.EligibleOnly,
	}

	if r.From != "" {
		day, err := time.ParseInLocation(dateLayout, r.From, time.UTC)
		if err != nil {
			return repository.Filters{}, apperr.Validation("invalid from date: " + r.From)
		}
		f.From = &day
	}
	if r.To != "" {
		day, err := time.ParseInLocation(dateLayout, r.To, time.UTC)
		if err != nil {
			return repository.Filters{}, apperr.Validation("invalid to date: " + r.To)
		}
		end := day.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return repository.Filters{}, apperr.Validation("from date is after to date")
	}
	return f, nil
}
