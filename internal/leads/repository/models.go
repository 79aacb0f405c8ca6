package repository

import "time"

// NewLead is a raw row of the leads table (the post-migration schema).
// Categories are referenced by foreign key; language is stored as a text
// code; activity is encoded by the unactivated_at timestamp (NULL = active).
type NewLead struct {
	ID            int64
	LeadNumber    string
	MasterID      *int64
	Name          string
	Email         *string
	Phone         *string
	Stage         *int
	CategoryID    *int64
	Topic         *string
	Language      *string
	SourceID      *int64
	HandlerID     *int64
	Handler       *string
	Eligible      *bool
	Facts         *string
	Total         *float64
	CurrencyID    *int64
	CurrencyCode  *string
	UnactivatedAt *time.Time
	CreatedAt     time.Time
}

// LegacyLead is a raw row of the leads_lead table (the pre-migration schema).
// Categories are denormalized text; language is a foreign key; activity is a
// status code (0 or NULL = active, 10 = inactive).
type LegacyLead struct {
	ID         int64
	LeadNumber *string
	MasterID   *int64
	Name       string
	Email      *string
	Phone      *string
	Stage      *int
	Category   *string
	Topic      *string
	LanguageID *int64
	SourceID   *int64
	HandlerID  *int64
	Handler    *string
	IsEligible *int
	Facts      *string
	Total      *float64
	CurrencyID *int64
	Status     *int
	CreatedAt  time.Time
}

// Contact is a person attached to a lead.
type Contact struct {
	ID    int64
	Name  string
	Email *string
	Phone *string
	Role  *string
}
