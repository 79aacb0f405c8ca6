// Package normalize projects both lead schemas into one canonical record so
// downstream code never re-detects row shape. Each output carries a LeadType
// tag that write paths use to route updates back to the right table.
package normalize

import (
	"strconv"
	"strings"

	"lawoffice_crm_backend/internal/leads/domain"
	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/refs"

	"time"
)

// Schema tags.
const (
	LeadTypeNew    = "new"
	LeadTypeLegacy = "legacy"
)

// LegacyIDPrefix disambiguates legacy ids inside the unified collection.
const LegacyIDPrefix = "legacy_"

// Lead is the schema-agnostic record consumed by every view.
type Lead struct {
	ID                string    `json:"id"`
	NumericID         int64     `json:"-"`
	LeadType          string    `json:"leadType"`
	LeadNumber        string    `json:"leadNumber"`
	DisplayLeadNumber string    `json:"displayLeadNumber"`
	MasterID          *int64    `json:"masterId,omitempty"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Stage             *int      `json:"stage,omitempty"`
	StageName         string    `json:"stageName"`
	StageColor        string    `json:"stageColor"`
	Category          string    `json:"category"`
	MainCategory      string    `json:"mainCategory,omitempty"`
	Topic             string    `json:"topic,omitempty"`
	Language          string    `json:"language,omitempty"`
	SourceID          *int64    `json:"sourceId,omitempty"`
	SourceName        string    `json:"sourceName,omitempty"`
	HandlerID         *int64    `json:"handlerId,omitempty"`
	HandlerName       string    `json:"handlerName,omitempty"`
	Unassigned        bool      `json:"unassigned"`
	Active            bool      `json:"active"`
	Eligible          bool      `json:"eligible"`
	Facts             string    `json:"facts,omitempty"`
	Total             float64   `json:"total"`
	Currency          string    `json:"currency"`
	CurrencySymbol    string    `json:"currencySymbol"`
	CreatedAt         time.Time `json:"createdAt"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUnassigned(handlerID *int64, handler *string) bool {
	return handlerID == nil && strings.TrimSpace(deref(handler)) == ""
}

// FromNew normalizes a new-schema row.
func FromNew(n repository.NewLead, m *refs.Maps) Lead {
	stageName, stageColor := m.StageBadge(n.Stage)
	currency := refs.CurrencyCode(n.CurrencyCode, n.CurrencyID)

	l := Lead{
		ID:                strconv.FormatInt(n.ID, 10),
		NumericID:         n.ID,
		LeadType:          LeadTypeNew,
		LeadNumber:        n.LeadNumber,
		DisplayLeadNumber: n.LeadNumber,
		MasterID:          n.MasterID,
		Name:              n.Name,
		Email:             deref(n.Email),
		Phone:             deref(n.Phone),
		Stage:             n.Stage,
		StageName:         stageName,
		StageColor:        stageColor,
		Category:          m.CategoryDisplay(n.CategoryID, ""),
		MainCategory:      m.MainCategoryName(n.CategoryID),
		Topic:             deref(n.Topic),
		Language:          deref(n.Language),
		SourceID:          n.SourceID,
		SourceName:        m.SourceName(n.SourceID),
		HandlerID:         n.HandlerID,
		HandlerName:       m.EmployeeDisplay(n.HandlerID, deref(n.Handler)),
		Unassigned:        isUnassigned(n.HandlerID, n.Handler),
		Active:            n.UnactivatedAt == nil,
		Eligible:          n.Eligible != nil && *n.Eligible,
		Facts:             ParseFacts(deref(n.Facts)),
		Currency:          currency,
		CurrencySymbol:    refs.CurrencySymbol(currency),
		CreatedAt:         n.CreatedAt,
	}
	if n.Total != nil {
		l.Total = *n.Total
	}
	return l
}

// FromLegacy normalizes a legacy-schema row. The id gains the legacy_ prefix
// so it never collides with a new-schema id in a merged collection.
func FromLegacy(g repository.LegacyLead, m *refs.Maps) Lead {
	stageName, stageColor := m.StageBadge(g.Stage)
	currency := refs.CurrencyCode(nil, g.CurrencyID)

	// The denormalized text may be a bare name; if it resolves, prefer the
	// canonical "Sub (Main)" display so both schemas agree.
	category := strings.TrimSpace(deref(g.Category))
	mainCategory := ""
	if ids := m.CategoryIDs(category); len(ids) > 0 {
		id := ids[0]
		category = m.CategoryDisplay(&id, category)
		mainCategory = m.MainCategoryName(&id)
	}

	l := Lead{
		ID:                LegacyIDPrefix + strconv.FormatInt(g.ID, 10),
		NumericID:         g.ID,
		LeadType:          LeadTypeLegacy,
		LeadNumber:        deref(g.LeadNumber),
		DisplayLeadNumber: deref(g.LeadNumber),
		MasterID:          g.MasterID,
		Name:              g.Name,
		Email:             deref(g.Email),
		Phone:             deref(g.Phone),
		Stage:             g.Stage,
		StageName:         stageName,
		StageColor:        stageColor,
		Category:          category,
		MainCategory:      mainCategory,
		Topic:             deref(g.Topic),
		Language:          m.LanguageName(g.LanguageID, ""),
		SourceID:          g.SourceID,
		SourceName:        m.SourceName(g.SourceID),
		HandlerID:         g.HandlerID,
		HandlerName:       m.EmployeeDisplay(g.HandlerID, deref(g.Handler)),
		Unassigned:        isUnassigned(g.HandlerID, g.Handler),
		Active:            g.Status == nil || *g.Status == 0,
		Eligible:          g.IsEligible != nil && *g.IsEligible == 1,
		Facts:             ParseFacts(deref(g.Facts)),
		Currency:          currency,
		CurrencySymbol:    refs.CurrencySymbol(currency),
		CreatedAt:         g.CreatedAt,
	}
	if g.Total != nil {
		l.Total = *g.Total
	}
	if l.LeadNumber == "" {
		l.LeadNumber = strconv.FormatInt(g.ID, 10)
		l.DisplayLeadNumber = l.LeadNumber
	}
	return l
}

// IsDroppedLead reports whether a normalized lead carries the dropped/spam
// stage sentinel.
func IsDroppedLead(l Lead) bool {
	return domain.IsDropped(l.Stage)
}
