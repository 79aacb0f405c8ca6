package repository

import (
	"strings"
	"time"

	"lawoffice_crm_backend/internal/leads/domain"
	"lawoffice_crm_backend/internal/query"
	"lawoffice_crm_backend/internal/refs"
)

// Filter status values accepted from the API.
const (
	StatusActive    = "Active"
	StatusNotActive = "Not active"
)

// Filters is the schema-independent search filter set. Empty slices mean "no
// constraint"; scalar zero values likewise.
type Filters struct {
	From         *time.Time
	To           *time.Time
	Categories   []string
	Languages    []string
	Statuses     []string
	Sources      []string
	Stages       []int
	Topics       []string
	EligibleOnly bool
}

// SourceScope is the caller's lead-source visibility. Restricted users only
// ever see their allow-list; an empty restricted list matches nothing.
type SourceScope struct {
	Restricted bool
	Allowed    []int64
}

type statusMode int

const (
	statusAll statusMode = iota
	statusActiveOnly
	statusInactiveOnly
)

// parseStatusMode folds the status multi-select into a tri-state. Selecting
// both values (or none) means no constraint; the two values are exhaustive
// and mutually exclusive today, so this matches an explicit IN over both.
func parseStatusMode(values []string) statusMode {
	var active, inactive bool
	for _, v := range values {
		switch v {
		case StatusActive:
			active = true
		case StatusNotActive:
			inactive = true
		}
	}
	switch {
	case active && !inactive:
		return statusActiveOnly
	case inactive && !active:
		return statusInactiveOnly
	default:
		return statusAll
	}
}

// resolveSources intersects the selected source names with the caller's
// allow-list. Returns the ids to filter by and whether a source predicate is
// needed at all; a restricted caller always gets one.
func resolveSources(selected []string, m *refs.Maps, scope SourceScope) (ids []int64, constrained bool) {
	if scope.Restricted && len(scope.Allowed) == 0 {
		return nil, true // fail closed
	}

	var selectedIDs []int64
	for _, name := range selected {
		if id, ok := m.SourceID(name); ok {
			selectedIDs = append(selectedIDs, id)
		}
	}

	switch {
	case len(selected) > 0 && len(selectedIDs) == 0:
		// The caller asked for sources we cannot resolve. Matching nothing
		// beats matching everything.
		return nil, true
	case !scope.Restricted:
		if len(selectedIDs) == 0 {
			return nil, false
		}
		return selectedIDs, true
	case len(selectedIDs) == 0:
		return scope.Allowed, true
	default:
		allowed := make(map[int64]bool, len(scope.Allowed))
		for _, id := range scope.Allowed {
			allowed[id] = true
		}
		for _, id := range selectedIDs {
			if allowed[id] {
				ids = append(ids, id)
			}
		}
		return ids, true
	}
}

// sharedPreds builds the predicates whose columns are identical in both
// schemas.
func sharedPreds(f Filters, m *refs.Maps, scope SourceScope) []query.Pred {
	preds := []query.Pred{
		// Dropped/spam leads never surface in search.
		query.Or(query.IsNull("stage"), query.Ne("stage", domain.StageDroppedSpam)),
	}

	if f.From != nil {
		preds = append(preds, query.Gte("created_at", *f.From))
	}
	if f.To != nil {
		preds = append(preds, query.Lte("created_at", *f.To))
	}
	if len(f.Stages) > 0 {
		preds = append(preds, query.In("stage", f.Stages))
	}
	if len(f.Topics) > 0 {
		preds = append(preds, query.In("topic", f.Topics))
	}
	if ids, constrained := resolveSources(f.Sources, m, scope); constrained {
		preds = append(preds, query.In("source_id", ids))
	}

	return preds
}

// NewLeadPreds translates Filters into predicates over the new-lead schema.
func NewLeadPreds(f Filters, m *refs.Maps, scope SourceScope) []query.Pred {
	preds := sharedPreds(f, m, scope)

	if len(f.Categories) > 0 {
		var ids []int64
		for _, v := range f.Categories {
			ids = append(ids, m.CategoryIDs(v)...)
		}
		// Values that resolve to no id cannot match the FK schema; an empty
		// id set correctly matches nothing here while the text fallback on
		// the legacy side still gets its chance.
		preds = append(preds, query.In("category_id", ids))
	}

	if len(f.Languages) > 0 {
		match := m.ExpandLanguages(f.Languages)
		var parts []query.Pred
		if len(match.Texts) > 0 {
			parts = append(parts, query.In("language", match.Texts))
		}
		if match.IncludeUnset {
			parts = append(parts, query.IsNull("language"), query.Eq("language", ""))
		}
		preds = append(preds, query.Or(parts...))
	}

	switch parseStatusMode(f.Statuses) {
	case statusActiveOnly:
		preds = append(preds, query.IsNull("unactivated_at"))
	case statusInactiveOnly:
		preds = append(preds, query.NotNull("unactivated_at"))
	}

	if f.EligibleOnly {
		preds = append(preds, query.Eq("eligible", true))
	}

	return preds
}

// LegacyLeadPreds translates Filters into predicates over the legacy schema.
func LegacyLeadPreds(f Filters, m *refs.Maps, scope SourceScope) []query.Pred {
	preds := sharedPreds(f, m, scope)

	if len(f.Categories) > 0 {
		// Foreign-key resolution first, then text equality for anything that
		// did not resolve: the text column may hold a bare name, a display
		// form, or free text, so every shape joins the match set.
		texts := make([]string, 0, len(f.Categories))
		seen := make(map[string]bool)
		add := func(s string) {
			if s == "" || seen[s] {
				return
			}
			seen[s] = true
			texts = append(texts, s)
		}
		for _, v := range f.Categories {
			add(strings.TrimSpace(v))
			for _, id := range m.CategoryIDs(v) {
				if name, ok := m.CategoryName(id); ok {
					add(name)
				}
				var idv = id
				add(m.CategoryDisplay(&idv, ""))
			}
		}
		preds = append(preds, query.In("category", texts))
	}

	if len(f.Languages) > 0 {
		match := m.ExpandLanguages(f.Languages)
		var parts []query.Pred
		if len(match.IDs) > 0 {
			parts = append(parts, query.In("language_id", match.IDs))
		}
		if match.IncludeUnset {
			parts = append(parts, query.IsNull("language_id"))
		}
		if len(parts) == 0 {
			// Selected languages exist only as unresolved text; the FK
			// schema cannot match them.
			parts = append(parts, query.None())
		}
		preds = append(preds, query.Or(parts...))
	}

	switch parseStatusMode(f.Statuses) {
	case statusActiveOnly:
		preds = append(preds, query.Or(query.IsNull("status"), query.Eq("status", 0)))
	case statusInactiveOnly:
		preds = append(preds, query.Eq("status", 10))
	}

	if f.EligibleOnly {
		preds = append(preds, query.Eq("is_eligible", 1))
	}

	return preds
}

// UnassignedPreds matches leads with neither a handler id nor handler text.
// The OR-of-two-fields check is load-bearing: one schema is mid-transition
// from text-based to id-based handler assignment.
func UnassignedPreds() []query.Pred {
	return []query.Pred{
		query.IsNull("handler_id"),
		query.Or(query.IsNull("handler"), query.Eq("handler", "")),
		query.Or(query.IsNull("stage"), query.Ne("stage", domain.StageDroppedSpam)),
	}
}
