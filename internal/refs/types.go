// Package refs resolves foreign-key style references (categories, sources,
// languages, stages, employees) into display values. Lookup maps are built
// once per search cycle and all misses degrade to fallback values; nothing in
// this package returns a hard error during resolution.
package refs

import (
	"sort"
	"strconv"
	"strings"
)

// LanguageUnset is the filter sentinel meaning "language left unset".
const LanguageUnset = "N/A"

// Neutral badge returned when a stage id cannot be resolved.
const (
	NoStageName  = "No Stage"
	NoStageColor = "#9e9e9e"
)

// Category is a row of misc_category.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	MainID *int64 `json:"mainId,omitempty"`
}

// MainCategory is a row of misc_maincategory.
type MainCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Source is a row of misc_leadsource.
type Source struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Language is a row of misc_language.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Stage is a row of lead_stages.
type Stage struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Employee is a row of tenants_employee.
type Employee struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	IsActive    bool   `json:"isActive"`
}

// Bundle is the serializable form of all reference taxonomies, used as the
// cache payload.
type Bundle struct {
	Categories     []Category     `json:"categories"`
	MainCategories []MainCategory `json:"mainCategories"`
	Sources        []Source       `json:"sources"`
	Languages      []Language     `json:"languages"`
	Stages         []Stage        `json:"stages"`
	Employees      []Employee     `json:"employees"`
}

// Maps provides O(1) reference resolution for one search cycle.
type Maps struct {
	categories     map[int64]Category
	mains          map[int64]MainCategory
	categoryIDsByText map[string][]int64
	sources        map[int64]Source
	sourceIDByName map[string]int64
	languages      map[int64]Language
	languageByText map[string][]Language
	stages         map[int]Stage
	employees      map[int64]Employee
}

// NewMaps builds lookup indexes from a taxonomy bundle.
func NewMaps(b Bundle) *Maps {
	m := &Maps{
		categories:        make(map[int64]Category, len(b.Categories)),
		mains:             make(map[int64]MainCategory, len(b.MainCategories)),
		categoryIDsByText: make(map[string][]int64),
		sources:           make(map[int64]Source, len(b.Sources)),
		sourceIDByName:    make(map[string]int64, len(b.Sources)),
		languages:         make(map[int64]Language, len(b.Languages)),
		languageByText:    make(map[string][]Language),
		stages:            make(map[int]Stage, len(b.Stages)),
		employees:         make(map[int64]Employee, len(b.Employees)),
	}

	for _, mc := range b.MainCategories {
		m.mains[mc.ID] = mc
	}
	for _, c := range b.Categories {
		m.categories[c.ID] = c
	}
	// Index categories by both the bare name and the full display form, so
	// filter values arriving in either shape resolve to ids.
	for _, c := range b.Categories {
		key := normKey(c.Name)
		m.categoryIDsByText[key] = append(m.categoryIDsByText[key], c.ID)
		display := normKey(m.categoryDisplay(c))
		if display != key {
			m.categoryIDsByText[display] = append(m.categoryIDsByText[display], c.ID)
		}
	}
	for _, s := range b.Sources {
		m.sources[s.ID] = s
		m.sourceIDByName[normKey(s.Name)] = s.ID
	}
	for _, l := range b.Languages {
		m.languages[l.ID] = l
		m.languageByText[normKey(l.Name)] = append(m.languageByText[normKey(l.Name)], l)
		if l.Code != "" {
			m.languageByText[normKey(l.Code)] = append(m.languageByText[normKey(l.Code)], l)
		}
	}
	for _, s := range b.Stages {
		m.stages[s.ID] = s
	}
	for _, e := range b.Employees {
		m.employees[e.ID] = e
	}

	return m
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *Maps) categoryDisplay(c Category) string {
	if c.MainID != nil {
		if mc, ok := m.mains[*c.MainID]; ok {
			return c.Name + " (" + mc.Name + ")"
		}
	}
	return c.Name
}

// CategoryDisplay resolves a category id to its "Sub (Main)" display form.
// On a miss it returns the fallback text unchanged.
func (m *Maps) CategoryDisplay(id *int64, fallback string) string {
	if id == nil {
		return fallback
	}
	c, ok := m.categories[*id]
	if !ok {
		return fallback
	}
	return m.categoryDisplay(c)
}

// CategoryIDs resolves a filter value (bare name or display form) to the
// matching category ids. Returns nil when the value resolves to nothing.
func (m *Maps) CategoryIDs(value string) []int64 {
	return m.categoryIDsByText[normKey(value)]
}

// CategoryName returns the bare subcategory name for an id.
func (m *Maps) CategoryName(id int64) (string, bool) {
	c, ok := m.categories[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}

// MainCategoryName returns the parent main-category name for a category id.
func (m *Maps) MainCategoryName(id *int64) string {
	if id == nil {
		return ""
	}
	c, ok := m.categories[*id]
	if !ok || c.MainID == nil {
		return ""
	}
	mc, ok := m.mains[*c.MainID]
	if !ok {
		return ""
	}
	return mc.Name
}

// SourceName resolves a source id; misses return the empty string.
func (m *Maps) SourceName(id *int64) string {
	if id == nil {
		return ""
	}
	s, ok := m.sources[*id]
	if !ok {
		return ""
	}
	return s.Name
}

// SourceID resolves a source display name to its id.
func (m *Maps) SourceID(name string) (int64, bool) {
	id, ok := m.sourceIDByName[normKey(name)]
	return id, ok
}

// LanguageMatch is the expanded form of a language filter: ids match the
// legacy FK column, texts match the new-schema text column. IncludeUnset is
// true when the "N/A" sentinel was selected.
type LanguageMatch struct {
	IDs          []int64
	Texts        []string
	IncludeUnset bool
}

// ExpandLanguages expands filter values into a LanguageMatch. Codes ("EN")
// and full names ("English") are treated as equivalent: each selected value
// contributes both forms to the text set and every matching language id.
// Values that resolve to nothing are kept as raw text matches.
func (m *Maps) ExpandLanguages(values []string) LanguageMatch {
	var match LanguageMatch
	seenID := make(map[int64]bool)
	seenText := make(map[string]bool)

	addText := func(s string) {
		if s == "" {
			return
		}
		key := normKey(s)
		if !seenText[key] {
			seenText[key] = true
			match.Texts = append(match.Texts, s)
		}
	}

	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), LanguageUnset) {
			match.IncludeUnset = true
			continue
		}
		langs := m.languageByText[normKey(v)]
		if len(langs) == 0 {
			addText(v)
			continue
		}
		for _, l := range langs {
			if !seenID[l.ID] {
				seenID[l.ID] = true
				match.IDs = append(match.IDs, l.ID)
			}
			addText(l.Name)
			addText(l.Code)
		}
	}

	return match
}

// LanguageName resolves a language id; misses return the fallback.
func (m *Maps) LanguageName(id *int64, fallback string) string {
	if id == nil {
		return fallback
	}
	l, ok := m.languages[*id]
	if !ok {
		return fallback
	}
	return l.Name
}

// StageBadge resolves a stage id to its display name and colour. A missing
// stage yields the neutral "No Stage" badge rather than an error.
func (m *Maps) StageBadge(id *int) (string, string) {
	if id == nil {
		return NoStageName, NoStageColor
	}
	s, ok := m.stages[*id]
	if !ok {
		return NoStageName, NoStageColor
	}
	return s.Name, s.Color
}

// EmployeeDisplay resolves a handler reference to a display name. Legacy rows
// sometimes store the already-resolved name in the text field while new rows
// store the employee id, so both paths are accepted: the id wins when it
// resolves, then the raw text is tried as a stored name, then as a stringly
// typed id. Unresolvable input is returned as-is.
func (m *Maps) EmployeeDisplay(id *int64, raw string) string {
	if id != nil {
		if e, ok := m.employees[*id]; ok {
			return e.DisplayName
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if e, ok := m.employees[n]; ok {
			return e.DisplayName
		}
	}
	return raw
}

// Employee returns the employee record for an id.
func (m *Maps) Employee(id int64) (Employee, bool) {
	e, ok := m.employees[id]
	return e, ok
}

// ActiveEmployees returns every active employee, sorted by id.
func (m *Maps) ActiveEmployees() []Employee {
	out := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
