package payments

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

// Jurisdictions used to split final payments.
const (
	JurisdictionGermany = "Germany"
	JurisdictionAustria = "Austria"
	JurisdictionOther   = "Other"
)

// Due is one presentable installment.
type Due struct {
	RowID          int64      `json:"rowId"`
	LeadID         string     `json:"leadId"`
	LeadName       string     `json:"leadName"`
	LeadNumber     string     `json:"leadNumber"`
	DueDate        time.Time  `json:"dueDate"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	CurrencySymbol string     `json:"currencySymbol"`
	Order          OrderClass `json:"order"`
	Jurisdiction   string     `json:"jurisdiction,omitempty"`
	Paid           bool       `json:"paid"`
}

// Totals are per-currency sums for one bucket of installments.
type Totals map[string]float64

// DuesReport answers "what does this handler's caseload owe this month".
// Final payments are additionally split by jurisdiction because the two
// practices invoice final installments differently.
type DuesReport struct {
	Rows         []Due  `json:"rows"`
	First        Totals `json:"first"`
	Intermediate Totals `json:"intermediate"`
	FinalGermany Totals `json:"finalGermany"`
	FinalAustria Totals `json:"finalAustria"`
	FinalOther   Totals `json:"finalOther"`
	Unclassified Totals `json:"unclassified"`
}

// DueStore is the persistence surface the service needs.
type DueStore interface {
	DueRowsForHandler(ctx context.Context, handlerID int64, from, to time.Time) ([]DueRow, error)
}

// RefProvider yields the reference lookup maps for a request cycle.
type RefProvider interface {
	Maps(ctx context.Context) (*refs.Maps, error)
}

type Service struct {
	store DueStore
	refs  RefProvider
	log   *logger.Logger
}

func NewService(store DueStore, refProvider RefProvider, log *logger.Logger) *Service {
	return &Service{store: store, refs: refProvider, log: log}
}

// Dues builds the dues report for one handler and one calendar month.
func (s *Service) Dues(ctx context.Context, handlerID int64, month time.Time) (DuesReport, error) {
	m, err := s.refs.Maps(ctx)
	if err != nil {
		return DuesReport{}, apperr.Wrap(apperr.KindInternal, "loading reference data", err)
	}
	if _, ok := m.Employee(handlerID); !ok {
		return DuesReport{}, apperr.NotFound("unknown handler id: " + strconv.FormatInt(handlerID, 10))
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.store.DueRowsForHandler(ctx, handlerID, from, to)
	if err != nil {
		return DuesReport{}, apperr.Wrap(apperr.KindInternal, "querying due rows", err)
	}

	report := DuesReport{
		Rows:         make([]Due, 0, len(rows)),
		First:        Totals{},
		Intermediate: Totals{},
		FinalGermany: Totals{},
		FinalAustria: Totals{},
		FinalOther:   Totals{},
		Unclassified: Totals{},
	}

	for _, r := range rows {
		due := s.classify(r, m)
		report.Rows = append(report.Rows, due)

		switch due.Order {
		case OrderFirst:
			report.First[due.Currency] += due.Amount
		case OrderIntermediate:
			report.Intermediate[due.Currency] += due.Amount
		case OrderFinal:
			switch due.Jurisdiction {
			case JurisdictionGermany:
				report.FinalGermany[due.Currency] += due.Amount
			case JurisdictionAustria:
				report.FinalAustria[due.Currency] += due.Amount
			default:
				report.FinalOther[due.Currency] += due.Amount
			}
		default:
			report.Unclassified[due.Currency] += due.Amount
		}
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].DueDate.Before(report.Rows[j].DueDate)
	})
	return report, nil
}

func (s *Service) classify(r DueRow, m *refs.Maps) Due {
	currency := refs.CurrencyCode(r.CurrencyCode, r.CurrencyID)
	order := NormalizeOrderCode(r.OrderCode, strval(r.OrderText))

	leadID := strconv.FormatInt(r.LeadID, 10)
	if r.LeadLegacy {
		leadID = "legacy_" + leadID
	}

	due := Due{
		RowID:          r.RowID,
		LeadID:         leadID,
		LeadName:       r.LeadName,
		LeadNumber:     r.LeadNumber,
		DueDate:        r.DueDate,
		Amount:         r.Value,
		Currency:       currency,
		CurrencySymbol: refs.CurrencySymbol(currency),
		Order:          order,
		Paid:           r.Paid,
	}
	if order == OrderFinal {
		due.Jurisdiction = jurisdiction(r, m)
	}
	return due
}

// jurisdiction resolves the lead's main category to a billing jurisdiction.
// New-schema leads resolve through the category FK; legacy leads resolve
// their denormalized category text first.
func jurisdiction(r DueRow, m *refs.Maps) string {
	var mainName string
	if r.CategoryID != nil {
		mainName = m.MainCategoryName(r.CategoryID)
	} else if r.CategoryText != nil {
		if ids := m.CategoryIDs(*r.CategoryText); len(ids) > 0 {
			id := ids[0]
			mainName = m.MainCategoryName(&id)
		}
	}

	switch {
	case strings.EqualFold(mainName, JurisdictionGermany):
		return JurisdictionGermany
	case strings.EqualFold(mainName, JurisdictionAustria):
		return JurisdictionAustria
	default:
		return JurisdictionOther
	}
}

func strval(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
