// Package payments computes due installments for handler caseloads. It is a
// library module consumed by the caseload endpoints and has no routes of its
// own.
package payments

import "strings"

// OrderClass is the normalized position of an installment within its plan.
type OrderClass string

const (
	OrderFirst        OrderClass = "first"
	OrderIntermediate OrderClass = "intermediate"
	OrderFinal        OrderClass = "final"
	OrderUnknown      OrderClass = "unknown"
)

// Numeric order codes stored by the billing importer.
const (
	orderCodeFirst        = 1
	orderCodeIntermediate = 2
	orderCodeFinal        = 3
)

// NormalizeOrderCode maps a row's order fields to an OrderClass. Rows carry
// either a numeric code or imported free text ("First payment", "2nd
// instalment", "Final"), and the numeric code wins when both are present.
func NormalizeOrderCode(code *int64, text string) OrderClass {
	if code != nil {
		switch *code {
		case orderCodeFirst:
			return OrderFirst
		case orderCodeIntermediate:
			return OrderIntermediate
		case orderCodeFinal:
			return OrderFinal
		}
	}

	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return OrderUnknown
	}
	switch {
	case strings.Contains(t, "first") || strings.Contains(t, "1st"):
		return OrderFirst
	case strings.Contains(t, "final") || strings.Contains(t, "last"):
		return OrderFinal
	case strings.Contains(t, "inter") || strings.Contains(t, "middle") || strings.Contains(t, "2nd") || strings.Contains(t, "3rd"):
		return OrderIntermediate
	}
	return OrderUnknown
}
