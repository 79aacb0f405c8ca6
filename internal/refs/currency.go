package refs

// Currency fallback table used when no joined currency record is available.
// Numeric ids mirror the persistence service's currency taxonomy.
var currencyByID = map[int64]string{
	1: "NIS",
	2: "USD",
	3: "EUR",
	4: "GBP",
}

var symbolByCode = map[string]string{
	"NIS": "₪",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// DefaultCurrency is the ultimate fallback currency code.
const DefaultCurrency = "NIS"

// CurrencyCode resolves a currency for a money-bearing row: the joined code
// wins, then the numeric-id fallback table, then NIS.
func CurrencyCode(joined *string, id *int64) string {
	if joined != nil && *joined != "" {
		return *joined
	}
	if id != nil {
		if code, ok := currencyByID[*id]; ok {
			return code
		}
	}
	return DefaultCurrency
}

// CurrencySymbol returns the display symbol for a currency code, defaulting
// to the shekel sign.
func CurrencySymbol(code string) string {
	if sym, ok := symbolByCode[code]; ok {
		return sym
	}
	return symbolByCode[DefaultCurrency]
}
