package normalize

import (
	"fmt"
	"sort"
	"strings"
)

type familyKey struct {
	leadType string
	masterID int64
}

// ApplyNumbering rewrites DisplayLeadNumber for family groups within the
// given result set. Subleads of a master get /2, /3 and so on in ascending
// numeric id order; the master itself gets /1, but only when at least one of
// its subleads is present in the set. Numbers that already carry a slash are
// left untouched, which keeps the pass idempotent and honors any suffix the
// database stored directly.
//
// Only leads present in the slice participate, so the same lead can render a
// different suffix under a different filter. Callers that need stable
// numbering must fetch the whole family.
func ApplyNumbering(leads []Lead) {
	byMaster := make(map[familyKey][]int)
	byID := make(map[familyKey]int)

	for i := range leads {
		l := &leads[i]
		if l.DisplayLeadNumber == "" {
			l.DisplayLeadNumber = l.LeadNumber
		}
		byID[familyKey{l.LeadType, l.NumericID}] = i
		if l.MasterID != nil {
			k := familyKey{l.LeadType, *l.MasterID}
			byMaster[k] = append(byMaster[k], i)
		}
	}

	for k, members := range byMaster {
		sort.Slice(members, func(a, b int) bool {
			return leads[members[a]].NumericID < leads[members[b]].NumericID
		})
		for n, idx := range members {
			setSuffix(&leads[idx], n+2)
		}
		if masterIdx, ok := byID[k]; ok {
			setSuffix(&leads[masterIdx], 1)
		}
	}
}

func setSuffix(l *Lead, n int) {
	if strings.Contains(l.DisplayLeadNumber, "/") {
		return
	}
	l.DisplayLeadNumber = fmt.Sprintf("%s/%d", l.DisplayLeadNumber, n)
}
