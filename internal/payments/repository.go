package payments

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DueRow is a raw installment row joined with its plan and lead. Rows come
// from both lead schemas; LeadLegacy marks which table the lead lives in.
type DueRow struct {
	RowID        int64
	PlanID       int64
	LeadID       int64
	LeadLegacy   bool
	LeadName     string
	LeadNumber   string
	CategoryID   *int64
	CategoryText *string
	DueDate      time.Time
	Value        float64
	CurrencyID   *int64
	CurrencyCode *string
	OrderCode    *int64
	OrderText    *string
	Paid         bool
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const dueRowsNewSQL = `
	SELECT r.id, r.payment_plan_id, l.id, l.name, l.lead_number,
	       l.category_id, r.due_date, r.value, r.currency_id, r.currency,
	       r.order_code, r.order_text, r.paid
	FROM finances_paymentplanrow r
	JOIN payment_plans p ON p.id = r.payment_plan_id
	JOIN leads l ON l.id = p.lead_id
	WHERE p.lead_type = 'new'
	  AND l.handler_id = $1
	  AND r.due_date >= $2 AND r.due_date < $3
	ORDER BY r.due_date, r.id`

const dueRowsLegacySQL = `
	SELECT r.id, r.payment_plan_id, l.id, l.name, l.lead_number,
	       l.category, r.due_date, r.value, r.currency_id, r.currency,
	       r.order_code, r.order_text, r.paid
	FROM finances_paymentplanrow r
	JOIN payment_plans p ON p.id = r.payment_plan_id
	JOIN leads_lead l ON l.id = p.lead_id
	WHERE p.lead_type = 'legacy'
	  AND l.handler_id = $1
	  AND r.due_date >= $2 AND r.due_date < $3
	ORDER BY r.due_date, r.id`

// DueRowsForHandler loads all installment rows due in [from, to) for leads
// handled by the given employee, across both lead schemas.
func (r *Repository) DueRowsForHandler(ctx context.Context, handlerID int64, from, to time.Time) ([]DueRow, error) {
	newRows, err := r.queryDueRows(ctx, dueRowsNewSQL, false, handlerID, from, to)
	if err != nil {
		return nil, err
	}
	legacyRows, err := r.queryDueRows(ctx, dueRowsLegacySQL, true, handlerID, from, to)
	if err != nil {
		return nil, err
	}
	return append(newRows, legacyRows...), nil
}

func (r *Repository) queryDueRows(ctx context.Context, sql string, legacy bool, handlerID int64, from, to time.Time) ([]DueRow, error) {
	rows, err := r.pool.Query(ctx, sql, handlerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueRow
	for rows.Next() {
		d := DueRow{LeadLegacy: legacy}
		var name string
		if legacy {
			var leadNumber *string
			err = rows.Scan(&d.RowID, &d.PlanID, &d.LeadID, &name, &leadNumber,
				&d.CategoryText, &d.DueDate, &d.Value, &d.CurrencyID, &d.CurrencyCode,
				&d.OrderCode, &d.OrderText, &d.Paid)
			if leadNumber != nil {
				d.LeadNumber = *leadNumber
			}
		} else {
			err = rows.Scan(&d.RowID, &d.PlanID, &d.LeadID, &name, &d.LeadNumber,
				&d.CategoryID, &d.DueDate, &d.Value, &d.CurrencyID, &d.CurrencyCode,
				&d.OrderCode, &d.OrderText, &d.Paid)
		}
		if err != nil {
			return nil, err
		}
		d.LeadName = name
		out = append(out, d)
	}
	return out, rows.Err()
}
