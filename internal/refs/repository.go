package refs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads reference taxonomies from the persistence service.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a refs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadBundle reads all reference taxonomies in one pass.
func (r *Repository) LoadBundle(ctx context.Context) (Bundle, error) {
	var b Bundle

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, main_category_id
		FROM misc_category
		ORDER BY name ASC
	`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MainID); err != nil {
			rows.Close()
			return b, err
		}
		b.Categories = append(b.Categories, c)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	rows, err = r.pool.Query(ctx, `SELECT id, name FROM misc_maincategory ORDER BY name ASC`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var mc MainCategory
		if err := rows.Scan(&mc.ID, &mc.Name); err != nil {
			rows.Close()
			return b, err
		}
		b.MainCategories = append(b.MainCategories, mc)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	rows, err = r.pool.Query(ctx, `SELECT id, name FROM misc_leadsource ORDER BY name ASC`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			rows.Close()
			return b, err
		}
		b.Sources = append(b.Sources, s)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	rows, err = r.pool.Query(ctx, `SELECT id, name, COALESCE(code, '') FROM misc_language ORDER BY name ASC`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Code); err != nil {
			rows.Close()
			return b, err
		}
		b.Languages = append(b.Languages, l)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	rows, err = r.pool.Query(ctx, `SELECT id, name, COALESCE(color, '') FROM lead_stages ORDER BY id ASC`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var s Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.Color); err != nil {
			rows.Close()
			return b, err
		}
		b.Stages = append(b.Stages, s)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, display_name, COALESCE(email, ''), COALESCE(department, ''), is_active
		FROM tenants_employee
		ORDER BY display_name ASC
	`)
	if err != nil {
		return b, err
	}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.Email, &e.Department, &e.IsActive); err != nil {
			rows.Close()
			return b, err
		}
		b.Employees = append(b.Employees, e)
	}
	rows.Close()
	if rows.Err() != nil {
		return b, rows.Err()
	}

	return b, nil
}
