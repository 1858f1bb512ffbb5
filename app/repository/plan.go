package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vendaflow/ms-go-billing/app/entity"
)

var ErrPlanAlreadyExists = errors.New("plan already exists")

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	query := `
		INSERT INTO plans (name, description, price_monthly, price_annual, features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		plan.Name,
		plan.Description,
		plan.PriceMonthly,
		plan.PriceAnnual,
		plan.Features,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPlanAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	plan.ID = uint64(id)
	return nil
}

func (r *PlanRepository) List(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT id, name, description, price_monthly, price_annual, features, created_at, updated_at
		FROM plans
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Plan, 0)
	for rows.Next() {
		item, err := scanPlanFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint64) (*entity.Plan, error) {
	query := `
		SELECT id, name, description, price_monthly, price_annual, features, created_at, updated_at
		FROM plans
		WHERE id = ?
	`

	item := &entity.Plan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, query, id), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func scanPlan(scanner rowScanner, item *entity.Plan) error {
	var description sql.NullString
	var features sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&description,
		&item.PriceMonthly,
		&item.PriceAnnual,
		&features,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if description.Valid {
		item.Description = description.String
	}
	if features.Valid {
		item.Features = features.String
	}

	return nil
}

func scanPlanFromRows(rows *sql.Rows) (*entity.Plan, error) {
	item := &entity.Plan{}
	if err := scanPlan(rows, item); err != nil {
		return nil, err
	}
	return item, nil
}
