package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vendaflow/ms-go-billing/app/entity"
)

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, plan_id, status, billing_cycle,
			trial_start_at, trial_end_at, start_at, end_at, cancelled_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.PlanID,
		subscription.Status,
		subscription.BillingCycle,
		subscription.TrialStartAt,
		subscription.TrialEndAt,
		nullableTimeValue(subscription.StartAt),
		nullableTimeValue(subscription.EndAt),
		nullableTimeValue(subscription.CancelledAt),
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscription.ID = uint64(id)
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = ?, billing_cycle = ?, start_at = ?, end_at = ?, cancelled_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.Status,
		subscription.BillingCycle,
		nullableTimeValue(subscription.StartAt),
		nullableTimeValue(subscription.EndAt),
		nullableTimeValue(subscription.CancelledAt),
		subscription.UpdatedAt,
		subscription.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id uint64) (*entity.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_cycle,
		       trial_start_at, trial_end_at, start_at, end_at, cancelled_at,
		       created_at, updated_at
		FROM subscriptions
		WHERE id = ?
	`

	item := &entity.Subscription{}
	if err := scanSubscription(
		r.db.QueryRowContext(ctx, query, id),
		item,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

// FindByUserAndStatus returns the newest subscription of the user in the
// given status, or nil when none exists.
func (r *SubscriptionRepository) FindByUserAndStatus(ctx context.Context, userID uint64, status string) (*entity.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_cycle,
		       trial_start_at, trial_end_at, start_at, end_at, cancelled_at,
		       created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
		  AND status = ?
		ORDER BY id DESC
		LIMIT 1
	`

	item := &entity.Subscription{}
	if err := scanSubscription(
		r.db.QueryRowContext(ctx, query, userID, status),
		item,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionRepository) ListExpiredActive(ctx context.Context, nowSQLTime time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_cycle,
		       trial_start_at, trial_end_at, start_at, end_at, cancelled_at,
		       created_at, updated_at
		FROM subscriptions
		WHERE status = ?
		  AND end_at IS NOT NULL
		  AND end_at < ?
		ORDER BY id ASC
	`

	return r.listByQuery(ctx, query, entity.SubscriptionStatusActive, nowSQLTime)
}

func (r *SubscriptionRepository) ListExpiredTrials(ctx context.Context, nowSQLTime time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_cycle,
		       trial_start_at, trial_end_at, start_at, end_at, cancelled_at,
		       created_at, updated_at
		FROM subscriptions
		WHERE status = ?
		  AND trial_end_at < ?
		ORDER BY id ASC
	`

	return r.listByQuery(ctx, query, entity.SubscriptionStatusTrial, nowSQLTime)
}

func (r *SubscriptionRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Subscription, 0)
	for rows.Next() {
		item, err := scanSubscriptionFromRows(rows)
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

func scanSubscription(scanner rowScanner, item *entity.Subscription) error {
	var startAt sql.NullTime
	var endAt sql.NullTime
	var cancelledAt sql.NullTime

	err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.PlanID,
		&item.Status,
		&item.BillingCycle,
		&item.TrialStartAt,
		&item.TrialEndAt,
		&startAt,
		&endAt,
		&cancelledAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if startAt.Valid {
		item.StartAt = &startAt.Time
	} else {
		item.StartAt = nil
	}
	if endAt.Valid {
		item.EndAt = &endAt.Time
	} else {
		item.EndAt = nil
	}
	if cancelledAt.Valid {
		item.CancelledAt = &cancelledAt.Time
	} else {
		item.CancelledAt = nil
	}

	return nil
}

func scanSubscriptionFromRows(rows *sql.Rows) (*entity.Subscription, error) {
	item := &entity.Subscription{}
	if err := scanSubscription(rows, item); err != nil {
		return nil, err
	}
	return item, nil
}

func nullableTimeValue(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
