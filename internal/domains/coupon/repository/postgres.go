package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/coupon/model"
)

// PostgresRepository implements CouponRepository with PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CouponRepository {
	return &PostgresRepository{db: db}
}

const couponColumns = `
	id, store_id, name, description, code, active, currency,
	offer_discount, discount_type, discount_rate, offer_free_delivery,
	activate_using_code,
	activate_using_start_datetime, start_datetime,
	activate_using_end_datetime, end_datetime,
	activate_using_hours_of_day, hours_of_day,
	activate_using_days_of_the_week, days_of_the_week,
	activate_using_days_of_the_month, days_of_the_month,
	activate_using_months_of_the_year, months_of_the_year,
	activate_using_usage_limit, remaining_quantity,
	activate_using_minimum_grand_total, minimum_grand_total,
	activate_using_minimum_total_products, minimum_total_products,
	activate_using_minimum_total_product_quantities, minimum_total_product_quantities,
	activate_for_new_customer, activate_for_existing_customer,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Name,
		&c.Description,
		&c.Code,
		&c.Active,
		&c.Currency,
		&c.OfferDiscount,
		&c.DiscountType,
		&c.DiscountRate,
		&c.OfferFreeDelivery,
		&c.ActivateUsingCode,
		&c.ActivateUsingStartDatetime,
		&c.StartDatetime,
		&c.ActivateUsingEndDatetime,
		&c.EndDatetime,
		&c.ActivateUsingHoursOfDay,
		&c.HoursOfDay,
		&c.ActivateUsingDaysOfTheWeek,
		&c.DaysOfTheWeek,
		&c.ActivateUsingDaysOfTheMonth,
		&c.DaysOfTheMonth,
		&c.ActivateUsingMonthsOfTheYear,
		&c.MonthsOfTheYear,
		&c.ActivateUsingUsageLimit,
		&c.RemainingQuantity,
		&c.ActivateUsingMinimumGrandTotal,
		&c.MinimumGrandTotal,
		&c.ActivateUsingMinimumTotalProducts,
		&c.MinimumTotalProducts,
		&c.ActivateUsingMinimumTotalProductQuantities,
		&c.MinimumTotalProductQuantities,
		&c.ActivateForNewCustomer,
		&c.ActivateForExistingCustomer,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coupons
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL
	`, couponColumns)

	c, err := scanCoupon(r.db.QueryRow(ctx, query, id, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAppCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by id: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*model.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coupons
		WHERE store_id = $1 AND LOWER(code) = LOWER($2) AND deleted_at IS NULL
	`, couponColumns)

	c, err := scanCoupon(r.db.QueryRow(ctx, query, storeID, strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAppCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return c, nil
}

// ListActiveByStore returns every active coupon of a store, for evaluation
// against a cart when the shopper did not supply a code.
func (r *PostgresRepository) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coupons
		WHERE store_id = $1 AND active = true AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, couponColumns)

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	where := []string{"store_id = $1", "deleted_at IS NULL"}
	args := []any{filter.StoreID}

	switch filter.Status {
	case "active":
		where = append(where, "active = true")
	case "inactive":
		where = append(where, "active = false")
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM coupons WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM coupons
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, couponColumns, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, total, rows.Err()
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			store_id, name, description, code, active, currency,
			offer_discount, discount_type, discount_rate, offer_free_delivery,
			activate_using_code,
			activate_using_start_datetime, start_datetime,
			activate_using_end_datetime, end_datetime,
			activate_using_hours_of_day, hours_of_day,
			activate_using_days_of_the_week, days_of_the_week,
			activate_using_days_of_the_month, days_of_the_month,
			activate_using_months_of_the_year, months_of_the_year,
			activate_using_usage_limit, remaining_quantity,
			activate_using_minimum_grand_total, minimum_grand_total,
			activate_using_minimum_total_products, minimum_total_products,
			activate_using_minimum_total_product_quantities, minimum_total_product_quantities,
			activate_for_new_customer, activate_for_existing_customer
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33
		)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.StoreID, c.Name, c.Description, c.Code, c.Active, c.Currency,
		c.OfferDiscount, c.DiscountType, c.DiscountRate, c.OfferFreeDelivery,
		c.ActivateUsingCode,
		c.ActivateUsingStartDatetime, c.StartDatetime,
		c.ActivateUsingEndDatetime, c.EndDatetime,
		c.ActivateUsingHoursOfDay, c.HoursOfDay,
		c.ActivateUsingDaysOfTheWeek, c.DaysOfTheWeek,
		c.ActivateUsingDaysOfTheMonth, c.DaysOfTheMonth,
		c.ActivateUsingMonthsOfTheYear, c.MonthsOfTheYear,
		c.ActivateUsingUsageLimit, c.RemainingQuantity,
		c.ActivateUsingMinimumGrandTotal, c.MinimumGrandTotal,
		c.ActivateUsingMinimumTotalProducts, c.MinimumTotalProducts,
		c.ActivateUsingMinimumTotalProductQuantities, c.MinimumTotalProductQuantities,
		c.ActivateForNewCustomer, c.ActivateForExistingCustomer,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `
		UPDATE coupons SET
			name = $3,
			description = $4,
			active = $5,
			offer_discount = $6,
			discount_type = $7,
			discount_rate = $8,
			offer_free_delivery = $9,
			remaining_quantity = $10,
			updated_at = NOW()
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query,
		c.ID, c.StoreID,
		c.Name, c.Description, c.Active,
		c.OfferDiscount, c.DiscountType, c.DiscountRate, c.OfferFreeDelivery,
		c.RemainingQuantity,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppCouponNotFound
	}
	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, storeID)
	if err != nil {
		return fmt.Errorf("soft delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppCouponNotFound
	}
	return nil
}

// Redeem decrements remaining_quantity with a row-level guard. The WHERE
// clause keeps the counter from ever going below zero under concurrent
// checkouts: only one of two racing redemptions of the last use wins.
func (r *PostgresRepository) Redeem(ctx context.Context, storeID, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET remaining_quantity = remaining_quantity - 1, updated_at = NOW()
		WHERE id = $1 AND store_id = $2
		  AND deleted_at IS NULL
		  AND activate_using_usage_limit = true
		  AND remaining_quantity > 0
	`

	tag, err := r.db.Exec(ctx, query, id, storeID)
	if err != nil {
		return fmt.Errorf("redeem coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponExhausted
	}
	return nil
}

// -------------------------------------------------------------------
// UTILITY
// -------------------------------------------------------------------

func (r *PostgresRepository) CheckCodeExists(ctx context.Context, storeID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM coupons
			WHERE store_id = $1 AND LOWER(code) = LOWER($2) AND deleted_at IS NULL
			  AND ($3::uuid IS NULL OR id != $3)
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, storeID, code, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check coupon code exists: %w", err)
	}
	return exists, nil
}
