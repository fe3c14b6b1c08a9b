package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/delivery/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) DeliveryRepository {
	return &PostgresRepository{db: db}
}

const deliveryColumns = `
	id, store_id, name, description, active, currency,
	qualify_on_minimum_grand_total, minimum_grand_total,
	offer_free_delivery_on_minimum_grand_total, free_delivery_minimum_grand_total,
	charge_fee, fee_type, flat_fee_rate, percentage_fee_rate,
	distance_zones, postal_code_zones,
	fallback_fee_type, fallback_flat_fee_rate, fallback_percentage_fee_rate,
	operational_hours, auto_generate_time_slots,
	time_slot_interval_value, time_slot_interval_unit,
	require_minimum_notice_for_orders, earliest_delivery_time,
	restrict_maximum_notice_for_orders, latest_delivery_time,
	set_daily_order_limit, daily_order_limit,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMethod(row rowScanner) (*model.DeliveryMethod, error) {
	var m model.DeliveryMethod
	err := row.Scan(
		&m.ID, &m.StoreID, &m.Name, &m.Description, &m.Active, &m.Currency,
		&m.QualifyOnMinimumGrandTotal, &m.MinimumGrandTotal,
		&m.OfferFreeDeliveryOnMinimumGrandTotal, &m.FreeDeliveryMinimumGrandTotal,
		&m.ChargeFee, &m.FeeType, &m.FlatFeeRate, &m.PercentageFeeRate,
		&m.DistanceZones, &m.PostalCodeZones,
		&m.FallbackFeeType, &m.FallbackFlatFeeRate, &m.FallbackPercentageFeeRate,
		&m.OperationalHours, &m.AutoGenerateTimeSlots,
		&m.TimeSlotIntervalValue, &m.TimeSlotIntervalUnit,
		&m.RequireMinimumNoticeForOrders, &m.EarliestDeliveryTime,
		&m.RestrictMaximumNoticeForOrders, &m.LatestDeliveryTime,
		&m.SetDailyOrderLimit, &m.DailyOrderLimit,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.DeliveryMethod, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM delivery_methods
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL`, deliveryColumns)

	method, err := scanMethod(r.db.QueryRow(ctx, query, id, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAppMethodNotFound
		}
		return nil, fmt.Errorf("find delivery method: %w", err)
	}
	return method, nil
}

func (r *PostgresRepository) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*model.DeliveryMethod, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM delivery_methods
		WHERE store_id = $1 AND active = true AND deleted_at IS NULL
		ORDER BY created_at DESC`, deliveryColumns)

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list active delivery methods: %w", err)
	}
	defer rows.Close()

	var methods []*model.DeliveryMethod
	for rows.Next() {
		method, err := scanMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery method: %w", err)
		}
		methods = append(methods, method)
	}
	return methods, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListDeliveryMethodsFilter) ([]*model.DeliveryMethod, int, error) {
	where := "store_id = $1 AND deleted_at IS NULL"
	args := []interface{}{filter.StoreID}

	if filter.Status == "active" {
		where += " AND active = true"
	} else if filter.Status == "inactive" {
		where += " AND active = false"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM delivery_methods WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count delivery methods: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM delivery_methods
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, deliveryColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list delivery methods: %w", err)
	}
	defer rows.Close()

	var methods []*model.DeliveryMethod
	for rows.Next() {
		method, err := scanMethod(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan delivery method: %w", err)
		}
		methods = append(methods, method)
	}
	return methods, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, m *model.DeliveryMethod) error {
	query := `
		INSERT INTO delivery_methods (
			store_id, name, description, active, currency,
			qualify_on_minimum_grand_total, minimum_grand_total,
			offer_free_delivery_on_minimum_grand_total, free_delivery_minimum_grand_total,
			charge_fee, fee_type, flat_fee_rate, percentage_fee_rate,
			distance_zones, postal_code_zones,
			fallback_fee_type, fallback_flat_fee_rate, fallback_percentage_fee_rate,
			operational_hours, auto_generate_time_slots,
			time_slot_interval_value, time_slot_interval_unit,
			require_minimum_notice_for_orders, earliest_delivery_time,
			restrict_maximum_notice_for_orders, latest_delivery_time,
			set_daily_order_limit, daily_order_limit
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		m.StoreID, m.Name, m.Description, m.Active, m.Currency,
		m.QualifyOnMinimumGrandTotal, m.MinimumGrandTotal,
		m.OfferFreeDeliveryOnMinimumGrandTotal, m.FreeDeliveryMinimumGrandTotal,
		m.ChargeFee, m.FeeType, m.FlatFeeRate, m.PercentageFeeRate,
		m.DistanceZones, m.PostalCodeZones,
		m.FallbackFeeType, m.FallbackFlatFeeRate, m.FallbackPercentageFeeRate,
		m.OperationalHours, m.AutoGenerateTimeSlots,
		m.TimeSlotIntervalValue, m.TimeSlotIntervalUnit,
		m.RequireMinimumNoticeForOrders, m.EarliestDeliveryTime,
		m.RestrictMaximumNoticeForOrders, m.LatestDeliveryTime,
		m.SetDailyOrderLimit, m.DailyOrderLimit,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create delivery method: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, m *model.DeliveryMethod) error {
	query := `
		UPDATE delivery_methods SET
			name = $3, description = $4, active = $5,
			qualify_on_minimum_grand_total = $6, minimum_grand_total = $7,
			offer_free_delivery_on_minimum_grand_total = $8, free_delivery_minimum_grand_total = $9,
			charge_fee = $10, fee_type = $11, flat_fee_rate = $12, percentage_fee_rate = $13,
			set_daily_order_limit = $14, daily_order_limit = $15,
			updated_at = NOW()
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query,
		m.ID, m.StoreID,
		m.Name, m.Description, m.Active,
		m.QualifyOnMinimumGrandTotal, m.MinimumGrandTotal,
		m.OfferFreeDeliveryOnMinimumGrandTotal, m.FreeDeliveryMinimumGrandTotal,
		m.ChargeFee, m.FeeType, m.FlatFeeRate, m.PercentageFeeRate,
		m.SetDailyOrderLimit, m.DailyOrderLimit,
	)
	if err != nil {
		return fmt.Errorf("update delivery method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppMethodNotFound
	}
	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `
		UPDATE delivery_methods SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, storeID)
	if err != nil {
		return fmt.Errorf("delete delivery method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppMethodNotFound
	}
	return nil
}

func (r *PostgresRepository) CountBookingsByWindow(ctx context.Context, methodID uuid.UUID, date time.Time) (map[string]int, error) {
	query := `
		SELECT slot_window, COUNT(*)
		FROM delivery_bookings
		WHERE delivery_method_id = $1 AND delivery_date = $2::date
		GROUP BY slot_window`

	rows, err := r.db.Query(ctx, query, methodID, date)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var window string
		var count int
		if err := rows.Scan(&window, &count); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		counts[window] = count
	}
	return counts, rows.Err()
}
