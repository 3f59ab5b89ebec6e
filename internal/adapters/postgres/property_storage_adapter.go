// Package postgres is the persistent store adapter: it renders compiled
// predicates into SQL and owns every query against the properties table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyColumns = `id, owner_id, title, description, property_type, listing_type, status,
	price, area, bedrooms, bathrooms, address, city, state, zip_code, latitude, longitude,
	has_pool, has_garage, has_garden, has_balcony, has_parking, is_furnished,
	is_active, is_featured, views_count, location_hash, created_at, updated_at, expires_at`

// PostgresStorageAdapter implements PropertyStoragePort for PostgreSQL.
type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresStorageAdapter(pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStorageAdapter{pool: pool}, nil
}

// FindAndCount runs the count and the page fetch in one transaction, so the
// returned total can never disagree with the page under concurrent writes.
func (a *PostgresStorageAdapter) FindAndCount(ctx context.Context, predicate domain.CompiledPredicate, sort domain.SortSpec, limit, offset int) ([]domain.PropertyRecord, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "FindAndCount",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args := buildWhereClause(predicate)

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	if totalCount == 0 {
		return []domain.PropertyRecord{}, 0, tx.Commit(ctx)
	}

	var dataQuery strings.Builder
	dataQuery.WriteString("SELECT ")
	dataQuery.WriteString(propertyColumns)
	dataQuery.WriteString(" FROM properties ")
	dataQuery.WriteString(whereClause)
	dataQuery.WriteString(" ")
	dataQuery.WriteString(buildOrderByClause(sort))

	pageArgs := append(args, limit, offset)
	pageQuery := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", dataQuery.String(), len(args)+1, len(args)+2)

	rows, err := tx.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		repoLogger.Error("Failed to fetch properties page", err, port.Fields{"query": pageQuery})
		return nil, 0, fmt.Errorf("failed to fetch properties page: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PropertyRecord, 0, limit)
	for rows.Next() {
		record, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading properties rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Properties page fetched", port.Fields{"count": len(records), "total": totalCount})
	return records, int(totalCount), nil
}

func (a *PostgresStorageAdapter) FindByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = $1", propertyColumns)
	row := a.pool.QueryRow(ctx, query, id)
	record, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property %s: %w", id, err)
	}
	return &record, nil
}

func (a *PostgresStorageAdapter) Create(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	now := time.Now().UTC()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.ExpiresAt.IsZero() {
		record.ExpiresAt = now.Add(30 * 24 * time.Hour)
	}
	if record.Status == "" {
		record.Status = domain.StatusActive
	}
	record.LocationHash = locationHash(record)

	query := `
		INSERT INTO properties (
			id, owner_id, title, description, property_type, listing_type, status,
			price, area, bedrooms, bathrooms, address, city, state, zip_code, latitude, longitude,
			has_pool, has_garage, has_garden, has_balcony, has_parking, is_furnished,
			is_active, is_featured, views_count, location_hash, created_at, updated_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)`
	_, err := a.pool.Exec(ctx, query,
		record.ID, record.OwnerID, record.Title, record.Description, record.PropertyType,
		record.ListingType, record.Status, record.Price, record.Area, record.Bedrooms,
		record.Bathrooms, record.Address, record.City, record.State, record.ZipCode,
		record.Latitude, record.Longitude, record.HasPool, record.HasGarage, record.HasGarden,
		record.HasBalcony, record.HasParking, record.IsFurnished, record.IsActive,
		record.IsFeatured, record.ViewsCount, record.LocationHash, record.CreatedAt,
		record.UpdatedAt, record.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}
	return &record, nil
}

func (a *PostgresStorageAdapter) Update(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	record.UpdatedAt = time.Now().UTC()
	record.LocationHash = locationHash(record)

	query := `
		UPDATE properties SET
			title = $2, description = $3, property_type = $4, listing_type = $5, status = $6,
			price = $7, area = $8, bedrooms = $9, bathrooms = $10, address = $11, city = $12,
			state = $13, zip_code = $14, latitude = $15, longitude = $16,
			has_pool = $17, has_garage = $18, has_garden = $19, has_balcony = $20,
			has_parking = $21, is_furnished = $22, is_active = $23,
			location_hash = $24, updated_at = $25
		WHERE id = $1
		RETURNING ` + propertyColumns
	row := a.pool.QueryRow(ctx, query,
		record.ID, record.Title, record.Description, record.PropertyType, record.ListingType,
		record.Status, record.Price, record.Area, record.Bedrooms, record.Bathrooms,
		record.Address, record.City, record.State, record.ZipCode, record.Latitude,
		record.Longitude, record.HasPool, record.HasGarage, record.HasGarden, record.HasBalcony,
		record.HasParking, record.IsFurnished, record.IsActive, record.LocationHash,
		record.UpdatedAt,
	)
	updated, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to update property %s: %w", record.ID, err)
	}
	return &updated, nil
}

func (a *PostgresStorageAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := a.pool.Exec(ctx, "DELETE FROM properties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (a *PostgresStorageAdapter) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*domain.PropertyRecord, error) {
	query := `
		UPDATE properties SET is_featured = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + propertyColumns
	row := a.pool.QueryRow(ctx, query, id, featured, time.Now().UTC())
	updated, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to set featured flag on %s: %w", id, err)
	}
	return &updated, nil
}

// RenewExpiring pushes the expiry out for active listings whose expiry falls
// inside the window.
func (a *PostgresStorageAdapter) RenewExpiring(ctx context.Context, window, renewFor time.Duration) (int, error) {
	now := time.Now().UTC()
	query := `
		UPDATE properties
		SET expires_at = $1, updated_at = $2
		WHERE status = $3 AND is_active = true AND expires_at > $2 AND expires_at <= $4`
	tag, err := a.pool.Exec(ctx, query, now.Add(renewFor), now, domain.StatusActive, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("failed to renew expiring properties: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ExpireOverdue flips listings past their expiry to expired and deactivates
// them, so they drop out of default searches.
func (a *PostgresStorageAdapter) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	query := `
		UPDATE properties
		SET status = $1, is_active = false, updated_at = $2
		WHERE status = $3 AND expires_at <= $2`
	tag, err := a.pool.Exec(ctx, query, domain.StatusExpired, now, domain.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue properties: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (a *PostgresStorageAdapter) AddViews(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := a.pool.Exec(ctx,
		"UPDATE properties SET views_count = views_count + $2 WHERE id = $1", id, delta)
	if err != nil {
		return fmt.Errorf("failed to add views to %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (domain.PropertyRecord, error) {
	var r domain.PropertyRecord
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.PropertyType, &r.ListingType,
		&r.Status, &r.Price, &r.Area, &r.Bedrooms, &r.Bathrooms, &r.Address, &r.City,
		&r.State, &r.ZipCode, &r.Latitude, &r.Longitude, &r.HasPool, &r.HasGarage,
		&r.HasGarden, &r.HasBalcony, &r.HasParking, &r.IsFurnished, &r.IsActive,
		&r.IsFeatured, &r.ViewsCount, &r.LocationHash, &r.CreatedAt, &r.UpdatedAt,
		&r.ExpiresAt,
	)
	return r, err
}
