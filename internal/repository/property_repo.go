package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/hostboard/hostboard/internal/model"
)

// PropertyRepository handles persistence for properties.
type PropertyRepository struct {
	db     *pgxpool.Pool
	tracer trace.Tracer
}

// NewPropertyRepository constructs a PropertyRepository.
func NewPropertyRepository(db *pgxpool.Pool, tracer trace.Tracer) *PropertyRepository {
	return &PropertyRepository{db: db, tracer: tracer}
}

const propertyColumns = `id, owner_id, name, description, location, base_price,
	bedrooms, bathrooms, max_guests, amenities, images, created_at, updated_at`

func scanProperty(row pgx.Row) (*model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Location,
		&p.BasePrice, &p.Bedrooms, &p.Bathrooms, &p.MaxGuests,
		&p.Amenities, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}
	return &p, nil
}

// Create inserts a new property owned by ownerID and returns it with a
// generated UUID.
func (r *PropertyRepository) Create(ctx context.Context, ownerID string, req model.NewPropertyRequest) (*model.Property, error) {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	p := &model.Property{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		BasePrice:   req.BasePrice,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		MaxGuests:   req.MaxGuests,
		Amenities:   req.Amenities,
		Images:      req.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO properties (id, owner_id, name, description, location, base_price,
		   bedrooms, bathrooms, max_guests, amenities, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Location, p.BasePrice,
		p.Bedrooms, p.Bathrooms, p.MaxGuests, p.Amenities, p.Images, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	return p, nil
}

// ListByOwner returns all properties owned by ownerID, newest first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.ListByOwner")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var properties []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

// GetByID returns a single property or ErrNotFound.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.GetByID")
	defer span.End()

	return scanProperty(r.db.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id))
}

// OwnerID returns the owning user of a property, or ErrNotFound.
func (r *PropertyRepository) OwnerID(ctx context.Context, id string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.OwnerID")
	defer span.End()

	var ownerID string
	err := r.db.QueryRow(ctx,
		`SELECT owner_id FROM properties WHERE id = $1`, id,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get property owner: %w", err)
	}
	return ownerID, nil
}

// Update applies a partial update and returns the updated property.
// Nil fields keep their stored values; owner_id is never touched.
func (r *PropertyRepository) Update(ctx context.Context, id string, req model.UpdatePropertyRequest) (*model.Property, error) {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.Update")
	defer span.End()

	return scanProperty(r.db.QueryRow(ctx,
		`UPDATE properties SET
		   name        = COALESCE($2, name),
		   description = COALESCE($3, description),
		   location    = COALESCE($4, location),
		   base_price  = COALESCE($5, base_price),
		   bedrooms    = COALESCE($6, bedrooms),
		   bathrooms   = COALESCE($7, bathrooms),
		   max_guests  = COALESCE($8, max_guests),
		   amenities   = COALESCE($9, amenities),
		   images      = COALESCE($10, images),
		   updated_at  = $11
		 WHERE id = $1
		 RETURNING `+propertyColumns,
		id, req.Name, req.Description, req.Location, req.BasePrice,
		req.Bedrooms, req.Bathrooms, req.MaxGuests, req.Amenities, req.Images,
		time.Now().UTC(),
	))
}

// Delete removes a property. Calendar rows go with it via the cascade rule.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "PropertyRepository.Delete")
	defer span.End()

	ct, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
