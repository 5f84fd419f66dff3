// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer: ownership authorization,
// availability checks, bulk calendar mutation, and the booking lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
)

// PropertyService orchestrates property CRUD and owns the ownership guard
// every calendar and booking operation authorizes through.
type PropertyService struct {
	properties PropertyStore
	validate   *validator.Validate
}

// NewPropertyService constructs a PropertyService.
func NewPropertyService(properties PropertyStore) *PropertyService {
	return &PropertyService{
		properties: properties,
		validate:   validator.New(),
	}
}

// Authorize checks that callerID owns the property. It returns
// repository.ErrNotFound when the property does not exist, ErrForbidden when
// the caller is not the owner, and nil when the access is allowed. Read-only;
// any other lookup failure surfaces as an internal error.
func (s *PropertyService) Authorize(ctx context.Context, callerID, propertyID string) error {
	ownerID, err := s.properties.OwnerID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("authorize property: %w", err)
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}

// Create validates the request and inserts a property owned by the caller.
func (s *PropertyService) Create(ctx context.Context, callerID string, req model.NewPropertyRequest) (*model.Property, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalid("Missing required property fields")
	}
	return s.properties.Create(ctx, callerID, req)
}

// List returns the caller's properties.
func (s *PropertyService) List(ctx context.Context, callerID string) ([]model.Property, error) {
	return s.properties.ListByOwner(ctx, callerID)
}

// Get returns a single property after an ownership check.
func (s *PropertyService) Get(ctx context.Context, callerID, id string) (*model.Property, error) {
	if err := s.Authorize(ctx, callerID, id); err != nil {
		return nil, err
	}
	return s.properties.GetByID(ctx, id)
}

// Update applies a partial update after an ownership check.
func (s *PropertyService) Update(ctx context.Context, callerID, id string, req model.UpdatePropertyRequest) (*model.Property, error) {
	if err := s.Authorize(ctx, callerID, id); err != nil {
		return nil, err
	}
	return s.properties.Update(ctx, id, req)
}

// Delete removes a property after an ownership check. Associated calendar
// rows are removed by the store's cascade rule.
func (s *PropertyService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.Authorize(ctx, callerID, id); err != nil {
		return err
	}
	return s.properties.Delete(ctx, id)
}
