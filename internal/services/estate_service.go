package services

import (
	"context"
	"fmt"

	"farmledger/internal/core"
)

// EstateService manages the estates a tenant tracks records under.
type EstateService struct {
	storage Repository
}

func NewEstateService(storage Repository) *EstateService {
	return &EstateService{storage: storage}
}

// CreateEstate validates and stores a new estate, returning its ID.
func (s *EstateService) CreateEstate(ctx context.Context, e core.Estate) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	id, err := s.storage.CreateEstate(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save estate: %w", err)
	}
	return id, nil
}

// ListEstates returns all estates ordered by name.
func (s *EstateService) ListEstates(ctx context.Context) ([]core.Estate, error) {
	estates, err := s.storage.ListEstates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list estates: %w", err)
	}
	return estates, nil
}
