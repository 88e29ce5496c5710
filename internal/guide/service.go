// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package guide

import (
	"context"

	"github.com/google/uuid"

	"superguide/internal/models"
	"superguide/internal/store"
)

// Service coordinates selection storage with resource lookups.
type Service struct {
	selections SelectionStore
	resources  *store.ResourceStore
}

// NewService creates a guide service.
func NewService(selections SelectionStore, resources *store.ResourceStore) *Service {
	return &Service{selections: selections, resources: resources}
}

// Toggle flips a resource's membership in the token's selection. Reports
// whether the resource is selected after the call, so toggling the same
// id twice restores the original selection.
func (s *Service) Toggle(ctx context.Context, token string, id uuid.UUID) (selected bool, ids []uuid.UUID, err error) {
	ids, err = s.selections.Get(ctx, token)
	if err != nil {
		return false, nil, err
	}

	kept := make([]uuid.UUID, 0, len(ids)+1)
	for _, existing := range ids {
		if existing == id {
			selected = false
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) == len(ids) {
		kept = append(kept, id)
		selected = true
	}

	if err := s.selections.Set(ctx, token, kept); err != nil {
		return false, nil, err
	}
	return selected, kept, nil
}

// Resolve loads the full resources for a token's selection, dropping ids
// that no longer exist. The surviving ids are written back so deleted
// resources disappear from the selection too.
func (s *Service) Resolve(ctx context.Context, token string) ([]models.Resource, error) {
	ids, err := s.selections.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resources, err := s.resources.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	if len(resources) != len(ids) {
		found := make(map[uuid.UUID]bool, len(resources))
		for _, r := range resources {
			found[r.ID] = true
		}
		survived := make([]uuid.UUID, 0, len(resources))
		for _, id := range ids {
			if found[id] {
				survived = append(survived, id)
			}
		}
		if err := s.selections.Set(ctx, token, survived); err != nil {
			return nil, err
		}
	}
	return resources, nil
}

// Clear empties the token's selection.
func (s *Service) Clear(ctx context.Context, token string) error {
	return s.selections.Clear(ctx, token)
}

// IDs returns the raw selected ids for a token.
func (s *Service) IDs(ctx context.Context, token string) ([]uuid.UUID, error) {
	return s.selections.Get(ctx, token)
}
