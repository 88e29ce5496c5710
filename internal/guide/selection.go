// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package guide manages a visitor's personal resource shortlist. The
// selection belongs to one device, identified by a random token cookie,
// and is stored as a serialized id list behind the SelectionStore port.
package guide

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces selection keys in Valkey.
	keyPrefix = "guide:"

	// DefaultTTL is how long an untouched selection survives. Every access
	// refreshes it, so only abandoned devices expire.
	DefaultTTL = 30 * 24 * time.Hour
)

// SelectionStore is the storage port for a device's selection. Implemented
// by ValkeyStore in production and by an in-memory fake in tests.
type SelectionStore interface {
	Get(ctx context.Context, token string) ([]uuid.UUID, error)
	Set(ctx context.Context, token string, ids []uuid.UUID) error
	Clear(ctx context.Context, token string) error
}

// ValkeyStore keeps selections in Valkey as JSON-encoded id lists.
type ValkeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyStore creates a selection store backed by the given Valkey client.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client, ttl: DefaultTTL}
}

// Get returns the stored selection for a token. A missing key or an
// unparseable value both read as an empty selection, never as an error;
// a corrupt entry just means the visitor starts over.
func (s *ValkeyStore) Get(ctx context.Context, token string) ([]uuid.UUID, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("guide get: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	// Keep active selections alive.
	s.client.Expire(ctx, keyPrefix+token, s.ttl)
	return ids, nil
}

// Set replaces the stored selection for a token.
func (s *ValkeyStore) Set(ctx context.Context, token string, ids []uuid.UUID) error {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("guide marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("guide set: %w", err)
	}
	return nil
}

// Clear removes the selection for a token.
func (s *ValkeyStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("guide clear: %w", err)
	}
	return nil
}
