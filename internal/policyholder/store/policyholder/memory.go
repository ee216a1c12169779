package policyholder

import (
	"context"
	"fmt"
	"sync"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	"policyhub/pkg/platform/sentinel"
)

// InMemory keeps policy holder snapshots in memory. Loads return fresh
// aggregates so callers never share state with the store.
type InMemory struct {
	mu         sync.RWMutex
	holders    map[id.PolicyHolderID]models.Snapshot
	byNational map[id.NationalID]id.PolicyHolderID
}

// NewInMemory creates an in-memory policy holder store.
func NewInMemory() *InMemory {
	return &InMemory{
		holders:    make(map[id.PolicyHolderID]models.Snapshot),
		byNational: make(map[id.NationalID]id.PolicyHolderID),
	}
}

func (s *InMemory) FindByID(_ context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.holders[holderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return models.Reconstitute(snap), nil
}

func (s *InMemory) FindByNationalID(_ context.Context, nationalID id.NationalID) (*models.PolicyHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holderID, ok := s.byNational[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return models.Reconstitute(s.holders[holderID]), nil
}

func (s *InMemory) ExistsByNationalID(_ context.Context, nationalID id.NationalID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byNational[nationalID]
	return ok, nil
}

// Save inserts a new holder or updates a loaded one under an optimistic version check.
func (s *InMemory) Save(_ context.Context, h *models.PolicyHolder) error {
	if h == nil {
		return fmt.Errorf("policy holder is required")
	}
	snap := h.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.holders[snap.ID]
	if h.IsNew() {
		if exists {
			return fmt.Errorf("policy holder id %s: %w", snap.ID, sentinel.ErrIDTaken)
		}
		if _, taken := s.byNational[snap.NationalID]; taken {
			return fmt.Errorf("national id: %w", sentinel.ErrAlreadyUsed)
		}
		s.holders[snap.ID] = snap
		s.byNational[snap.NationalID] = snap.ID
		h.MarkPersisted()
		return nil
	}

	if !exists {
		return sentinel.ErrNotFound
	}
	if existing.Version != snap.Version {
		return fmt.Errorf("policy holder %s at version %d, stored version %d: %w",
			snap.ID, snap.Version, existing.Version, sentinel.ErrConflict)
	}
	snap.Version++
	snap.Policies = bumpChangedPolicies(existing.Policies, snap.Policies)
	s.holders[snap.ID] = snap
	h.MarkPersisted()
	return nil
}

// bumpChangedPolicies advances the version of every stored policy whose status changed.
func bumpChangedPolicies(stored, next []models.PolicySnapshot) []models.PolicySnapshot {
	previous := make(map[id.PolicyID]models.PolicySnapshot, len(stored))
	for _, p := range stored {
		previous[p.ID] = p
	}
	out := make([]models.PolicySnapshot, len(next))
	for i, p := range next {
		if old, ok := previous[p.ID]; ok && old.Status != p.Status {
			p.Version = old.Version + 1
		}
		out[i] = p
	}
	return out
}

func (s *InMemory) DeleteByID(_ context.Context, holderID id.PolicyHolderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.holders[holderID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.holders, holderID)
	delete(s.byNational, snap.NationalID)
	return nil
}
