package service

import (
	"context"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	"policyhub/pkg/platform/eventlog"
)

// Store is the repository port for the PolicyHolder aggregate.
// Implementations return sentinel errors; the service translates them.
type Store interface {
	FindByID(ctx context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error)
	FindByNationalID(ctx context.Context, nationalID id.NationalID) (*models.PolicyHolder, error)
	ExistsByNationalID(ctx context.Context, nationalID id.NationalID) (bool, error)
	Save(ctx context.Context, holder *models.PolicyHolder) error
	DeleteByID(ctx context.Context, holderID id.PolicyHolderID) error
}

// EventPublisher records drained events inside the unit of work and broadcasts
// them once it has committed.
type EventPublisher interface {
	Record(ctx context.Context, events []eventlog.Event) error
	Broadcast(ctx context.Context, events []eventlog.Event)
}

// EventReader reads back an aggregate's recorded history.
type EventReader interface {
	FindByAggregateID(ctx context.Context, aggregateID string) ([]eventlog.Event, error)
}

// IDGenerator issues policy holder and policy identifiers.
type IDGenerator interface {
	NextPolicyHolderID(ctx context.Context) (id.PolicyHolderID, error)
	NextPolicyID(ctx context.Context) (id.PolicyID, error)
}
