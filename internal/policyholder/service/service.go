// Package service runs policy holder commands: load the aggregate, apply one
// mutation, save it under the optimistic version check and record the drained
// domain events in the same unit of work, then broadcast them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	holdermetrics "policyhub/internal/policyholder/metrics"
	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/sentinel"
	platformsync "policyhub/pkg/platform/sync"
	"policyhub/pkg/platform/tracer"
	"policyhub/pkg/requestcontext"
)

// Operation labels for metrics and logs.
const (
	opRegister          = "register"
	opAddPolicy         = "add_policy"
	opUpdateContactInfo = "update_contact_info"
	opUpdateAddress     = "update_address"
	opDeactivate        = "deactivate"
	opTerminatePolicy   = "terminate_policy"
)

// Service orchestrates the PolicyHolder aggregate lifecycle.
type Service struct {
	holders         Store
	ids             IDGenerator
	publisher       EventPublisher
	events          EventReader
	tx              StoreTx
	cycles          *platformsync.ShardedMutex
	logger          *slog.Logger
	metrics         *holdermetrics.Metrics
	tracer          tracer.Tracer
	defaultCurrency string
}

func New(holders Store, ids IDGenerator, publisher EventPublisher, events EventReader, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = NewInMemoryTx(0)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	tr := cfg.tracer
	if tr == nil {
		tr = tracer.NewNoop()
	}
	currency := cfg.defaultCurrency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &Service{
		holders:         holders,
		ids:             ids,
		publisher:       publisher,
		events:          events,
		tx:              tx,
		cycles:          platformsync.NewShardedMutex(0),
		logger:          logger,
		metrics:         cfg.metrics,
		tracer:          tr,
		defaultCurrency: currency,
	}
}

// Register creates an ACTIVE policy holder. A national id that is already
// registered is rejected with a conflict.
func (s *Service) Register(ctx context.Context, cmd *RegisterCommand) (_ *models.PolicyHolder, err error) {
	defer s.observe(opRegister, time.Now())
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "register command required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegister,
		tracer.String(tracer.AttrNationalID, tracer.HashNationalID(cmd.NationalID)),
	)
	defer func() { span.End(err) }()

	nationalID, err := id.ParseNationalID(cmd.NationalID)
	if err != nil {
		return nil, err
	}

	var (
		holder *models.PolicyHolder
		events []eventlog.Event
		slot   string
	)
	err = s.tx.RunInTx(WithLockKey(ctx, "national:"+nationalID.String()), func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		personal, err := cmd.personalInfo(now)
		if err != nil {
			return err
		}
		contact, err := cmd.contactInfo()
		if err != nil {
			return err
		}
		address, err := cmd.address()
		if err != nil {
			return err
		}

		exists, err := s.holders.ExistsByNationalID(txCtx, nationalID)
		if err != nil {
			return wrapHolderErr(err, nationalID.Masked(), "failed to check national ID")
		}
		if exists {
			return dErrors.Newf(dErrors.CodeConflict, "policy holder already registered for national ID %s", nationalID.Masked())
		}

		holderID, err := s.ids.NextPolicyHolderID(txCtx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate policy holder ID")
		}
		h, err := models.NewPolicyHolder(holderID, nationalID, personal, contact, address, now)
		if err != nil {
			return err
		}
		if err := s.holders.Save(txCtx, h); err != nil {
			return wrapSaveErr(err, holderID)
		}
		events = h.DrainEvents()
		if err := s.record(txCtx, holderID, events); err != nil {
			return err
		}
		holder = h
		slot = s.claimBroadcast(holderID)
		return nil
	})
	if slot != "" {
		defer s.cycles.Unlock(slot)
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrPolicyHolderID, holder.ID().String()))

	s.publisher.Broadcast(ctx, events)
	if s.metrics != nil {
		s.metrics.IncrementHoldersRegistered()
	}
	s.logger.InfoContext(ctx, "policy holder registered",
		"policy_holder_id", holder.ID().String(),
		"national_id", nationalID.Masked(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return holder, nil
}

// AddPolicy attaches a new ACTIVE policy to an ACTIVE holder and returns the policy.
func (s *Service) AddPolicy(ctx context.Context, cmd *AddPolicyCommand) (_ *models.Policy, err error) {
	defer s.observe(opAddPolicy, time.Now())
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "add policy command required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanAddPolicy,
		tracer.String(tracer.AttrPolicyHolderID, cmd.HolderID.String()),
		tracer.String(tracer.AttrPolicyType, cmd.PolicyType),
	)
	defer func() { span.End(err) }()

	var added *models.Policy
	_, err = s.mutate(ctx, opAddPolicy, cmd.HolderID, func(txCtx context.Context, h *models.PolicyHolder, now time.Time) error {
		policyID, err := s.ids.NextPolicyID(txCtx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate policy ID")
		}
		policy, err := cmd.policy(policyID, s.defaultCurrency)
		if err != nil {
			return err
		}
		if err := h.AddPolicy(policy, now); err != nil {
			return err
		}
		added = policy
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrPolicyID, added.ID().String()))
	if s.metrics != nil {
		s.metrics.IncrementPoliciesAdded(string(added.Type()))
	}
	return added, nil
}

// UpdateContactInfo replaces the holder's contact info. Only ACTIVE holders
// may be edited through the service.
func (s *Service) UpdateContactInfo(ctx context.Context, cmd *UpdateContactInfoCommand) (_ *models.PolicyHolder, err error) {
	defer s.observe(opUpdateContactInfo, time.Now())
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "update contact info command required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanUpdateContactInfo,
		tracer.String(tracer.AttrPolicyHolderID, cmd.HolderID.String()),
	)
	defer func() { span.End(err) }()

	contact, err := models.NewContactInfo(cmd.Mobile, cmd.Email)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, opUpdateContactInfo, cmd.HolderID, func(_ context.Context, h *models.PolicyHolder, now time.Time) error {
		if err := requireActive(h, "update contact info"); err != nil {
			return err
		}
		return h.UpdateContactInfo(contact, now)
	})
}

// UpdateAddress replaces the holder's address. Only ACTIVE holders may be
// edited through the service.
func (s *Service) UpdateAddress(ctx context.Context, cmd *UpdateAddressCommand) (_ *models.PolicyHolder, err error) {
	defer s.observe(opUpdateAddress, time.Now())
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "update address command required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanUpdateAddress,
		tracer.String(tracer.AttrPolicyHolderID, cmd.HolderID.String()),
	)
	defer func() { span.End(err) }()

	address, err := models.NewAddress(cmd.ZipCode, cmd.City, cmd.District, cmd.Street)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, opUpdateAddress, cmd.HolderID, func(_ context.Context, h *models.PolicyHolder, now time.Time) error {
		if err := requireActive(h, "update address"); err != nil {
			return err
		}
		return h.UpdateAddress(address, now)
	})
}

// Deactivate soft-deletes the holder. The record and its policies are kept.
func (s *Service) Deactivate(ctx context.Context, holderID id.PolicyHolderID) (_ *models.PolicyHolder, err error) {
	defer s.observe(opDeactivate, time.Now())
	ctx, span := s.tracer.Start(ctx, tracer.SpanDeactivate,
		tracer.String(tracer.AttrPolicyHolderID, holderID.String()),
	)
	defer func() { span.End(err) }()

	holder, err := s.mutate(ctx, opDeactivate, holderID, func(_ context.Context, h *models.PolicyHolder, now time.Time) error {
		return h.Deactivate(now)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementHoldersDeactivated()
	}
	return holder, nil
}

// TerminatePolicy ends one of the holder's policies.
func (s *Service) TerminatePolicy(ctx context.Context, holderID id.PolicyHolderID, policyID id.PolicyID) (_ *models.PolicyHolder, err error) {
	defer s.observe(opTerminatePolicy, time.Now())
	ctx, span := s.tracer.Start(ctx, tracer.SpanTerminatePolicy,
		tracer.String(tracer.AttrPolicyHolderID, holderID.String()),
		tracer.String(tracer.AttrPolicyID, policyID.String()),
	)
	defer func() { span.End(err) }()

	if policyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "policy ID required")
	}
	holder, err := s.mutate(ctx, opTerminatePolicy, holderID, func(_ context.Context, h *models.PolicyHolder, now time.Time) error {
		return h.TerminatePolicy(policyID, now)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementPoliciesTerminated()
	}
	return holder, nil
}

// Get loads a holder by id.
func (s *Service) Get(ctx context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}
	holder, err := s.holders.FindByID(ctx, holderID)
	if err != nil {
		return nil, wrapHolderErr(err, holderID.String(), "failed to load policy holder")
	}
	return holder, nil
}

// GetByNationalID loads a holder by national id. The raw input is validated
// first so a malformed id is a validation error rather than a miss.
func (s *Service) GetByNationalID(ctx context.Context, rawNationalID string) (*models.PolicyHolder, error) {
	nationalID, err := id.ParseNationalID(rawNationalID)
	if err != nil {
		return nil, err
	}
	holder, err := s.holders.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, wrapHolderErr(err, nationalID.Masked(), "failed to load policy holder")
	}
	return holder, nil
}

// History returns the holder's recorded events, oldest first. An unknown
// holder has no history, which is an empty slice rather than an error.
func (s *Service) History(ctx context.Context, holderID id.PolicyHolderID) ([]eventlog.Event, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}
	if s.events == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "event history is not configured")
	}
	events, err := s.events.FindByAggregateID(ctx, holderID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read policy holder history")
	}
	return events, nil
}

// mutate runs load, apply, save and record for one holder inside a
// transaction, then broadcasts what the aggregate recorded.
func (s *Service) mutate(
	ctx context.Context,
	operation string,
	holderID id.PolicyHolderID,
	apply func(txCtx context.Context, h *models.PolicyHolder, now time.Time) error,
) (*models.PolicyHolder, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}

	var (
		holder *models.PolicyHolder
		events []eventlog.Event
		slot   string
	)
	err := s.tx.RunInTx(WithLockKey(ctx, "holder:"+holderID.String()), func(txCtx context.Context) error {
		h, err := s.holders.FindByID(txCtx, holderID)
		if err != nil {
			return wrapHolderErr(err, holderID.String(), "failed to load policy holder")
		}
		if err := apply(txCtx, h, changeTime(h, requestcontext.Now(txCtx))); err != nil {
			return err
		}
		if err := s.holders.Save(txCtx, h); err != nil {
			if errors.Is(err, sentinel.ErrConflict) && s.metrics != nil {
				s.metrics.IncrementVersionConflict(operation)
			}
			return wrapSaveErr(err, holderID)
		}
		events = h.DrainEvents()
		if err := s.record(txCtx, holderID, events); err != nil {
			return err
		}
		holder = h
		slot = s.claimBroadcast(holderID)
		return nil
	})
	if slot != "" {
		defer s.cycles.Unlock(slot)
	}
	if err != nil {
		return nil, err
	}

	s.publisher.Broadcast(ctx, events)
	s.logger.InfoContext(ctx, "policy holder updated",
		"operation", operation,
		"policy_holder_id", holderID.String(),
		"version", holder.Version(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return holder, nil
}

// changeTime stamps a mutation no earlier than the holder's previous change, so
// a slow request never records an event that sorts ahead of one already stored.
func changeTime(h *models.PolicyHolder, requested time.Time) time.Time {
	if last := h.UpdatedAt(); requested.Before(last) {
		return last
	}
	return requested
}

// record appends the drained events inside the unit of work. On postgres the
// append joins the transaction, so the events commit or roll back with the
// holder row.
func (s *Service) record(ctx context.Context, holderID id.PolicyHolderID, events []eventlog.Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanPublishEvents,
		tracer.String(tracer.AttrPolicyHolderID, holderID.String()),
		tracer.Int(tracer.AttrEventCount, len(events)),
	)
	defer func() { span.End(err) }()

	if err := s.publisher.Record(ctx, events); err != nil {
		s.logger.ErrorContext(ctx, "failed to record policy holder events",
			"policy_holder_id", holderID.String(),
			"event_count", len(events),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record policy holder events")
	}
	span.AddEvent(tracer.EventPersisted, tracer.Int(tracer.AttrEventCount, len(events)))
	return nil
}

// claimBroadcast takes the holder's broadcast slot before the unit of work
// commits. The next cycle for the same holder claims it only after this one
// has broadcast, so broadcasts follow commit order. The slot is always taken
// after the transaction lock, never before it.
func (s *Service) claimBroadcast(holderID id.PolicyHolderID) string {
	key := "holder:" + holderID.String()
	s.cycles.Lock(key)
	return key
}

func requireActive(h *models.PolicyHolder, action string) error {
	if h.IsActive() {
		return nil
	}
	return dErrors.Newf(dErrors.CodeInvalidState, "cannot %s: policy holder %s is %s", action, h.ID(), h.Status())
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCommand(operation, start)
	}
}
