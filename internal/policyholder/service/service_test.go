package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/sentinel"
	"policyhub/pkg/requestcontext"
)

func (s *ServiceSuite) TestRegister() {
	s.Run("creates holder then publishes its created event", func() {
		nid, _ := id.ParseNationalID("F131104093")
		var saved *models.PolicyHolder
		gomock.InOrder(
			s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), nid).Return(false, nil),
			s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID("PH0000000001"), nil),
			s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, h *models.PolicyHolder) error {
					saved = h
					s.Equal(1, h.PendingEvents(), "events are drained only after a successful save")
					h.MarkPersisted()
					return nil
				}),
			s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, events []eventlog.Event) error {
					s.Require().Len(events, 1)
					s.Equal(models.EventPolicyHolderCreated, events[0].Metadata().EventType)
					s.Equal("PH0000000001", events[0].Metadata().AggregateID)
					s.Equal(testNow, events[0].Metadata().OccurredOn)
					return nil
				}),
			s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any()),
		)

		holder, err := s.service.Register(s.ctx, validRegisterCommand())

		s.Require().NoError(err)
		s.Same(saved, holder)
		s.Equal(id.PolicyHolderID("PH0000000001"), holder.ID())
		s.Equal(models.StatusActive, holder.Status())
		s.Equal(int64(0), holder.Version())
		s.Zero(holder.PendingEvents())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.HoldersRegistered))
	})

	s.Run("duplicate national id is a conflict and allocates no id", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := s.service.Register(s.ctx, validRegisterCommand())

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "F131***093")
		s.NotContains(err.Error(), "F131104093")
	})

	s.Run("bad checksum fails before touching the store", func() {
		cmd := validRegisterCommand()
		cmd.NationalID = "F131104094"

		_, err := s.service.Register(s.ctx, cmd)

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "checksum")
	})

	s.Run("applicant under 18 at request time is rejected", func() {
		cmd := validRegisterCommand()
		cmd.BirthDate = testNow.AddDate(-18, 0, 1)

		_, err := s.service.Register(s.ctx, cmd)

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("applicant turning 18 today is accepted", func() {
		cmd := validRegisterCommand()
		cmd.BirthDate = testNow.AddDate(-18, 0, 0)
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID("PH0000000002"), nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		_, err := s.service.Register(s.ctx, cmd)

		s.NoError(err)
	})

	s.Run("18th birthday in the request's zone is accepted before it reaches UTC", func() {
		taipei := time.FixedZone("CST", 8*60*60)
		ctx := requestcontext.WithTime(context.Background(), time.Date(2024, 6, 15, 7, 0, 0, 0, taipei))
		cmd := validRegisterCommand()
		cmd.BirthDate = time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC)
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID("PH0000000004"), nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, events []eventlog.Event) error {
				s.Equal(time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), events[0].Metadata().OccurredOn)
				return nil
			})
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		_, err := s.service.Register(ctx, cmd)

		s.NoError(err)
	})

	s.Run("race on national id at save time is a conflict", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID("PH0000000003"), nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(fmt.Errorf("national id: %w", sentinel.ErrAlreadyUsed))

		_, err := s.service.Register(s.ctx, validRegisterCommand())

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("generated id already stored is internal, not a duplicate registration", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID("PH0000000001"), nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(fmt.Errorf("policy holder id PH0000000001: %w", sentinel.ErrIDTaken))

		_, err := s.service.Register(s.ctx, validRegisterCommand())

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.NotContains(err.Error(), "already registered")
		s.Contains(err.Error(), "PH0000000001")
	})

	s.Run("id generator failure is internal", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockIDs.EXPECT().NextPolicyHolderID(gomock.Any()).Return(id.PolicyHolderID(""), errors.New("redis down"))

		_, err := s.service.Register(s.ctx, validRegisterCommand())

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("nil command is a bad request", func() {
		_, err := s.service.Register(s.ctx, nil)

		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestAddPolicy() {
	holderID := id.PolicyHolderID("PH0000000001")

	s.Run("attaches policy and publishes PolicyAdded", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		gomock.InOrder(
			s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil),
			s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000001"), nil),
			s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil),
			s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, events []eventlog.Event) error {
					s.Require().Len(events, 1)
					added, ok := events[0].(models.PolicyAdded)
					s.Require().True(ok)
					s.Equal(id.PolicyID("PO0000000001"), added.PolicyID)
					s.Equal(models.DefaultCurrency, added.Currency)
					return nil
				}),
			s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any()),
		)

		policy, err := s.service.AddPolicy(s.ctx, validAddPolicyCommand(holderID))

		s.Require().NoError(err)
		s.Equal(id.PolicyID("PO0000000001"), policy.ID())
		s.Equal(models.PolicyStatusActive, policy.Status())
		s.Equal(1, holder.PolicyCount())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PoliciesAdded.WithLabelValues("LIFE")))
	})

	s.Run("inactive holder is an illegal state naming the holder", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusInactive), nil)
		s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000002"), nil)

		_, err := s.service.AddPolicy(s.ctx, validAddPolicyCommand(holderID))

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.Contains(err.Error(), holderID.String())
	})

	s.Run("unknown holder is not found with its id", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.AddPolicy(s.ctx, validAddPolicyCommand(holderID))

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), holderID.String())
	})

	s.Run("end before start is a validation error and nothing is saved", func() {
		cmd := validAddPolicyCommand(holderID)
		cmd.EndDate = cmd.StartDate.AddDate(0, 0, -1)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusActive), nil)
		s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000003"), nil)

		_, err := s.service.AddPolicy(s.ctx, cmd)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("negative premium is a validation error", func() {
		cmd := validAddPolicyCommand(holderID)
		cmd.PremiumAmount = "-1"
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusActive), nil)
		s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000004"), nil)

		_, err := s.service.AddPolicy(s.ctx, cmd)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "premium")
	})

	s.Run("premium with fractional cents is a validation error and nothing is saved", func() {
		cmd := validAddPolicyCommand(holderID)
		cmd.PremiumAmount = "10000.005"
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusActive), nil)
		s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000006"), nil)

		_, err := s.service.AddPolicy(s.ctx, cmd)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "decimal places")
	})

	s.Run("stale version is a conflict and is counted", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
		s.mockIDs.EXPECT().NextPolicyID(gomock.Any()).Return(id.PolicyID("PO0000000005"), nil)
		s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(fmt.Errorf("stored version 4: %w", sentinel.ErrConflict))

		_, err := s.service.AddPolicy(s.ctx, validAddPolicyCommand(holderID))

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.ErrorIs(err, sentinel.ErrConflict)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.VersionConflicts.WithLabelValues(opAddPolicy)))
	})
}

func (s *ServiceSuite) TestUpdateContactInfo() {
	holderID := id.PolicyHolderID("PH0000000001")

	s.Run("replaces contact info and publishes PolicyHolderUpdated", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
		s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, events []eventlog.Event) error {
				s.Require().Len(events, 1)
				s.Equal(models.EventPolicyHolderUpdated, events[0].Metadata().EventType)
				return nil
			})
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		updated, err := s.service.UpdateContactInfo(s.ctx, &UpdateContactInfoCommand{
			HolderID: holderID,
			Mobile:   "0987654321",
			Email:    "  ",
		})

		s.Require().NoError(err)
		s.Equal("0987654321", updated.ContactInfo().Mobile())
		_, hasEmail := updated.ContactInfo().Email()
		s.False(hasEmail)
	})

	s.Run("invalid mobile fails before loading", func() {
		_, err := s.service.UpdateContactInfo(s.ctx, &UpdateContactInfoCommand{HolderID: holderID, Mobile: "0812345678"})

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("suspended holder is rejected by the service", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusSuspended), nil)

		_, err := s.service.UpdateContactInfo(s.ctx, &UpdateContactInfoCommand{HolderID: holderID, Mobile: "0987654321"})

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.Contains(err.Error(), "SUSPENDED")
	})
}

func (s *ServiceSuite) TestUpdateAddress() {
	holderID := id.PolicyHolderID("PH0000000001")

	s.Run("replaces address", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
		s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		updated, err := s.service.UpdateAddress(s.ctx, &UpdateAddressCommand{
			HolderID: holderID, ZipCode: "300", City: "Hsinchu", District: "East", Street: "Guangfu Rd. 2",
		})

		s.Require().NoError(err)
		s.Equal("300", updated.Address().ZipCode())
	})

	s.Run("inactive holder is rejected", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusInactive), nil)

		_, err := s.service.UpdateAddress(s.ctx, &UpdateAddressCommand{
			HolderID: holderID, ZipCode: "300", City: "Hsinchu", District: "East", Street: "Guangfu Rd. 2",
		})

		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("six character zip is a validation error", func() {
		_, err := s.service.UpdateAddress(s.ctx, &UpdateAddressCommand{
			HolderID: holderID, ZipCode: "300123", City: "Hsinchu", District: "East", Street: "Guangfu Rd. 2",
		})

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDeactivate() {
	holderID := id.PolicyHolderID("PH0000000001")

	s.Run("active holder becomes inactive", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
		s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, events []eventlog.Event) error {
				deleted, ok := events[0].(models.PolicyHolderDeleted)
				s.Require().True(ok)
				s.Equal(models.StatusActive, deleted.PreviousStatus)
				s.Equal(models.StatusInactive, deleted.Status)
				return nil
			})
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		updated, err := s.service.Deactivate(s.ctx, holderID)

		s.Require().NoError(err)
		s.Equal(models.StatusInactive, updated.Status())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.HoldersDeactivated))
	})

	s.Run("already inactive is an illegal state and nothing is saved", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusInactive), nil)

		_, err := s.service.Deactivate(s.ctx, holderID)

		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("empty id is a bad request", func() {
		_, err := s.service.Deactivate(s.ctx, "")

		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestTerminatePolicy() {
	holderID := id.PolicyHolderID("PH0000000001")
	policyID := id.PolicyID("PO0000000001")

	s.Run("terminates an owned policy", func() {
		holder := s.storedHolderWithPolicy(holderID, policyID)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
		s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil)
		s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, events []eventlog.Event) error {
				s.Equal(models.EventPolicyTerminated, events[0].Metadata().EventType)
				return nil
			})
		s.mockPublisher.EXPECT().Broadcast(gomock.Any(), gomock.Any())

		updated, err := s.service.TerminatePolicy(s.ctx, holderID, policyID)

		s.Require().NoError(err)
		policy, ok := updated.Policy(policyID)
		s.Require().True(ok)
		s.Equal(models.PolicyStatusTerminated, policy.Status())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PoliciesTerminated))
	})

	s.Run("policy the holder does not own is not found", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(s.storedHolder(holderID, models.StatusActive), nil)

		_, err := s.service.TerminatePolicy(s.ctx, holderID, "PO0000000099")

		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "PO0000000099")
	})
}

func (s *ServiceSuite) TestRecordFailureSkipsBroadcast() {
	holderID := id.PolicyHolderID("PH0000000001")
	holder := s.storedHolder(holderID, models.StatusActive)
	s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)
	s.mockStore.EXPECT().Save(gomock.Any(), holder).Return(nil)
	s.mockPublisher.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("event log unavailable"))

	_, err := s.service.Deactivate(s.ctx, holderID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(err.Error(), "failed to record policy holder events")
	s.Zero(testutil.ToFloat64(s.metrics.HoldersDeactivated))
}

func (s *ServiceSuite) TestQueries() {
	holderID := id.PolicyHolderID("PH0000000001")

	s.Run("Get returns the stored holder", func() {
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByID(gomock.Any(), holderID).Return(holder, nil)

		got, err := s.service.Get(s.ctx, holderID)

		s.Require().NoError(err)
		s.Same(holder, got)
	})

	s.Run("Get of unknown id is not found naming the id", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), id.PolicyHolderID("PH0000000404")).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Get(s.ctx, "PH0000000404")

		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "PH0000000404")
	})

	s.Run("GetByNationalID normalises case", func() {
		nid, _ := id.ParseNationalID("F131104093")
		holder := s.storedHolder(holderID, models.StatusActive)
		s.mockStore.EXPECT().FindByNationalID(gomock.Any(), nid).Return(holder, nil)

		got, err := s.service.GetByNationalID(s.ctx, "f131104093")

		s.Require().NoError(err)
		s.Same(holder, got)
	})

	s.Run("GetByNationalID miss is not found with the masked id", func() {
		s.mockStore.EXPECT().FindByNationalID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetByNationalID(s.ctx, "A123456789")

		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "A123***789")
	})

	s.Run("GetByNationalID rejects malformed input", func() {
		_, err := s.service.GetByNationalID(s.ctx, "A1234")

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("History delegates to the event reader", func() {
		s.mockReader.EXPECT().FindByAggregateID(gomock.Any(), holderID.String()).Return([]eventlog.Event{}, nil)

		events, err := s.service.History(s.ctx, holderID)

		s.Require().NoError(err)
		s.Empty(events)
	})

	s.Run("History surfaces decode failures", func() {
		s.mockReader.EXPECT().FindByAggregateID(gomock.Any(), holderID.String()).
			Return(nil, dErrors.New(dErrors.CodeDeserialization, "unknown event type \"Bogus\""))

		_, err := s.service.History(s.ctx, holderID)

		s.True(dErrors.HasCode(err, dErrors.CodeDeserialization))
	})
}
