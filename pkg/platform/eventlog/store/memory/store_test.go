package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/eventlog/eventlogtest"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	t0    time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New(eventlogtest.Registry())
	s.ctx = context.Background()
	s.t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TestFindByAggregateIDOrdersByOccurrence() {
	late := eventlogtest.NewRenamed("W-1", "second", s.t0.Add(time.Minute))
	early := eventlogtest.NewRenamed("W-1", "first", s.t0)
	other := eventlogtest.NewRenamed("W-2", "other", s.t0)

	s.Require().NoError(s.store.Save(s.ctx, late))
	s.Require().NoError(s.store.Save(s.ctx, early))
	s.Require().NoError(s.store.Save(s.ctx, other))

	events, err := s.store.FindByAggregateID(s.ctx, "W-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(early, events[0])
	s.Equal(late, events[1])
}

func (s *StoreSuite) TestEqualTimestampsKeepInsertionOrder() {
	a := eventlogtest.NewRenamed("W-1", "a", s.t0)
	b := eventlogtest.NewRenamed("W-1", "b", s.t0)
	c := eventlogtest.NewRenamed("W-1", "c", s.t0)
	s.Require().NoError(s.store.SaveAll(s.ctx, []eventlog.Event{a, b, c}))

	events, err := s.store.FindByAggregateID(s.ctx, "W-1")
	s.Require().NoError(err)
	s.Equal([]eventlog.Event{a, b, c}, events)
}

func (s *StoreSuite) TestUnknownKeysReturnEmpty() {
	s.Require().NoError(s.store.Save(s.ctx, eventlogtest.NewRenamed("W-1", "x", s.t0)))

	byID, err := s.store.FindByAggregateID(s.ctx, "missing")
	s.NoError(err)
	s.NotNil(byID)
	s.Empty(byID)

	byType, err := s.store.FindByAggregateType(s.ctx, "Gadget")
	s.NoError(err)
	s.Empty(byType)

	byEvent, err := s.store.FindByEventType(s.ctx, "GadgetBuilt")
	s.NoError(err)
	s.Empty(byEvent)
}

func (s *StoreSuite) TestFindByTypes() {
	s.Require().NoError(s.store.SaveAll(s.ctx, []eventlog.Event{
		eventlogtest.NewRenamed("W-1", "x", s.t0),
		eventlogtest.NewRenamed("W-2", "y", s.t0.Add(time.Second)),
	}))

	byType, err := s.store.FindByAggregateType(s.ctx, eventlogtest.AggregateType)
	s.Require().NoError(err)
	s.Len(byType, 2)

	byEvent, err := s.store.FindByEventType(s.ctx, eventlogtest.EventType)
	s.Require().NoError(err)
	s.Len(byEvent, 2)
}

func (s *StoreSuite) TestSaveAllIsAllOrNothing() {
	existing := eventlogtest.NewRenamed("W-1", "existing", s.t0)
	s.Require().NoError(s.store.Save(s.ctx, existing))

	fresh := eventlogtest.NewRenamed("W-1", "fresh", s.t0.Add(time.Second))
	err := s.store.SaveAll(s.ctx, []eventlog.Event{fresh, existing})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	events, err := s.store.FindByAggregateID(s.ctx, "W-1")
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *StoreSuite) TestSaveAllRejectsUnregisteredEvents() {
	empty := New(eventlog.NewRegistry())
	err := empty.SaveAll(s.ctx, []eventlog.Event{eventlogtest.NewRenamed("W-1", "x", s.t0)})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *StoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.ErrorIs(s.store.Save(ctx, eventlogtest.NewRenamed("W-1", "x", s.t0)), context.Canceled)
}
