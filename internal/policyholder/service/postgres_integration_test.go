//go:build integration

package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"policyhub/internal/policyholder/idgen"
	"policyhub/internal/policyholder/models"
	"policyhub/internal/policyholder/service"
	holderstore "policyhub/internal/policyholder/store/policyholder"
	dErrors "policyhub/pkg/domain-errors"
	eventpostgres "policyhub/pkg/platform/eventlog/store/postgres"
	"policyhub/pkg/platform/eventlog/publisher"
	"policyhub/pkg/testutil"
	"policyhub/pkg/testutil/containers"
)

type PostgresServiceSuite struct {
	suite.Suite
	pg  *containers.PostgresContainer
	svc *service.Service
}

func TestPostgresServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresServiceSuite))
}

func (s *PostgresServiceSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresServiceSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := eventpostgres.New(s.pg.DB, models.NewEventRegistry())
	s.svc = service.New(
		holderstore.NewPostgres(s.pg.DB),
		idgen.NewSequence(0),
		publisher.New(events, publisher.WithLogger(logger)),
		events,
		service.WithLogger(logger),
		service.WithTx(service.NewPostgresTx(s.pg.DB, 5*time.Second)),
	)
}

func (s *PostgresServiceSuite) TestLifecyclePersistsStateAndHistory() {
	ctx := at(1)
	holder, err := s.svc.Register(ctx, registerCommand(testutil.TestIDs.NationalID1))
	s.Require().NoError(err)

	policy, err := s.svc.AddPolicy(at(2), &service.AddPolicyCommand{
		HolderID:         holder.ID(),
		PolicyType:       "AUTO",
		PremiumAmount:    "8800",
		SumInsuredAmount: "2000000",
		StartDate:        time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	_, err = s.svc.TerminatePolicy(at(3), holder.ID(), policy.ID())
	s.Require().NoError(err)
	_, err = s.svc.Deactivate(at(4), holder.ID())
	s.Require().NoError(err)

	reloaded, err := s.svc.Get(context.Background(), holder.ID())
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, reloaded.Status())
	s.Equal(int64(3), reloaded.Version())

	history, err := s.svc.History(context.Background(), holder.ID())
	s.Require().NoError(err)
	s.Require().Len(history, 4)
	s.Equal(models.EventPolicyHolderCreated, history[0].Metadata().EventType)
	s.Equal(models.EventPolicyHolderDeleted, history[3].Metadata().EventType)
}

func (s *PostgresServiceSuite) TestDuplicateRegistrationIsConflict() {
	_, err := s.svc.Register(at(1), registerCommand(testutil.TestIDs.NationalID2))
	s.Require().NoError(err)

	_, err = s.svc.Register(at(1), registerCommand(testutil.TestIDs.NationalID2))

	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *PostgresServiceSuite) TestHistoryFollowsCommitOrder() {
	holder, err := s.svc.Register(at(1), registerCommand(testutil.TestIDs.NationalID1))
	s.Require().NoError(err)
	_, err = s.svc.UpdateAddress(at(5), &service.UpdateAddressCommand{
		HolderID: holder.ID(), ZipCode: "300", City: "Hsinchu", District: "East", Street: "Guangfu Rd. 2",
	})
	s.Require().NoError(err)
	_, err = s.svc.UpdateContactInfo(at(3), &service.UpdateContactInfoCommand{HolderID: holder.ID(), Mobile: "0987654321"})
	s.Require().NoError(err)

	history, err := s.svc.History(context.Background(), holder.ID())

	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal("address", history[1].(models.PolicyHolderUpdated).Changed)
	s.Equal("contact_info", history[2].(models.PolicyHolderUpdated).Changed)
	s.Equal("300", history[2].(models.PolicyHolderUpdated).ZipCode)
}
