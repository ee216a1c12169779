package policyholder

import (
	"testing"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	"policyhub/pkg/testutil"
)

var fixtureNow = testutil.FixtureNow

func newHolder(t *testing.T, holderID id.PolicyHolderID, nationalID string) *models.PolicyHolder {
	t.Helper()
	return testutil.NewTestHolder(holderID, nationalID)
}

func newPolicy(t *testing.T, policyID id.PolicyID) *models.Policy {
	t.Helper()
	return testutil.NewTestPolicy(policyID)
}
