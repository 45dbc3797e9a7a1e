package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func validInput() port.CreateCampaignInput {
	return port.CreateCampaignInput{
		Title:          "Spring Launch",
		Budget:         decimal.NewFromInt(5000),
		Currency:       "USD",
		StartDate:      time.Now(),
		EndDate:        time.Now().AddDate(0, 1, 0),
		MaxInfluencers: 3,
	}
}

func TestCampaignCreateStartsInDraft(t *testing.T) {
	e := newEnv(t)
	c, err := e.campaigns.Create(context.Background(), e.business, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.Equal(t, e.business.ID, c.BusinessID)
}

func TestCampaignCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := validInput()
	in.Title = ""
	_, err := e.campaigns.Create(ctx, e.business, in)
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)

	in = validInput()
	in.Budget = decimal.NewFromInt(-5)
	_, err = e.campaigns.Create(ctx, e.business, in)
	require.ErrorAs(t, err, &ve)

	in = validInput()
	in.EndDate = in.StartDate.AddDate(0, 0, -1)
	_, err = e.campaigns.Create(ctx, e.business, in)
	require.ErrorAs(t, err, &ve)

	in = validInput()
	in.MaxInfluencers = 0
	_, err = e.campaigns.Create(ctx, e.business, in)
	require.ErrorAs(t, err, &ve)
}

func TestCampaignCreateRoleGate(t *testing.T) {
	e := newEnv(t)
	_, err := e.campaigns.Create(context.Background(), e.influencer, validInput())
	assert.ErrorIs(t, err, port.ErrForbidden)
	_, err = e.campaigns.Create(context.Background(), e.broker, validInput())
	assert.ErrorIs(t, err, port.ErrForbidden)
}

func TestCampaignApprovalIsBrokerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignPendingApproval, 3)

	_, err := e.campaigns.SetStatus(ctx, e.business, c.ID, domain.CampaignActive)
	assert.ErrorIs(t, err, port.ErrForbidden)

	got, err := e.campaigns.SetStatus(ctx, e.broker, c.ID, domain.CampaignActive)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, got.Status)
}

func TestCampaignIllegalTransition(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignDraft, 3)

	// draft cannot jump straight to active or completed
	_, err := e.campaigns.SetStatus(ctx, e.business, c.ID, domain.CampaignActive)
	assert.ErrorIs(t, err, port.ErrInvalidState)
	_, err = e.campaigns.SetStatus(ctx, e.broker, c.ID, domain.CampaignCompleted)
	assert.ErrorIs(t, err, port.ErrInvalidState)

	// terminal states admit nothing
	c2 := e.newCampaign(t, domain.CampaignCompleted, 3)
	_, err = e.campaigns.SetStatus(ctx, e.broker, c2.ID, domain.CampaignActive)
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestCampaignEditBlockedOnceActive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)

	in := validInput()
	in.Title = "Renamed"
	_, err := e.campaigns.Update(ctx, e.business, c.ID, in)
	assert.ErrorIs(t, err, port.ErrInvalidState)

	// the broker may still correct a live campaign
	got, err := e.campaigns.Update(ctx, e.broker, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestCampaignEditOwnershipGate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignDraft, 3)

	otherBiz := e.influencer2
	otherBiz.Role = domain.RoleBusiness
	_, err := e.campaigns.Update(ctx, otherBiz, c.ID, validInput())
	assert.ErrorIs(t, err, port.ErrForbidden)
}

func TestCampaignDeleteGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	active := e.newCampaign(t, domain.CampaignActive, 3)
	err := e.campaigns.Delete(ctx, e.business, active.ID)
	assert.ErrorIs(t, err, port.ErrInvalidState)

	// a draft with no assignments deletes cleanly
	draft := e.newCampaign(t, domain.CampaignDraft, 3)
	err = e.campaigns.Delete(ctx, e.business, draft.ID)
	require.NoError(t, err)
	_, err = e.campaigns.Get(ctx, e.business, draft.ID)
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestCampaignDeleteBlockedByInFlightAssignments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	e.acceptedAssignment(t, c.ID)

	// cancelling does not clear the delete guard while the assignment
	// is still in flight
	_, err := e.campaigns.SetStatus(ctx, e.business, c.ID, domain.CampaignCancelled)
	require.NoError(t, err)
	err = e.campaigns.Delete(ctx, e.business, c.ID)
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestCampaignListScopedToOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.newCampaign(t, domain.CampaignDraft, 3)
	e.newCampaign(t, domain.CampaignActive, 3)

	all, err := e.campaigns.List(ctx, e.broker, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := e.campaigns.List(ctx, e.business, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	active := domain.CampaignActive
	filtered, err := e.campaigns.List(ctx, e.business, &active)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

// contestedCampaigns reports every status write as lost to a
// concurrent writer.
type contestedCampaigns struct {
	port.CampaignRepository
	casWrites int
}

func (r *contestedCampaigns) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CampaignStatus) (bool, error) {
	r.casWrites++
	return false, nil
}

func TestCampaignSetStatusSurfacesLostRace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignDraft, 3)

	contested := &contestedCampaigns{CampaignRepository: e.store.Campaigns()}
	svc := NewCampaignService(contested)

	_, err := svc.SetStatus(ctx, e.business, c.ID, domain.CampaignPendingApproval)
	assert.ErrorIs(t, err, port.ErrConcurrentModification)
	// one retry against fresh state before the conflict surfaces
	assert.Equal(t, casAttempts, contested.casWrites)

	// the campaign itself is untouched
	refreshed, err := e.campaigns.Get(ctx, e.business, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignDraft, refreshed.Status)
}
