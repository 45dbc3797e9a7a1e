package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func TestAssignmentCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)

	amount := decimal.NewFromInt(500)
	a, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, &amount)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentAssigned, a.Status)
	assert.Equal(t, domain.AssignmentUnpaid, a.PaymentStatus)
	require.NotNil(t, a.PaymentAmount)
	assert.True(t, a.PaymentAmount.Equal(amount))

	// the influencer hears about it exactly once
	got := e.notificationsOf(t, e.influencer, domain.NotifyCampaignAssigned)
	require.Len(t, got, 1)
	assert.Equal(t, "New Campaign Assignment", got[0].Title)
}

func TestAssignmentCreateGates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)

	_, err := e.assignments.Create(ctx, e.business, c.ID, e.influencer.ID, nil)
	assert.ErrorIs(t, err, port.ErrForbidden)

	_, err = e.assignments.Create(ctx, e.broker, uuid.New(), e.influencer.ID, nil)
	assert.ErrorIs(t, err, port.ErrNotFound)

	// assigning a business account as the influencer fails
	_, err = e.assignments.Create(ctx, e.broker, c.ID, e.business.ID, nil)
	assert.ErrorIs(t, err, port.ErrNotFound)

	neg := decimal.NewFromInt(-1)
	_, err = e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, &neg)
	var ve domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	done := e.newCampaign(t, domain.CampaignCompleted, 3)
	_, err = e.assignments.Create(ctx, e.broker, done.ID, e.influencer.ID, nil)
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestAssignmentDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 5)

	_, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)
	_, err = e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	assert.ErrorIs(t, err, port.ErrDuplicateAssignment)
}

func TestAssignmentCapacity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 1)

	_, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)
	_, err = e.assignments.Create(ctx, e.broker, c.ID, e.influencer2.ID, nil)
	assert.ErrorIs(t, err, port.ErrCapacityExceeded)
}

func TestAssignmentCapacityFreedByDecline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 1)

	a, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)
	_, err = e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentDeclined)
	require.NoError(t, err)

	// the declined slot is free again
	_, err = e.assignments.Create(ctx, e.broker, c.ID, e.influencer2.ID, nil)
	require.NoError(t, err)
}

// TestAssignmentCapacityRace races many concurrent assigns at a single
// slot; exactly one must win.
func TestAssignmentCapacityRace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 1)

	const n = 32
	influencers := make([]uuid.UUID, n)
	for i := range influencers {
		u := domain.User{ID: uuid.New(), Email: "", Role: domain.RoleInfluencer, Active: true}
		e.store.AddUser(u)
		influencers[i] = u.ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		refused int
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(influencerID uuid.UUID) {
			defer wg.Done()
			_, err := e.assignments.Create(ctx, e.broker, c.ID, influencerID, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, port.ErrCapacityExceeded):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(influencers[i])
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, refused)

	got, err := e.assignments.ListByCampaign(ctx, e.broker, c.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAssignmentAcceptDecline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)

	// only the named influencer may respond
	_, err = e.assignments.SetStatus(ctx, e.influencer2, a.ID, domain.AssignmentAccepted)
	assert.ErrorIs(t, err, port.ErrForbidden)
	_, err = e.assignments.SetStatus(ctx, e.business, a.ID, domain.AssignmentAccepted)
	assert.ErrorIs(t, err, port.ErrForbidden)

	got, err := e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentAccepted, got.Status)
	assert.NotNil(t, got.AcceptedAt)

	// accepted cannot be declined afterward
	_, err = e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentDeclined)
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestAssignmentBrokerCompletes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)

	// influencers cannot complete their own assignment
	_, err := e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentCompleted)
	assert.ErrorIs(t, err, port.ErrForbidden)

	got, err := e.assignments.SetStatus(ctx, e.broker, a.ID, domain.AssignmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestAssignmentRemove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)

	err := e.assignments.Remove(ctx, e.business, a.ID)
	assert.ErrorIs(t, err, port.ErrForbidden)

	_, err = e.assignments.SetStatus(ctx, e.broker, a.ID, domain.AssignmentCompleted)
	require.NoError(t, err)
	err = e.assignments.Remove(ctx, e.broker, a.ID)
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestAssignmentSetPaymentAmount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)

	_, err := e.assignments.SetPaymentAmount(ctx, e.business, a.ID, decimal.NewFromInt(750))
	assert.ErrorIs(t, err, port.ErrForbidden)

	got, err := e.assignments.SetPaymentAmount(ctx, e.broker, a.ID, decimal.NewFromInt(750))
	require.NoError(t, err)
	require.NotNil(t, got.PaymentAmount)
	assert.True(t, got.PaymentAmount.Equal(decimal.NewFromInt(750)))

	_, err = e.assignments.SetPaymentAmount(ctx, e.broker, uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, port.ErrNotFound)
}

// vanishingAssignments deletes the row as soon as a status write
// lands, as a concurrent broker removal would.
type vanishingAssignments struct {
	port.AssignmentRepository
}

func (r vanishingAssignments) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AssignmentStatus) (bool, error) {
	ok, err := r.AssignmentRepository.UpdateStatus(ctx, id, from, to)
	if ok {
		_ = r.AssignmentRepository.Delete(ctx, id)
	}
	return ok, err
}

func TestAssignmentSetStatusAfterConcurrentRemoval(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)

	svc := NewAssignmentService(vanishingAssignments{e.store.Assignments()},
		e.store.Campaigns(), e.store.Users(), e.assignments.dispatcher)

	got, err := svc.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentAccepted)
	assert.ErrorIs(t, err, port.ErrNotFound)
	assert.Nil(t, got)
}
