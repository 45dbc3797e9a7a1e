package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/policy"
	"brandreach/internal/core/port"
)

// AssignmentService implements port.AssignmentWorkflow.
type AssignmentService struct {
	assignments port.AssignmentRepository
	campaigns   port.CampaignRepository
	users       port.UserRepository
	dispatcher  port.Dispatcher
}

// NewAssignmentService creates the assignment workflow service.
func NewAssignmentService(assignments port.AssignmentRepository, campaigns port.CampaignRepository, users port.UserRepository, dispatcher port.Dispatcher) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		campaigns:   campaigns,
		users:       users,
		dispatcher:  dispatcher,
	}
}

// Create assigns an influencer to a campaign. The store runs the
// capacity check atomically with the insert; the checks here only give
// early, well-typed answers for the common failures.
func (s *AssignmentService) Create(ctx context.Context, actor domain.Actor, campaignID, influencerID uuid.UUID, paymentAmount *decimal.Decimal) (*domain.Assignment, error) {
	if err := policy.Authorize(actor, policy.AssignmentCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	if paymentAmount != nil && !paymentAmount.IsPositive() {
		return nil, domain.ValidationError("payment amount must be positive")
	}

	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, campaignID)
	}
	if campaign.Status == domain.CampaignCompleted {
		return nil, fmt.Errorf("%w: campaign is completed", port.ErrInvalidState)
	}

	influencer, err := s.users.Get(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	if influencer == nil || influencer.Role != domain.RoleInfluencer || !influencer.Active {
		return nil, fmt.Errorf("%w: influencer %s not found or inactive", port.ErrNotFound, influencerID)
	}

	a := &domain.Assignment{
		ID:            uuid.New(),
		CampaignID:    campaignID,
		InfluencerID:  influencerID,
		Status:        domain.AssignmentAssigned,
		PaymentAmount: paymentAmount,
		PaymentStatus: domain.AssignmentUnpaid,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.dispatcher.AssignmentCreated(ctx, campaign, a)
	return a, nil
}

// Get returns one assignment visible to the actor.
func (s *AssignmentService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Assignment, error) {
	a, err := s.assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
	}
	campaign, err := s.campaigns.Get(ctx, a.CampaignID)
	if err != nil {
		return nil, err
	}
	res := policy.Resource{InfluencerID: a.InfluencerID}
	if campaign != nil {
		res.CampaignOwnerID = campaign.BusinessID
	}
	if err := policy.Authorize(actor, policy.AssignmentView, res); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByCampaign returns a campaign's assignments.
func (s *AssignmentService) ListByCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID) ([]domain.Assignment, error) {
	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, campaignID)
	}
	if err := policy.Authorize(actor, policy.AssignmentView, policy.Resource{CampaignOwnerID: campaign.BusinessID}); err != nil {
		return nil, err
	}
	return s.assignments.ListByCampaign(ctx, campaignID)
}

// ListByInfluencer returns an influencer's assignments.
func (s *AssignmentService) ListByInfluencer(ctx context.Context, actor domain.Actor, influencerID uuid.UUID, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	if err := policy.Authorize(actor, policy.AssignmentView, policy.Resource{InfluencerID: influencerID}); err != nil {
		return nil, err
	}
	return s.assignments.ListByInfluencer(ctx, influencerID, status)
}

// Remove deletes an assignment that has not completed.
func (s *AssignmentService) Remove(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := policy.Authorize(actor, policy.AssignmentRemove, policy.Resource{}); err != nil {
		return err
	}
	a, err := s.assignments.Get(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
	}
	if a.Status == domain.AssignmentCompleted {
		return fmt.Errorf("%w: cannot remove completed assignment", port.ErrInvalidState)
	}
	return s.assignments.Delete(ctx, id)
}

// SetStatus is the influencer's accept/decline on an assigned
// assignment, or the broker completing an accepted one.
func (s *AssignmentService) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, to domain.AssignmentStatus) (*domain.Assignment, error) {
	if !to.Valid() || to == domain.AssignmentAssigned {
		return nil, domain.ValidationError(fmt.Sprintf("invalid target status %q", to))
	}
	err := withRetry(ctx, func(ctx context.Context) (bool, error) {
		a, err := s.assignments.Get(ctx, id)
		if err != nil {
			return false, err
		}
		if a == nil {
			return false, fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
		}

		action := policy.AssignmentRespond
		if to == domain.AssignmentCompleted {
			action = policy.AssignmentComplete
		}
		if err := policy.Authorize(actor, action, policy.Resource{InfluencerID: a.InfluencerID}); err != nil {
			return false, err
		}
		if !a.Status.CanTransition(to) {
			return false, fmt.Errorf("%w: assignment cannot go from %s to %s", port.ErrInvalidState, a.Status, to)
		}
		return s.assignments.UpdateStatus(ctx, id, a.Status, to)
	})
	if err != nil {
		return nil, err
	}
	a, err := s.assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		// Removed between the status write and the re-read.
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
	}
	return a, nil
}

// SetPaymentAmount overwrites the negotiated amount (broker only).
func (s *AssignmentService) SetPaymentAmount(ctx context.Context, actor domain.Actor, id uuid.UUID, amount decimal.Decimal) (*domain.Assignment, error) {
	if err := policy.Authorize(actor, policy.AssignmentSetPay, policy.Resource{}); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.ValidationError("payment amount must be positive")
	}
	ok, err := s.assignments.SetPaymentAmount(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
	}
	a, err := s.assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, id)
	}
	return a, nil
}
