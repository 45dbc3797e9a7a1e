// Package usecase implements the workflow engine. Each service method
// follows the same shape: authorize the actor, load current state,
// validate the transition against the state-machine tables, persist
// through a guarded write, then hand the committed outcome to the
// notification dispatcher.
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/policy"
	"brandreach/internal/core/port"
)

// CampaignService implements port.CampaignWorkflow.
type CampaignService struct {
	campaigns port.CampaignRepository
}

// NewCampaignService creates the campaign workflow service.
func NewCampaignService(campaigns port.CampaignRepository) *CampaignService {
	return &CampaignService{campaigns: campaigns}
}

// Create opens a new campaign in draft for the acting business.
func (s *CampaignService) Create(ctx context.Context, actor domain.Actor, in port.CreateCampaignInput) (*domain.Campaign, error) {
	if err := policy.Authorize(actor, policy.CampaignCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	c := &domain.Campaign{
		ID:                uuid.New(),
		BusinessID:        actor.ID,
		Title:             in.Title,
		Description:       in.Description,
		Budget:            in.Budget,
		Currency:          in.Currency,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		Deliverables:      in.Deliverables,
		TargetAudience:    in.TargetAudience,
		ContentGuidelines: in.ContentGuidelines,
		ApprovalRequired:  in.ApprovalRequired,
		MaxInfluencers:    in.MaxInfluencers,
		Status:            domain.CampaignDraft,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one campaign visible to the actor.
func (s *CampaignService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, id)
	}
	if err := policy.Authorize(actor, policy.CampaignView, policy.Resource{CampaignOwnerID: c.BusinessID}); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns campaigns scoped to the actor's role: businesses see
// their own, everyone else sees all.
func (s *CampaignService) List(ctx context.Context, actor domain.Actor, status *domain.CampaignStatus) ([]domain.Campaign, error) {
	f := port.CampaignFilter{Status: status}
	if actor.Role == domain.RoleBusiness {
		id := actor.ID
		f.BusinessID = &id
	}
	return s.campaigns.List(ctx, f)
}

// Update rewrites the owner-editable fields. Owners are shut out once
// the campaign is active; the broker may still correct a live one.
func (s *CampaignService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in port.CreateCampaignInput) (*domain.Campaign, error) {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, id)
	}
	if err := policy.Authorize(actor, policy.CampaignEdit, policy.Resource{CampaignOwnerID: c.BusinessID}); err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleBroker && !c.Editable() {
		return nil, fmt.Errorf("%w: campaign is %s and can no longer be edited", port.ErrInvalidState, c.Status)
	}

	c.Title = in.Title
	c.Description = in.Description
	c.Budget = in.Budget
	c.Currency = in.Currency
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.Deliverables = in.Deliverables
	c.TargetAudience = in.TargetAudience
	c.ContentGuidelines = in.ContentGuidelines
	c.ApprovalRequired = in.ApprovalRequired
	c.MaxInfluencers = in.MaxInfluencers
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetStatus performs one legal campaign transition. Moving a campaign
// out of pending_approval (to active or cancelled) is the broker's
// approval decision; every other legal transition is open to the owner
// as well.
func (s *CampaignService) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, to domain.CampaignStatus) (*domain.Campaign, error) {
	if !to.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown campaign status %q", to))
	}
	var c *domain.Campaign
	err := withRetry(ctx, func(ctx context.Context) (bool, error) {
		var err error
		c, err = s.campaigns.Get(ctx, id)
		if err != nil {
			return false, err
		}
		if c == nil {
			return false, fmt.Errorf("%w: campaign %s", port.ErrNotFound, id)
		}

		action := policy.CampaignTransition
		if c.Status == domain.CampaignPendingApproval {
			action = policy.CampaignApprove
		}
		if err := policy.Authorize(actor, action, policy.Resource{CampaignOwnerID: c.BusinessID}); err != nil {
			return false, err
		}
		if !c.Status.CanTransition(to) {
			return false, fmt.Errorf("%w: campaign cannot go from %s to %s", port.ErrInvalidState, c.Status, to)
		}
		return s.campaigns.UpdateStatus(ctx, id, c.Status, to)
	})
	if err != nil {
		return nil, err
	}
	c.Status = to
	return c, nil
}

// Delete removes a campaign that is not active and has no in-flight
// assignments.
func (s *CampaignService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: campaign %s", port.ErrNotFound, id)
	}
	if err := policy.Authorize(actor, policy.CampaignDelete, policy.Resource{CampaignOwnerID: c.BusinessID}); err != nil {
		return err
	}
	if c.Status == domain.CampaignActive {
		return fmt.Errorf("%w: cannot delete active campaign", port.ErrInvalidState)
	}
	return s.campaigns.Delete(ctx, id)
}
