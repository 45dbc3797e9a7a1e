package policy

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func TestAuthorize(t *testing.T) {
	ownerID := uuid.New()
	influencerID := uuid.New()
	broker := domain.Actor{ID: uuid.New(), Role: domain.RoleBroker}
	owner := domain.Actor{ID: ownerID, Role: domain.RoleBusiness}
	otherBiz := domain.Actor{ID: uuid.New(), Role: domain.RoleBusiness}
	influencer := domain.Actor{ID: influencerID, Role: domain.RoleInfluencer}
	otherInf := domain.Actor{ID: uuid.New(), Role: domain.RoleInfluencer}

	owned := Resource{CampaignOwnerID: ownerID, InfluencerID: influencerID}

	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		res    Resource
		allow  bool
	}{
		{"business creates campaign", owner, CampaignCreate, Resource{}, true},
		{"influencer cannot create campaign", influencer, CampaignCreate, Resource{}, false},
		{"broker cannot create campaign", broker, CampaignCreate, Resource{}, false},

		{"owner edits own campaign", owner, CampaignEdit, owned, true},
		{"other business cannot edit", otherBiz, CampaignEdit, owned, false},
		{"broker edits any campaign", broker, CampaignEdit, owned, true},
		{"influencer cannot edit", influencer, CampaignEdit, owned, false},

		{"broker approves", broker, CampaignApprove, owned, true},
		{"owner cannot approve own campaign", owner, CampaignApprove, owned, false},

		{"owner transitions own campaign", owner, CampaignTransition, owned, true},
		{"other business cannot transition", otherBiz, CampaignTransition, owned, false},

		{"owner deletes own campaign", owner, CampaignDelete, owned, true},
		{"broker deletes any campaign", broker, CampaignDelete, owned, true},

		{"broker assigns", broker, AssignmentCreate, Resource{}, true},
		{"business cannot assign", owner, AssignmentCreate, Resource{}, false},
		{"influencer cannot assign", influencer, AssignmentCreate, Resource{}, false},

		{"named influencer responds", influencer, AssignmentRespond, owned, true},
		{"other influencer cannot respond", otherInf, AssignmentRespond, owned, false},
		{"broker cannot respond for influencer", broker, AssignmentRespond, owned, false},

		{"broker completes assignment", broker, AssignmentComplete, owned, true},
		{"influencer cannot complete", influencer, AssignmentComplete, owned, false},

		{"broker sets payment amount", broker, AssignmentSetPay, Resource{}, true},
		{"owner cannot set payment amount", owner, AssignmentSetPay, Resource{}, false},

		{"named influencer submits content", influencer, ContentSubmit, owned, true},
		{"other influencer cannot submit", otherInf, ContentSubmit, owned, false},

		{"owner reviews content", owner, ContentReview, owned, true},
		{"broker reviews content", broker, ContentReview, owned, true},
		{"other business cannot review", otherBiz, ContentReview, owned, false},
		{"influencer cannot review", influencer, ContentReview, owned, false},

		{"owner initiates payment", owner, PaymentInitiate, owned, true},
		{"broker initiates payment", broker, PaymentInitiate, owned, true},
		{"influencer cannot initiate payment", influencer, PaymentInitiate, owned, false},
		{"other business cannot initiate payment", otherBiz, PaymentInitiate, owned, false},

		{"broker reads stats", broker, PaymentStats, Resource{}, true},
		{"business cannot read stats", owner, PaymentStats, Resource{}, false},

		{"broker views anything", broker, CampaignView, owned, true},
		{"owner views own", owner, CampaignView, owned, true},
		{"other business blocked from view", otherBiz, CampaignView, owned, false},
		{"named influencer views", influencer, AssignmentView, owned, true},
		{"other influencer blocked from view", otherInf, AssignmentView, owned, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.res)
			if tc.allow {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, port.ErrForbidden), "want ErrForbidden, got %v", err)
			}
		})
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	err := Authorize(domain.Actor{ID: uuid.New(), Role: "admin"}, CampaignView, Resource{})
	assert.ErrorIs(t, err, port.ErrForbidden)
}
