// Package policy decides whether an actor may perform a workflow
// action on an entity. Authorize is a pure function over the actor,
// the action and the ownership facts of the target; it never touches
// storage. Broker actors bypass ownership checks for administrative
// actions, businesses act on campaigns they own, influencers act on
// assignments that name them.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// Action enumerates every gated workflow mutation.
type Action string

const (
	CampaignCreate     Action = "campaign.create"
	CampaignEdit       Action = "campaign.edit"
	CampaignApprove    Action = "campaign.approve" // move out of pending_approval
	CampaignTransition Action = "campaign.transition"
	CampaignDelete     Action = "campaign.delete"
	CampaignView       Action = "campaign.view"

	AssignmentCreate   Action = "assignment.create"
	AssignmentRemove   Action = "assignment.remove"
	AssignmentRespond  Action = "assignment.respond" // accept / decline
	AssignmentComplete Action = "assignment.complete"
	AssignmentSetPay   Action = "assignment.set_payment"
	AssignmentView     Action = "assignment.view"

	ContentSubmit Action = "content.submit"
	ContentReview Action = "content.review"
	ContentView   Action = "content.view"

	PaymentInitiate Action = "payment.initiate"
	PaymentStats    Action = "payment.stats"
)

// Resource carries the ownership facts Authorize needs. Zero-value
// fields mean "not applicable" for the action being checked.
type Resource struct {
	CampaignOwnerID uuid.UUID
	InfluencerID    uuid.UUID
}

// Authorize returns nil when actor may perform action on the resource,
// or an error wrapping port.ErrForbidden naming the denial reason.
func Authorize(actor domain.Actor, action Action, res Resource) error {
	if !actor.Role.Valid() {
		return deny("unknown role %q", actor.Role)
	}

	switch action {
	case CampaignCreate:
		if actor.Role != domain.RoleBusiness {
			return deny("only businesses create campaigns")
		}

	case CampaignEdit, CampaignDelete:
		if actor.Role == domain.RoleBroker {
			return nil
		}
		return requireOwner(actor, res)

	case CampaignApprove:
		if actor.Role != domain.RoleBroker {
			return deny("only the broker approves or rejects campaigns")
		}

	case CampaignTransition:
		if actor.Role == domain.RoleBroker {
			return nil
		}
		return requireOwner(actor, res)

	case CampaignView, AssignmentView, ContentView:
		switch actor.Role {
		case domain.RoleBroker:
			return nil
		case domain.RoleBusiness:
			if res.CampaignOwnerID == uuid.Nil || res.CampaignOwnerID == actor.ID {
				return nil
			}
			return deny("campaign belongs to another business")
		case domain.RoleInfluencer:
			if res.InfluencerID == uuid.Nil || res.InfluencerID == actor.ID {
				return nil
			}
			return deny("assignment belongs to another influencer")
		}

	case AssignmentCreate, AssignmentRemove, AssignmentComplete:
		if actor.Role != domain.RoleBroker {
			return deny("broker-only administrative action")
		}

	case AssignmentSetPay:
		if actor.Role != domain.RoleBroker {
			return deny("only the broker sets payment amounts")
		}

	case AssignmentRespond, ContentSubmit:
		if actor.Role != domain.RoleInfluencer {
			return deny("influencer-only action")
		}
		if res.InfluencerID != actor.ID {
			return deny("assignment belongs to another influencer")
		}

	case ContentReview:
		if actor.Role == domain.RoleBroker {
			return nil
		}
		return requireOwner(actor, res)

	case PaymentInitiate:
		if actor.Role == domain.RoleBroker {
			return nil
		}
		return requireOwner(actor, res)

	case PaymentStats:
		if actor.Role != domain.RoleBroker {
			return deny("broker-only statistics")
		}

	default:
		return deny("unknown action %q", action)
	}
	return nil
}

func requireOwner(actor domain.Actor, res Resource) error {
	if actor.Role != domain.RoleBusiness {
		return deny("business-only action")
	}
	if res.CampaignOwnerID != actor.ID {
		return deny("campaign belongs to another business")
	}
	return nil
}

func deny(format string, args ...any) error {
	return fmt.Errorf("%w: %s", port.ErrForbidden, fmt.Sprintf(format, args...))
}
