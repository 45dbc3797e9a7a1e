package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assignment represents one influencer's participation in one campaign.
// The (campaign, influencer) pair is unique.
type Assignment struct {
	ID            uuid.UUID               `json:"id"`
	CampaignID    uuid.UUID               `json:"campaign_id"`
	InfluencerID  uuid.UUID               `json:"influencer_id"`
	Status        AssignmentStatus        `json:"status"`
	PaymentAmount *decimal.Decimal        `json:"payment_amount,omitempty"`
	PaymentStatus AssignmentPaymentStatus `json:"payment_status"`
	AssignedAt    time.Time               `json:"assigned_at"`
	AcceptedAt    *time.Time              `json:"accepted_at,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
}
