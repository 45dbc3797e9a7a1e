package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Campaign is a marketing campaign commissioned by a business. Money
// amounts use decimals to keep fee arithmetic exact.
type Campaign struct {
	ID                uuid.UUID       `json:"id"`
	BusinessID        uuid.UUID       `json:"business_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Budget            decimal.Decimal `json:"budget"`
	Currency          string          `json:"currency"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Deliverables      []string        `json:"deliverables"`
	TargetAudience    map[string]any  `json:"target_audience"`
	ContentGuidelines string          `json:"content_guidelines"`
	ApprovalRequired  bool            `json:"approval_required"`
	MaxInfluencers    int             `json:"max_influencers"`
	Status            CampaignStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Editable reports whether the campaign's commercial terms (title,
// budget, dates, deliverables) may still be changed by its owner.
// Editing stops once the campaign goes active.
func (c *Campaign) Editable() bool {
	switch c.Status {
	case CampaignDraft, CampaignPendingApproval:
		return true
	}
	return false
}

// Validate checks the field-level invariants that hold for every
// campaign regardless of lifecycle state.
func (c *Campaign) Validate() error {
	if c.Title == "" {
		return ValidationError("title is required")
	}
	if !c.Budget.IsPositive() {
		return ValidationError("budget must be positive")
	}
	if len(c.Currency) != 3 {
		return ValidationError("currency must be a 3-letter code")
	}
	if c.EndDate.Before(c.StartDate) {
		return ValidationError("end date must not precede start date")
	}
	if c.MaxInfluencers < 1 {
		return ValidationError("max influencers must be at least 1")
	}
	return nil
}

// ValidationError marks a field-level input problem. It is distinct
// from the lifecycle error taxonomy in the port package.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
