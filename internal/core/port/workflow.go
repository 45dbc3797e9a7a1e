package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
)

// Inbound ports: the workflow operations the surrounding transport
// layer invokes. Every mutation takes the acting identity explicitly;
// authorization is the first step of each operation.

// CreateCampaignInput carries the owner-supplied campaign fields.
type CreateCampaignInput struct {
	Title             string
	Description       string
	Budget            decimal.Decimal
	Currency          string
	StartDate         time.Time
	EndDate           time.Time
	Deliverables      []string
	TargetAudience    map[string]any
	ContentGuidelines string
	ApprovalRequired  bool
	MaxInfluencers    int
}

// CampaignWorkflow covers the campaign lifecycle.
type CampaignWorkflow interface {
	Create(ctx context.Context, actor domain.Actor, in CreateCampaignInput) (*domain.Campaign, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Campaign, error)
	List(ctx context.Context, actor domain.Actor, status *domain.CampaignStatus) ([]domain.Campaign, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in CreateCampaignInput) (*domain.Campaign, error)
	// SetStatus performs one legal state-machine transition. Draft
	// campaigns are submitted for approval through it; only the broker
	// moves a campaign out of pending approval.
	SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, to domain.CampaignStatus) (*domain.Campaign, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// AssignmentWorkflow covers assigning influencers and their responses.
type AssignmentWorkflow interface {
	// Create assigns an influencer to a campaign (broker only). The
	// capacity check is atomic with the insert.
	Create(ctx context.Context, actor domain.Actor, campaignID, influencerID uuid.UUID, paymentAmount *decimal.Decimal) (*domain.Assignment, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Assignment, error)
	ListByCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID) ([]domain.Assignment, error)
	ListByInfluencer(ctx context.Context, actor domain.Actor, influencerID uuid.UUID, status *domain.AssignmentStatus) ([]domain.Assignment, error)
	Remove(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	// SetStatus is the influencer's accept/decline, or the broker's
	// administrative completion of an accepted assignment.
	SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, to domain.AssignmentStatus) (*domain.Assignment, error)
	SetPaymentAmount(ctx context.Context, actor domain.Actor, id uuid.UUID, amount decimal.Decimal) (*domain.Assignment, error)
}

// SubmitContentInput carries an influencer's content submission.
type SubmitContentInput struct {
	AssignmentID uuid.UUID
	ContentType  domain.ContentType
	ContentURL   string
	Caption      string
	Platform     domain.Platform
}

// ReviewContentInput carries a reviewer's verdict.
type ReviewContentInput struct {
	Status        domain.SubmissionStatus
	Feedback      string
	RevisionNotes string
}

// ContentWorkflow covers submission and review of content.
type ContentWorkflow interface {
	Submit(ctx context.Context, actor domain.Actor, in SubmitContentInput) (*domain.Submission, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*SubmissionDetail, error)
	ListByCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID, status *domain.SubmissionStatus) ([]domain.Submission, error)
	ListByInfluencer(ctx context.Context, actor domain.Actor, influencerID uuid.UUID) ([]domain.Submission, error)
	Review(ctx context.Context, actor domain.Actor, id uuid.UUID, in ReviewContentInput) (*domain.Submission, error)
}

// InitiatePaymentInput starts a payment for an assignment. ProviderRef
// is the external capture reference; when empty a new one is issued.
type InitiatePaymentInput struct {
	AssignmentID uuid.UUID
	Gross        decimal.Decimal
	Currency     string
	ProviderRef  string
}

// PaymentEvent is a definitive outcome delivered by the provider
// callback. Replays of the same reference must be no-ops.
type PaymentEvent struct {
	ProviderRef string
	Kind        domain.PaymentEventKind
}

// PaymentWorkflow covers fee splitting and external-event application.
type PaymentWorkflow interface {
	Initiate(ctx context.Context, actor domain.Actor, in InitiatePaymentInput) (*domain.Payment, error)
	// ApplyEvent is invoked from the provider callback path; it
	// carries no platform actor.
	ApplyEvent(ctx context.Context, ev PaymentEvent) (*domain.Payment, error)
	History(ctx context.Context, actor domain.Actor) ([]domain.Payment, error)
	Stats(ctx context.Context, actor domain.Actor) (*PaymentStats, error)
}

// NotificationReader is the read/toggle side of notifications; it never
// participates in workflow transitions.
type NotificationReader interface {
	List(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor domain.Actor) error
}

// Dispatcher fans a committed transition out into notification
// records. Implementations are best-effort: they log failures and never
// report them back to the transition, which has already committed.
type Dispatcher interface {
	AssignmentCreated(ctx context.Context, campaign *domain.Campaign, assignment *domain.Assignment)
	ContentSubmitted(ctx context.Context, campaignTitle string, submissionID uuid.UUID, recipients []uuid.UUID)
	ContentReviewed(ctx context.Context, influencerID, submissionID uuid.UUID, status domain.SubmissionStatus)
	PaymentCompleted(ctx context.Context, influencerID, assignmentID uuid.UUID, net decimal.Decimal, campaignTitle string)
}
