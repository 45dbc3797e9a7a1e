package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
)

// Outbound persistence ports. Implementations must be concurrency-safe:
// many callers mutate the same rows with no single-writer assumption.
// Guarded writes (status CAS, capacity check-and-insert) are the
// store's responsibility; everything else is plain CRUD. Lookups return
// (nil, nil) when the entity does not exist.

// CampaignFilter narrows campaign listings.
type CampaignFilter struct {
	BusinessID *uuid.UUID
	Status     *domain.CampaignStatus
}

// CampaignRepository persists campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	List(ctx context.Context, f CampaignFilter) ([]domain.Campaign, error)
	// Update rewrites the editable fields. The caller has already
	// checked the lifecycle allows editing.
	Update(ctx context.Context, c *domain.Campaign) error
	// UpdateStatus performs a compare-and-swap write guarded by the
	// status read by the caller. It reports whether a row matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CampaignStatus) (bool, error)
	// Delete removes the campaign. It fails with ErrInvalidState when
	// any in-flight (assigned or accepted) assignment still references
	// it, so assignments are never orphaned mid-lifecycle.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssignmentRepository persists campaign assignments.
type AssignmentRepository interface {
	// Create runs the capacity-guarded insert as one serializable
	// unit: lock the campaign row, re-check the campaign is not
	// completed, verify no duplicate (campaign, influencer) pair,
	// count non-declined assignments against max influencers, insert.
	// Failures map to ErrNotFound, ErrInvalidState,
	// ErrDuplicateAssignment and ErrCapacityExceeded.
	Create(ctx context.Context, a *domain.Assignment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Assignment, error)
	ListByInfluencer(ctx context.Context, influencerID uuid.UUID, status *domain.AssignmentStatus) ([]domain.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateStatus is a CAS write; the store stamps accepted_at or
	// completed_at when the target status calls for it.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AssignmentStatus) (bool, error)
	// SetPaymentAmount overwrites the negotiated amount. Reports
	// whether the assignment exists.
	SetPaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}

// SubmissionDetail joins a submission with the ownership context needed
// for review authorization and notification routing.
type SubmissionDetail struct {
	Submission    domain.Submission `json:"submission"`
	CampaignID    uuid.UUID         `json:"campaign_id"`
	CampaignTitle string            `json:"campaign_title"`
	BusinessID    uuid.UUID         `json:"business_id"`
	InfluencerID  uuid.UUID         `json:"influencer_id"`
}

// SubmissionRepository persists content submissions.
type SubmissionRepository interface {
	// Create inserts the submission only while the owning assignment
	// is accepted; otherwise ErrInvalidState (ErrNotFound when the
	// assignment is missing). The check and insert are atomic.
	Create(ctx context.Context, s *domain.Submission) error
	GetDetail(ctx context.Context, id uuid.UUID) (*SubmissionDetail, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, status *domain.SubmissionStatus) ([]domain.Submission, error)
	ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]domain.Submission, error)
	// Review applies a CAS review write stamping reviewer and time.
	Review(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus, reviewerID uuid.UUID, feedback, revisionNotes string) (bool, error)
}

// PaymentHistoryFilter scopes payment history to a role's visibility.
type PaymentHistoryFilter struct {
	BusinessID   *uuid.UUID
	InfluencerID *uuid.UUID
}

// PaymentStats aggregates payments for the broker dashboard.
type PaymentStats struct {
	Total      int64           `json:"total"`
	Completed  int64           `json:"completed"`
	Pending    int64           `json:"pending"`
	Failed     int64           `json:"failed"`
	GrossTotal decimal.Decimal `json:"gross_total"`
	FeeTotal   decimal.Decimal `json:"fee_total"`
	NetTotal   decimal.Decimal `json:"net_total"`
}

// PaymentRepository persists payment attempts. The provider reference
// is unique, which makes applying external events safe under replay.
// The assignment's payment status always moves in the same transaction
// as the payment row, so the two can never be observed out of step.
type PaymentRepository interface {
	// Create inserts a pending payment and moves the assignment's
	// payment status to processing, atomically. A reused provider
	// reference fails with ErrExternalProvider; a missing assignment
	// with ErrNotFound.
	Create(ctx context.Context, p *domain.Payment) error
	GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error)
	ListHistory(ctx context.Context, f PaymentHistoryFilter) ([]domain.Payment, error)
	Stats(ctx context.Context) (*PaymentStats, error)
	// MarkCompleted flips pending to completed, stamps processed_at
	// and marks the assignment paid, all in one transaction. It
	// returns the payment row and whether this call applied the
	// transition; a replayed event returns (row, false).
	MarkCompleted(ctx context.Context, providerRef string, at time.Time) (*domain.Payment, bool, error)
	// MarkFailed flips pending to failed and resets the assignment to
	// unpaid so the payment can be retried, with the same idempotency
	// contract as MarkCompleted.
	MarkFailed(ctx context.Context, providerRef string) (*domain.Payment, bool, error)
}

// NotificationRepository persists notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error)
	// MarkRead flips the read flag; it reports whether a notification
	// belonging to the recipient matched.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

// UserRepository reads platform accounts. Account provisioning belongs
// to the excluded identity subsystem; the workflow core only looks
// users up.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}
