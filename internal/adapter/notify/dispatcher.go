// Package notify turns committed workflow transitions into
// notification records. Dispatch is best-effort and at-least-once: the
// triggering transition has already committed, so storage failures here
// are logged and never propagated back to the caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// Dispatcher implements port.Dispatcher on a notification repository.
type Dispatcher struct {
	repo   port.NotificationRepository
	logger *slog.Logger
}

// NewDispatcher returns a dispatcher writing through repo.
func NewDispatcher(repo port.NotificationRepository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, logger: logger}
}

// AssignmentCreated notifies the influencer of a new assignment.
func (d *Dispatcher) AssignmentCreated(ctx context.Context, campaign *domain.Campaign, assignment *domain.Assignment) {
	d.deliver(ctx, domain.Notification{
		RecipientID: assignment.InfluencerID,
		Title:       "New Campaign Assignment",
		Message:     fmt.Sprintf("You have been assigned to a new campaign: %s", campaign.Title),
		Type:        domain.NotifyCampaignAssigned,
		RelatedID:   campaign.ID,
	})
}

// ContentSubmitted notifies the campaign owner and the brokers that
// content is waiting for review.
func (d *Dispatcher) ContentSubmitted(ctx context.Context, campaignTitle string, submissionID uuid.UUID, recipients []uuid.UUID) {
	for _, recipient := range recipients {
		d.deliver(ctx, domain.Notification{
			RecipientID: recipient,
			Title:       "New Content Submission",
			Message:     fmt.Sprintf("New content submitted for campaign: %s", campaignTitle),
			Type:        domain.NotifyContentSubmitted,
			RelatedID:   submissionID,
		})
	}
}

// ContentReviewed notifies the submitting influencer of the verdict.
func (d *Dispatcher) ContentReviewed(ctx context.Context, influencerID, submissionID uuid.UUID, status domain.SubmissionStatus) {
	var title, message string
	switch status {
	case domain.SubmissionApproved:
		title = "Content Approved"
		message = "Your content submission has been approved!"
	case domain.SubmissionRevisionRequested:
		title = "Content Revision Requested"
		message = "Your content submission needs revisions. Please check the feedback."
	case domain.SubmissionRejected:
		title = "Content Rejected"
		message = "Your content submission has been rejected. Please check the feedback."
	default:
		title = "Content Under Review"
		message = "Your content submission is being reviewed."
	}
	d.deliver(ctx, domain.Notification{
		RecipientID: influencerID,
		Title:       title,
		Message:     message,
		Type:        domain.NotifyContentReviewed,
		RelatedID:   submissionID,
	})
}

// PaymentCompleted notifies the influencer with the net amount.
func (d *Dispatcher) PaymentCompleted(ctx context.Context, influencerID, assignmentID uuid.UUID, net decimal.Decimal, campaignTitle string) {
	d.deliver(ctx, domain.Notification{
		RecipientID: influencerID,
		Title:       "Payment Received",
		Message:     fmt.Sprintf("Payment of $%s received for campaign: %s", net.StringFixed(2), campaignTitle),
		Type:        domain.NotifyPaymentReceived,
		RelatedID:   assignmentID,
	})
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	n.ID = uuid.New()
	if err := d.repo.Create(ctx, &n); err != nil {
		d.logger.Error("notification dispatch failed",
			slog.String("type", string(n.Type)),
			slog.String("recipient", n.RecipientID.String()),
			slog.Any("error", err))
	}
}
