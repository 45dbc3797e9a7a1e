package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/policy"
	"brandreach/internal/core/port"
)

// ContentService implements port.ContentWorkflow.
type ContentService struct {
	submissions port.SubmissionRepository
	assignments port.AssignmentRepository
	campaigns   port.CampaignRepository
	users       port.UserRepository
	dispatcher  port.Dispatcher
	logger      *slog.Logger
}

// NewContentService creates the content workflow service.
func NewContentService(submissions port.SubmissionRepository, assignments port.AssignmentRepository, campaigns port.CampaignRepository, users port.UserRepository, dispatcher port.Dispatcher, logger *slog.Logger) *ContentService {
	return &ContentService{
		submissions: submissions,
		assignments: assignments,
		campaigns:   campaigns,
		users:       users,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Submit records new content against an accepted assignment. The
// accepted-state check is re-run atomically with the insert by the
// store.
func (s *ContentService) Submit(ctx context.Context, actor domain.Actor, in port.SubmitContentInput) (*domain.Submission, error) {
	if !in.ContentType.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown content type %q", in.ContentType))
	}
	if !in.Platform.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown platform %q", in.Platform))
	}
	if in.ContentURL == "" {
		return nil, domain.ValidationError("content URL is required")
	}

	a, err := s.assignments.Get(ctx, in.AssignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, in.AssignmentID)
	}
	if err := policy.Authorize(actor, policy.ContentSubmit, policy.Resource{InfluencerID: a.InfluencerID}); err != nil {
		return nil, err
	}
	if a.Status != domain.AssignmentAccepted {
		return nil, fmt.Errorf("%w: assignment is %s, not accepted", port.ErrInvalidState, a.Status)
	}

	sub := &domain.Submission{
		ID:           uuid.New(),
		AssignmentID: in.AssignmentID,
		ContentType:  in.ContentType,
		ContentURL:   in.ContentURL,
		Caption:      in.Caption,
		Platform:     in.Platform,
		Status:       domain.SubmissionSubmitted,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.notifySubmitted(ctx, a.CampaignID, sub.ID)
	return sub, nil
}

// notifySubmitted fans the submission out to the campaign owner and
// every broker. The submission has already committed, so recipient
// lookup failures degrade to fewer recipients and are logged rather
// than propagated.
func (s *ContentService) notifySubmitted(ctx context.Context, campaignID, submissionID uuid.UUID) {
	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil || campaign == nil {
		s.logger.Error("submission notification dropped: campaign lookup failed",
			slog.String("campaign_id", campaignID.String()),
			slog.String("submission_id", submissionID.String()),
			slog.Any("error", err))
		return
	}
	recipients := []uuid.UUID{campaign.BusinessID}
	if brokers, err := s.users.ListByRole(ctx, domain.RoleBroker); err == nil {
		for _, b := range brokers {
			recipients = append(recipients, b.ID)
		}
	} else {
		s.logger.Error("submission notification skipped brokers: lookup failed",
			slog.String("submission_id", submissionID.String()),
			slog.Any("error", err))
	}
	s.dispatcher.ContentSubmitted(ctx, campaign.Title, submissionID, recipients)
}

// Get returns one submission with its ownership context.
func (s *ContentService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*port.SubmissionDetail, error) {
	d, err := s.submissions.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: submission %s", port.ErrNotFound, id)
	}
	res := policy.Resource{CampaignOwnerID: d.BusinessID, InfluencerID: d.InfluencerID}
	if err := policy.Authorize(actor, policy.ContentView, res); err != nil {
		return nil, err
	}
	return d, nil
}

// ListByCampaign returns a campaign's submissions.
func (s *ContentService) ListByCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID, status *domain.SubmissionStatus) ([]domain.Submission, error) {
	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, campaignID)
	}
	if err := policy.Authorize(actor, policy.ContentView, policy.Resource{CampaignOwnerID: campaign.BusinessID}); err != nil {
		return nil, err
	}
	return s.submissions.ListByCampaign(ctx, campaignID, status)
}

// ListByInfluencer returns an influencer's submissions.
func (s *ContentService) ListByInfluencer(ctx context.Context, actor domain.Actor, influencerID uuid.UUID) ([]domain.Submission, error) {
	if err := policy.Authorize(actor, policy.ContentView, policy.Resource{InfluencerID: influencerID}); err != nil {
		return nil, err
	}
	return s.submissions.ListByInfluencer(ctx, influencerID)
}

// Review applies a reviewer's verdict. Approving content also marks
// the owning assignment completed. Exactly one notification goes to
// the submitting influencer per applied review.
func (s *ContentService) Review(ctx context.Context, actor domain.Actor, id uuid.UUID, in port.ReviewContentInput) (*domain.Submission, error) {
	if !in.Status.ReviewOutcome() {
		return nil, domain.ValidationError(fmt.Sprintf("%q is not a review outcome", in.Status))
	}
	if in.Status == domain.SubmissionRevisionRequested && strings.TrimSpace(in.Feedback) == "" {
		return nil, domain.ValidationError("revision requests require feedback")
	}

	var detail *port.SubmissionDetail
	err := withRetry(ctx, func(ctx context.Context) (bool, error) {
		var err error
		detail, err = s.submissions.GetDetail(ctx, id)
		if err != nil {
			return false, err
		}
		if detail == nil {
			return false, fmt.Errorf("%w: submission %s", port.ErrNotFound, id)
		}
		if err := policy.Authorize(actor, policy.ContentReview, policy.Resource{CampaignOwnerID: detail.BusinessID}); err != nil {
			return false, err
		}
		if detail.Submission.Status.Terminal() {
			return false, fmt.Errorf("%w: submission is %s", port.ErrAlreadyReviewed, detail.Submission.Status)
		}
		if !detail.Submission.Status.CanTransition(in.Status) {
			return false, fmt.Errorf("%w: submission cannot go from %s to %s", port.ErrInvalidState, detail.Submission.Status, in.Status)
		}
		return s.submissions.Review(ctx, id, detail.Submission.Status, in.Status, actor.ID, in.Feedback, in.RevisionNotes)
	})
	if err != nil {
		return nil, err
	}

	if in.Status == domain.SubmissionApproved {
		// Approved content completes the work; a lost race means a
		// concurrent actor already moved the assignment on.
		_, _ = s.assignments.UpdateStatus(ctx, detail.Submission.AssignmentID,
			domain.AssignmentAccepted, domain.AssignmentCompleted)
	}
	s.dispatcher.ContentReviewed(ctx, detail.InfluencerID, id, in.Status)

	reviewed, err := s.submissions.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviewed == nil {
		return nil, fmt.Errorf("%w: submission %s", port.ErrNotFound, id)
	}
	return &reviewed.Submission, nil
}
