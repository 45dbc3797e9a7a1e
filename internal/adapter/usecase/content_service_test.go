package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func submitInput(assignmentID uuid.UUID) port.SubmitContentInput {
	return port.SubmitContentInput{
		AssignmentID: assignmentID,
		ContentType:  domain.ContentReel,
		ContentURL:   "https://cdn.example.com/reel.mp4",
		Caption:      "spring look",
		Platform:     domain.PlatformInstagram,
	}
}

func TestContentSubmit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)

	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSubmitted, sub.Status)

	// owner and broker each hear about it
	require.Len(t, e.notificationsOf(t, e.business, domain.NotifyContentSubmitted), 1)
	require.Len(t, e.notificationsOf(t, e.broker, domain.NotifyContentSubmitted), 1)
	assert.Empty(t, e.notificationsOf(t, e.influencer, domain.NotifyContentSubmitted))
}

func TestContentSubmitRequiresAccepted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)

	a, err := e.assignments.Create(ctx, e.broker, c.ID, e.influencer.ID, nil)
	require.NoError(t, err)

	// still assigned, not accepted
	_, err = e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	assert.ErrorIs(t, err, port.ErrInvalidState)

	_, err = e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentDeclined)
	require.NoError(t, err)
	_, err = e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	assert.ErrorIs(t, err, port.ErrInvalidState)
}

func TestContentSubmitValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)

	var ve domain.ValidationError

	in := submitInput(a.ID)
	in.ContentType = "gif"
	_, err := e.content.Submit(ctx, e.influencer, in)
	assert.ErrorAs(t, err, &ve)

	in = submitInput(a.ID)
	in.Platform = "myspace"
	_, err = e.content.Submit(ctx, e.influencer, in)
	assert.ErrorAs(t, err, &ve)

	in = submitInput(a.ID)
	in.ContentURL = ""
	_, err = e.content.Submit(ctx, e.influencer, in)
	assert.ErrorAs(t, err, &ve)

	// only the named influencer submits
	_, err = e.content.Submit(ctx, e.influencer2, submitInput(a.ID))
	assert.ErrorIs(t, err, port.ErrForbidden)

	_, err = e.content.Submit(ctx, e.influencer, submitInput(uuid.New()))
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestContentReviewApproveCompletesAssignment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)
	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)

	got, err := e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{
		Status:   domain.SubmissionApproved,
		Feedback: "looks great",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, e.business.ID, *got.ReviewedBy)
	assert.NotNil(t, got.ReviewedAt)

	// approval completes the work
	refreshed, err := e.assignments.Get(ctx, e.broker, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentCompleted, refreshed.Status)

	// exactly one verdict notification for the influencer
	notes := e.notificationsOf(t, e.influencer, domain.NotifyContentReviewed)
	require.Len(t, notes, 1)
	assert.Equal(t, "Content Approved", notes[0].Title)
}

func TestContentReviewRevisionRequiresFeedback(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)
	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)

	var ve domain.ValidationError
	_, err = e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{
		Status:   domain.SubmissionRevisionRequested,
		Feedback: "   ",
	})
	require.ErrorAs(t, err, &ve)

	got, err := e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{
		Status:        domain.SubmissionRevisionRequested,
		Feedback:      "logo is cropped",
		RevisionNotes: "reshoot the intro",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionRevisionRequested, got.Status)
	assert.Equal(t, "logo is cropped", got.Feedback)

	// revision does not complete the assignment
	refreshed, err := e.assignments.Get(ctx, e.broker, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentAccepted, refreshed.Status)

	notes := e.notificationsOf(t, e.influencer, domain.NotifyContentReviewed)
	require.Len(t, notes, 1)
	assert.Equal(t, "Content Revision Requested", notes[0].Title)
}

func TestContentReviewTerminalIsFinal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)
	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)

	_, err = e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{Status: domain.SubmissionRejected, Feedback: "off brand"})
	require.NoError(t, err)

	_, err = e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{Status: domain.SubmissionApproved})
	assert.ErrorIs(t, err, port.ErrAlreadyReviewed)

	// no second verdict notification
	assert.Len(t, e.notificationsOf(t, e.influencer, domain.NotifyContentReviewed), 1)
}

func TestContentReviewGates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)
	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)

	// influencers never review
	_, err = e.content.Review(ctx, e.influencer, sub.ID, port.ReviewContentInput{Status: domain.SubmissionApproved})
	assert.ErrorIs(t, err, port.ErrForbidden)

	// a review verdict must be a verdict
	var ve domain.ValidationError
	_, err = e.content.Review(ctx, e.business, sub.ID, port.ReviewContentInput{Status: domain.SubmissionUnderReview})
	assert.ErrorAs(t, err, &ve)

	_, err = e.content.Review(ctx, e.business, uuid.New(), port.ReviewContentInput{Status: domain.SubmissionApproved})
	assert.ErrorIs(t, err, port.ErrNotFound)

	// the broker may review on the business's behalf
	_, err = e.content.Review(ctx, e.broker, sub.ID, port.ReviewContentInput{Status: domain.SubmissionApproved})
	require.NoError(t, err)
}

func TestContentListing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.newCampaign(t, domain.CampaignActive, 3)
	a := e.acceptedAssignment(t, c.ID)
	sub, err := e.content.Submit(ctx, e.influencer, submitInput(a.ID))
	require.NoError(t, err)

	byCampaign, err := e.content.ListByCampaign(ctx, e.business, c.ID, nil)
	require.NoError(t, err)
	require.Len(t, byCampaign, 1)
	assert.Equal(t, sub.ID, byCampaign[0].ID)

	byInfluencer, err := e.content.ListByInfluencer(ctx, e.influencer, e.influencer.ID)
	require.NoError(t, err)
	assert.Len(t, byInfluencer, 1)

	// influencers cannot read each other's submissions
	_, err = e.content.ListByInfluencer(ctx, e.influencer2, e.influencer.ID)
	assert.ErrorIs(t, err, port.ErrForbidden)

	detail, err := e.content.Get(ctx, e.business, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, detail.CampaignID)
	assert.Equal(t, e.influencer.ID, detail.InfluencerID)
}
