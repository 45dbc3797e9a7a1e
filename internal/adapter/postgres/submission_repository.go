package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// SubmissionRepository implements port.SubmissionRepository.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository returns a new repository instance.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, assignment_id, content_type, content_url, caption, platform,
	status, feedback, revision_notes, reviewed_by, submitted_at, reviewed_at`

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var s domain.Submission
	err := row.Scan(
		&s.ID, &s.AssignmentID, &s.ContentType, &s.ContentURL, &s.Caption, &s.Platform,
		&s.Status, &s.Feedback, &s.RevisionNotes, &s.ReviewedBy, &s.SubmittedAt, &s.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a submission while the owning assignment is locked and
// verified to be in accepted state, so an accept/decline racing the
// submission cannot produce an orphan.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var status domain.AssignmentStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM campaign_assignments WHERE id = $1 FOR UPDATE`,
		s.AssignmentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("%w: assignment %s", port.ErrNotFound, s.AssignmentID)
		return err
	}
	if err != nil {
		return err
	}
	if status != domain.AssignmentAccepted {
		err = fmt.Errorf("%w: assignment is %s, not accepted", port.ErrInvalidState, status)
		return err
	}

	s.SubmittedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `INSERT INTO content_submissions
		(id, assignment_id, content_type, content_url, caption, platform, status, feedback, revision_notes, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.AssignmentID, s.ContentType, s.ContentURL, s.Caption, s.Platform,
		s.Status, s.Feedback, s.RevisionNotes, s.SubmittedAt)
	return err
}

// GetDetail returns the submission joined with the ownership facts the
// review path needs, or (nil, nil) when absent.
func (r *SubmissionRepository) GetDetail(ctx context.Context, id uuid.UUID) (*port.SubmissionDetail, error) {
	var d port.SubmissionDetail
	row := r.pool.QueryRow(ctx, `SELECT
		cs.id, cs.assignment_id, cs.content_type, cs.content_url, cs.caption, cs.platform,
		cs.status, cs.feedback, cs.revision_notes, cs.reviewed_by, cs.submitted_at, cs.reviewed_at,
		c.id, c.title, c.business_id, ca.influencer_id
		FROM content_submissions cs
		JOIN campaign_assignments ca ON cs.assignment_id = ca.id
		JOIN campaigns c ON ca.campaign_id = c.id
		WHERE cs.id = $1`, id)
	err := row.Scan(
		&d.Submission.ID, &d.Submission.AssignmentID, &d.Submission.ContentType,
		&d.Submission.ContentURL, &d.Submission.Caption, &d.Submission.Platform,
		&d.Submission.Status, &d.Submission.Feedback, &d.Submission.RevisionNotes,
		&d.Submission.ReviewedBy, &d.Submission.SubmittedAt, &d.Submission.ReviewedAt,
		&d.CampaignID, &d.CampaignTitle, &d.BusinessID, &d.InfluencerID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByCampaign returns a campaign's submissions, newest first.
func (r *SubmissionRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID, status *domain.SubmissionStatus) ([]domain.Submission, error) {
	query := `SELECT cs.id, cs.assignment_id, cs.content_type, cs.content_url, cs.caption, cs.platform,
		cs.status, cs.feedback, cs.revision_notes, cs.reviewed_by, cs.submitted_at, cs.reviewed_at
		FROM content_submissions cs
		JOIN campaign_assignments ca ON cs.assignment_id = ca.id
		WHERE ca.campaign_id = $1`
	args := []any{campaignID}
	if status != nil {
		query += ` AND cs.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY cs.submitted_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

// ListByInfluencer returns an influencer's submissions, newest first.
func (r *SubmissionRepository) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]domain.Submission, error) {
	rows, err := r.pool.Query(ctx, `SELECT cs.id, cs.assignment_id, cs.content_type, cs.content_url,
		cs.caption, cs.platform, cs.status, cs.feedback, cs.revision_notes, cs.reviewed_by,
		cs.submitted_at, cs.reviewed_at
		FROM content_submissions cs
		JOIN campaign_assignments ca ON cs.assignment_id = ca.id
		WHERE ca.influencer_id = $1
		ORDER BY cs.submitted_at DESC`, influencerID)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

func collectSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Submission, error) {
		s, err := scanSubmission(row)
		if err != nil {
			return domain.Submission{}, err
		}
		return *s, nil
	})
}

// Review applies the reviewer's verdict guarded by the status the
// caller read, stamping reviewer and review time.
func (r *SubmissionRepository) Review(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus, reviewerID uuid.UUID, feedback, revisionNotes string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE content_submissions SET
		status = $3, reviewed_by = $4, feedback = $5, revision_notes = $6, reviewed_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to, reviewerID, feedback, revisionNotes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
