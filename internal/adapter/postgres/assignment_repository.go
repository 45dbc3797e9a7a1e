package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// AssignmentRepository implements port.AssignmentRepository.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository returns a new repository instance.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

const assignmentColumns = `id, campaign_id, influencer_id, status, payment_amount, payment_status,
	assigned_at, accepted_at, completed_at`

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID, &a.CampaignID, &a.InfluencerID, &a.Status,
		&a.PaymentAmount, &a.PaymentStatus,
		&a.AssignedAt, &a.AcceptedAt, &a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an assignment with the capacity check atomic to the
// insert: the campaign row is locked for the duration of the
// transaction, so two concurrent creations against the same campaign
// serialize and the count cannot be stale.
func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
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

	// lock campaign
	var (
		status         domain.CampaignStatus
		maxInfluencers int
	)
	err = tx.QueryRow(ctx,
		`SELECT status, max_influencers FROM campaigns WHERE id = $1 FOR UPDATE`,
		a.CampaignID).Scan(&status, &maxInfluencers)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("%w: campaign %s", port.ErrNotFound, a.CampaignID)
		return err
	}
	if err != nil {
		return err
	}
	if status == domain.CampaignCompleted {
		err = fmt.Errorf("%w: campaign is completed", port.ErrInvalidState)
		return err
	}

	var occupied int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM campaign_assignments
		WHERE campaign_id = $1 AND status <> 'declined'`, a.CampaignID).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied >= maxInfluencers {
		err = fmt.Errorf("%w: %d of %d slots taken", port.ErrCapacityExceeded, occupied, maxInfluencers)
		return err
	}

	a.AssignedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `INSERT INTO campaign_assignments
		(id, campaign_id, influencer_id, status, payment_amount, payment_status, assigned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.CampaignID, a.InfluencerID, a.Status, a.PaymentAmount, a.PaymentStatus, a.AssignedAt)
	if isUniqueViolation(err) {
		err = fmt.Errorf("%w: influencer %s on campaign %s", port.ErrDuplicateAssignment, a.InfluencerID, a.CampaignID)
	}
	return err
}

// Get returns an assignment by id, or (nil, nil) when absent.
func (r *AssignmentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	a, err := scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM campaign_assignments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// ListByCampaign returns a campaign's assignments, newest first.
func (r *AssignmentRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM campaign_assignments
		 WHERE campaign_id = $1 ORDER BY assigned_at DESC`, campaignID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

// ListByInfluencer returns an influencer's assignments, optionally
// filtered by status, newest first.
func (r *AssignmentRepository) ListByInfluencer(ctx context.Context, influencerID uuid.UUID, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM campaign_assignments WHERE influencer_id = $1`
	args := []any{influencerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY assigned_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func collectAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Assignment, error) {
		a, err := scanAssignment(row)
		if err != nil {
			return domain.Assignment{}, err
		}
		return *a, nil
	})
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaign_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// UpdateStatus writes the new status guarded by the one the caller
// read, stamping accepted_at or completed_at as the target requires.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AssignmentStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE campaign_assignments SET
		status = $3,
		accepted_at = CASE WHEN $3 = 'accepted' THEN now() ELSE accepted_at END,
		completed_at = CASE WHEN $3 = 'completed' THEN now() ELSE completed_at END
		WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetPaymentAmount overwrites the negotiated payment amount.
func (r *AssignmentRepository) SetPaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaign_assignments SET payment_amount = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
