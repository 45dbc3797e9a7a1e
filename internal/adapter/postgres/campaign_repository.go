package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, business_id, title, description, budget, currency, start_date, end_date,
	deliverables, target_audience, content_guidelines, approval_required, max_influencers,
	status, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c              domain.Campaign
		deliverables   []byte
		targetAudience []byte
	)
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Title, &c.Description, &c.Budget, &c.Currency,
		&c.StartDate, &c.EndDate, &deliverables, &targetAudience,
		&c.ContentGuidelines, &c.ApprovalRequired, &c.MaxInfluencers,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(deliverables) > 0 {
		if err = json.Unmarshal(deliverables, &c.Deliverables); err != nil {
			return nil, fmt.Errorf("decode deliverables: %w", err)
		}
	}
	if len(targetAudience) > 0 {
		if err = json.Unmarshal(targetAudience, &c.TargetAudience); err != nil {
			return nil, fmt.Errorf("decode target audience: %w", err)
		}
	}
	return &c, nil
}

// Create inserts a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	deliverables, err := json.Marshal(c.Deliverables)
	if err != nil {
		return err
	}
	targetAudience, err := json.Marshal(c.TargetAudience)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err = r.pool.Exec(ctx, `INSERT INTO campaigns
		(id, business_id, title, description, budget, currency, start_date, end_date,
		 deliverables, target_audience, content_guidelines, approval_required, max_influencers,
		 status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		c.ID, c.BusinessID, c.Title, c.Description, c.Budget, c.Currency,
		c.StartDate, c.EndDate, deliverables, targetAudience,
		c.ContentGuidelines, c.ApprovalRequired, c.MaxInfluencers,
		c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

// Get returns a campaign by id, or (nil, nil) when absent.
func (r *CampaignRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// List returns campaigns matching the filter, newest first.
func (r *CampaignRepository) List(ctx context.Context, f port.CampaignFilter) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	var (
		conds []string
		args  []any
	)
	if f.BusinessID != nil {
		args = append(args, *f.BusinessID)
		conds = append(conds, fmt.Sprintf("business_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
}

// Update rewrites the owner-editable fields.
func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	deliverables, err := json.Marshal(c.Deliverables)
	if err != nil {
		return err
	}
	targetAudience, err := json.Marshal(c.TargetAudience)
	if err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
		title = $2, description = $3, budget = $4, currency = $5,
		start_date = $6, end_date = $7, deliverables = $8, target_audience = $9,
		content_guidelines = $10, approval_required = $11, max_influencers = $12,
		updated_at = $13
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Budget, c.Currency,
		c.StartDate, c.EndDate, deliverables, targetAudience,
		c.ContentGuidelines, c.ApprovalRequired, c.MaxInfluencers, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// UpdateStatus writes the new status guarded by the status the caller
// read. The guard re-evaluates atomically with the write.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CampaignStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a campaign after re-checking, under a row lock, that
// it is not active and that no in-flight assignment references it.
func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

	var status domain.CampaignStatus
	err = tx.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		err = port.ErrNotFound
		return err
	}
	if err != nil {
		return err
	}
	if status == domain.CampaignActive {
		err = fmt.Errorf("%w: cannot delete active campaign", port.ErrInvalidState)
		return err
	}

	var inFlight int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM campaign_assignments
		WHERE campaign_id = $1 AND status IN ('assigned', 'accepted')`, id).Scan(&inFlight)
	if err != nil {
		return err
	}
	if inFlight > 0 {
		err = fmt.Errorf("%w: campaign has in-flight assignments", port.ErrInvalidState)
		return err
	}

	_, err = tx.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}
