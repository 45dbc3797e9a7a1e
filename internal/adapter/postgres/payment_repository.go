package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// PaymentRepository implements port.PaymentRepository. The unique
// provider_ref column is what makes external-event application safe
// under duplicate delivery.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a new repository instance.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, assignment_id, amount, platform_fee, influencer_amount, currency,
	provider_ref, status, processed_at, created_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.AssignmentID, &p.Gross, &p.Fee, &p.Net, &p.Currency,
		&p.ProviderRef, &p.Status, &p.ProcessedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a pending payment with its immutable fee split and
// moves the assignment's payment status to processing in the same
// transaction.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
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

	p.CreatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `INSERT INTO payments
		(id, assignment_id, amount, platform_fee, influencer_amount, currency, provider_ref, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.AssignmentID, p.Gross, p.Fee, p.Net, p.Currency, p.ProviderRef, p.Status, p.CreatedAt)
	if isUniqueViolation(err) {
		err = fmt.Errorf("%w: provider reference %q already recorded", port.ErrExternalProvider, p.ProviderRef)
		return err
	}
	if err != nil {
		return err
	}

	var tag pgconn.CommandTag
	tag, err = tx.Exec(ctx, `UPDATE campaign_assignments SET payment_status = 'processing' WHERE id = $1`,
		p.AssignmentID)
	if err == nil && tag.RowsAffected() == 0 {
		err = fmt.Errorf("%w: assignment %s", port.ErrNotFound, p.AssignmentID)
	}
	return err
}

// GetByProviderRef returns the payment carrying the external reference,
// or (nil, nil) when absent.
func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_ref = $1`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListHistory returns payments visible to the filter's role scope,
// newest first.
func (r *PaymentRepository) ListHistory(ctx context.Context, f port.PaymentHistoryFilter) ([]domain.Payment, error) {
	query := `SELECT p.id, p.assignment_id, p.amount, p.platform_fee, p.influencer_amount,
		p.currency, p.provider_ref, p.status, p.processed_at, p.created_at
		FROM payments p
		JOIN campaign_assignments ca ON p.assignment_id = ca.id
		JOIN campaigns c ON ca.campaign_id = c.id`
	var args []any
	switch {
	case f.BusinessID != nil:
		query += ` WHERE c.business_id = $1`
		args = append(args, *f.BusinessID)
	case f.InfluencerID != nil:
		query += ` WHERE ca.influencer_id = $1`
		args = append(args, *f.InfluencerID)
	}
	query += ` ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		p, err := scanPayment(row)
		if err != nil {
			return domain.Payment{}, err
		}
		return *p, nil
	})
}

// Stats aggregates payment counts and totals.
func (r *PaymentRepository) Stats(ctx context.Context) (*port.PaymentStats, error) {
	var s port.PaymentStats
	err := r.pool.QueryRow(ctx, `SELECT
		count(*),
		count(*) FILTER (WHERE status = 'completed'),
		count(*) FILTER (WHERE status = 'pending'),
		count(*) FILTER (WHERE status = 'failed'),
		COALESCE(sum(amount), 0),
		COALESCE(sum(platform_fee), 0),
		COALESCE(sum(influencer_amount), 0)
		FROM payments`).Scan(
		&s.Total, &s.Completed, &s.Pending, &s.Failed,
		&s.GrossTotal, &s.FeeTotal, &s.NetTotal)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkCompleted flips the payment from pending to completed and marks
// the assignment paid, as one transaction. The status guard in the
// UPDATE is the idempotency mechanism: a replay matches no row and
// reports applied == false without touching the assignment.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, providerRef string, at time.Time) (*domain.Payment, bool, error) {
	return r.settle(ctx, `UPDATE payments
		SET status = 'completed', processed_at = $2
		WHERE provider_ref = $1 AND status = 'pending'
		RETURNING `+paymentColumns, []any{providerRef, at}, domain.AssignmentPaid)
}

// MarkFailed flips the payment from pending to failed and resets the
// assignment to unpaid, with the same idempotency contract as
// MarkCompleted.
func (r *PaymentRepository) MarkFailed(ctx context.Context, providerRef string) (*domain.Payment, bool, error) {
	return r.settle(ctx, `UPDATE payments
		SET status = 'failed'
		WHERE provider_ref = $1 AND status = 'pending'
		RETURNING `+paymentColumns, []any{providerRef}, domain.AssignmentUnpaid)
}

// settle applies a guarded payment-status UPDATE and the matching
// assignment payment-status write in one transaction.
func (r *PaymentRepository) settle(ctx context.Context, query string, args []any, to domain.AssignmentPaymentStatus) (p *domain.Payment, applied bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil || !applied {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	p, err = scanPayment(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		p, err = r.GetByProviderRef(ctx, args[0].(string))
		return p, false, err
	}
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(ctx, `UPDATE campaign_assignments SET payment_status = $2 WHERE id = $1`,
		p.AssignmentID, to)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
