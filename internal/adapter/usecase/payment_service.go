package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/policy"
	"brandreach/internal/core/port"
)

// PaymentService implements port.PaymentWorkflow. The fee rate is
// fixed at construction; the split stored on a payment never changes
// after Initiate, even if the configured rate does.
type PaymentService struct {
	payments    port.PaymentRepository
	assignments port.AssignmentRepository
	campaigns   port.CampaignRepository
	dispatcher  port.Dispatcher
	feeRate     decimal.Decimal
	logger      *slog.Logger
}

// NewPaymentService creates the payment workflow service.
func NewPaymentService(payments port.PaymentRepository, assignments port.AssignmentRepository, campaigns port.CampaignRepository, dispatcher port.Dispatcher, feeRate decimal.Decimal, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		payments:    payments,
		assignments: assignments,
		campaigns:   campaigns,
		dispatcher:  dispatcher,
		feeRate:     feeRate,
		logger:      logger,
	}
}

// Initiate records a pending payment with its fee split computed at
// the current rate, and moves the assignment's payment status to
// processing.
func (s *PaymentService) Initiate(ctx context.Context, actor domain.Actor, in port.InitiatePaymentInput) (*domain.Payment, error) {
	a, err := s.assignments.Get(ctx, in.AssignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, in.AssignmentID)
	}
	campaign, err := s.campaigns.Get(ctx, a.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, a.CampaignID)
	}
	if err := policy.Authorize(actor, policy.PaymentInitiate, policy.Resource{CampaignOwnerID: campaign.BusinessID}); err != nil {
		return nil, err
	}
	if !in.Gross.IsPositive() {
		return nil, domain.ValidationError("payment amount must be positive")
	}

	currency := in.Currency
	if currency == "" {
		currency = campaign.Currency
	}
	ref := in.ProviderRef
	if ref == "" {
		ref = uuid.NewString()
	}
	fee, net := domain.SplitFee(in.Gross, s.feeRate)
	p := &domain.Payment{
		ID:           uuid.New(),
		AssignmentID: a.ID,
		Gross:        in.Gross,
		Fee:          fee,
		Net:          net,
		Currency:     currency,
		ProviderRef:  ref,
		Status:       domain.PaymentPending,
	}
	// The store moves the assignment to processing in the same
	// transaction as the insert.
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyEvent applies a provider outcome by reference. Replays return
// the settled payment without side effects; only the call that
// actually flips the row notifies or touches the assignment.
func (s *PaymentService) ApplyEvent(ctx context.Context, ev port.PaymentEvent) (*domain.Payment, error) {
	if !ev.Kind.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown payment event %q", ev.Kind))
	}

	// The store settles the payment row and the assignment's payment
	// status in one transaction; a success marks the assignment paid,
	// a failure resets it to unpaid so the business can retry with a
	// fresh payment.
	switch ev.Kind {
	case domain.PaymentEventSucceeded:
		p, applied, err := s.payments.MarkCompleted(ctx, ev.ProviderRef, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: payment reference %q", port.ErrNotFound, ev.ProviderRef)
		}
		if applied {
			s.notifyCompleted(ctx, p)
		}
		return p, nil

	default: // domain.PaymentEventFailed
		p, _, err := s.payments.MarkFailed(ctx, ev.ProviderRef)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: payment reference %q", port.ErrNotFound, ev.ProviderRef)
		}
		return p, nil
	}
}

// notifyCompleted resolves the recipient for a settled payment. The
// settlement has already committed, so lookup failures drop the
// notification and are logged rather than propagated.
func (s *PaymentService) notifyCompleted(ctx context.Context, p *domain.Payment) {
	a, err := s.assignments.Get(ctx, p.AssignmentID)
	if err != nil || a == nil {
		s.logger.Error("payment notification dropped: assignment lookup failed",
			slog.String("payment_id", p.ID.String()),
			slog.String("assignment_id", p.AssignmentID.String()),
			slog.Any("error", err))
		return
	}
	title := ""
	if campaign, err := s.campaigns.Get(ctx, a.CampaignID); err == nil && campaign != nil {
		title = campaign.Title
	} else {
		s.logger.Error("payment notification sent without campaign title",
			slog.String("campaign_id", a.CampaignID.String()),
			slog.Any("error", err))
	}
	s.dispatcher.PaymentCompleted(ctx, a.InfluencerID, a.ID, p.Net, title)
}

// History lists payments visible to the actor: the broker sees all,
// a business its campaigns' payments, an influencer their own.
func (s *PaymentService) History(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	var f port.PaymentHistoryFilter
	switch actor.Role {
	case domain.RoleBroker:
	case domain.RoleBusiness:
		id := actor.ID
		f.BusinessID = &id
	case domain.RoleInfluencer:
		id := actor.ID
		f.InfluencerID = &id
	default:
		return nil, fmt.Errorf("%w: unknown role %q", port.ErrForbidden, actor.Role)
	}
	return s.payments.ListHistory(ctx, f)
}

// Stats returns platform-wide payment aggregates (broker only).
func (s *PaymentService) Stats(ctx context.Context, actor domain.Actor) (*port.PaymentStats, error) {
	if err := policy.Authorize(actor, policy.PaymentStats, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.payments.Stats(ctx)
}
