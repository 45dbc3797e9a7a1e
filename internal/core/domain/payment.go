package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records one attempted transfer from a business to an
// influencer through the platform. The gross/fee/net split is computed
// once at initiation and never recomputed; Fee + Net always equals
// Gross exactly.
type Payment struct {
	ID           uuid.UUID       `json:"id"`
	AssignmentID uuid.UUID       `json:"assignment_id"`
	Gross        decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"platform_fee"`
	Net          decimal.Decimal `json:"influencer_amount"`
	Currency     string          `json:"currency"`
	ProviderRef  string          `json:"provider_ref"`
	Status       PaymentStatus   `json:"status"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SplitFee divides a gross amount into the platform fee and the
// influencer net. The fee is rounded to two decimal places; the net is
// the exact remainder, so fee + net == gross holds for any rate.
func SplitFee(gross, rate decimal.Decimal) (fee, net decimal.Decimal) {
	fee = gross.Mul(rate).Round(2)
	net = gross.Sub(fee)
	return fee, net
}

// PaymentEventKind is a definitive outcome reported by the external
// payment provider.
type PaymentEventKind string

const (
	PaymentEventSucceeded PaymentEventKind = "succeeded"
	PaymentEventFailed    PaymentEventKind = "failed"
)

// Valid reports whether k is a known provider event kind.
func (k PaymentEventKind) Valid() bool {
	return k == PaymentEventSucceeded || k == PaymentEventFailed
}
