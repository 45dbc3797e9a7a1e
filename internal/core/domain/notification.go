package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what kind of workflow transition produced a
// notification.
type NotificationType string

const (
	NotifyCampaignAssigned NotificationType = "campaign_assigned"
	NotifyContentSubmitted NotificationType = "content_submitted"
	NotifyContentReviewed  NotificationType = "content_reviewed"
	NotifyPaymentReceived  NotificationType = "payment_received"
)

// Notification is an ephemeral side-effect record produced after a
// workflow transition commits. It never feeds back into entity state;
// only its read flag is mutable.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	RelatedID   uuid.UUID        `json:"related_id"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
