package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/adapter/memory"
	"brandreach/internal/adapter/notify"
	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// env wires every workflow service over one in-memory store, with one
// broker, one business and two influencer accounts seeded.
type env struct {
	store *memory.Store

	campaigns     *CampaignService
	assignments   *AssignmentService
	content       *ContentService
	payments      *PaymentService
	notifications *NotificationService

	broker      domain.Actor
	business    domain.Actor
	influencer  domain.Actor
	influencer2 domain.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(store.Notifications(), logger)

	e := &env{
		store:         store,
		campaigns:     NewCampaignService(store.Campaigns()),
		assignments:   NewAssignmentService(store.Assignments(), store.Campaigns(), store.Users(), dispatcher),
		content:       NewContentService(store.Submissions(), store.Assignments(), store.Campaigns(), store.Users(), dispatcher, logger),
		payments:      NewPaymentService(store.Payments(), store.Assignments(), store.Campaigns(), dispatcher, decimal.NewFromFloat(0.10), logger),
		notifications: NewNotificationService(store.Notifications()),
	}

	seed := func(role domain.Role, email string) domain.Actor {
		u := domain.User{ID: uuid.New(), Email: email, Role: role, Active: true}
		store.AddUser(u)
		return domain.Actor{ID: u.ID, Role: role}
	}
	e.broker = seed(domain.RoleBroker, "broker@test")
	e.business = seed(domain.RoleBusiness, "business@test")
	e.influencer = seed(domain.RoleInfluencer, "nora@test")
	e.influencer2 = seed(domain.RoleInfluencer, "iris@test")
	return e
}

// newCampaign creates a campaign for e.business and walks it to the
// given status.
func (e *env) newCampaign(t *testing.T, status domain.CampaignStatus, maxInfluencers int) *domain.Campaign {
	t.Helper()
	ctx := context.Background()
	c, err := e.campaigns.Create(ctx, e.business, port.CreateCampaignInput{
		Title:          "Spring Launch",
		Budget:         decimal.NewFromInt(5000),
		Currency:       "USD",
		StartDate:      time.Now(),
		EndDate:        time.Now().AddDate(0, 1, 0),
		MaxInfluencers: maxInfluencers,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	path := map[domain.CampaignStatus][]struct {
		actor domain.Actor
		to    domain.CampaignStatus
	}{
		domain.CampaignDraft: {},
		domain.CampaignPendingApproval: {
			{e.business, domain.CampaignPendingApproval},
		},
		domain.CampaignActive: {
			{e.business, domain.CampaignPendingApproval},
			{e.broker, domain.CampaignActive},
		},
		domain.CampaignCompleted: {
			{e.business, domain.CampaignPendingApproval},
			{e.broker, domain.CampaignActive},
			{e.business, domain.CampaignCompleted},
		},
	}
	for _, step := range path[status] {
		if c, err = e.campaigns.SetStatus(ctx, step.actor, c.ID, step.to); err != nil {
			t.Fatalf("walk campaign to %s: %v", step.to, err)
		}
	}
	return c
}

// acceptedAssignment assigns e.influencer to the campaign and accepts.
func (e *env) acceptedAssignment(t *testing.T, campaignID uuid.UUID) *domain.Assignment {
	t.Helper()
	ctx := context.Background()
	a, err := e.assignments.Create(ctx, e.broker, campaignID, e.influencer.ID, nil)
	if err != nil {
		t.Fatalf("assign influencer: %v", err)
	}
	a, err = e.assignments.SetStatus(ctx, e.influencer, a.ID, domain.AssignmentAccepted)
	if err != nil {
		t.Fatalf("accept assignment: %v", err)
	}
	return a
}

// notificationsOf returns the recipient's notifications of one type.
func (e *env) notificationsOf(t *testing.T, recipient domain.Actor, typ domain.NotificationType) []domain.Notification {
	t.Helper()
	all, err := e.notifications.List(context.Background(), recipient, false)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	var out []domain.Notification
	for _, n := range all {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
