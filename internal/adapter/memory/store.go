// Package memory implements the persistence ports on in-process maps
// guarded by one mutex. It mirrors the postgres adapter's guarantees
// (capacity check atomic with insert, compare-and-swap status writes,
// idempotent payment-event application) and backs the workflow tests,
// including the concurrent ones, without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// Store holds every entity table. One lock serializes all mutations,
// which stands in for the row locks and guarded UPDATEs of the
// postgres adapter.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]domain.User
	campaigns     map[uuid.UUID]domain.Campaign
	assignments   map[uuid.UUID]domain.Assignment
	submissions   map[uuid.UUID]domain.Submission
	payments      map[uuid.UUID]domain.Payment
	paymentByRef  map[string]uuid.UUID
	notifications map[uuid.UUID]domain.Notification
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]domain.User),
		campaigns:     make(map[uuid.UUID]domain.Campaign),
		assignments:   make(map[uuid.UUID]domain.Assignment),
		submissions:   make(map[uuid.UUID]domain.Submission),
		payments:      make(map[uuid.UUID]domain.Payment),
		paymentByRef:  make(map[string]uuid.UUID),
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

// AddUser seeds an account. Provisioning is otherwise outside the
// workflow core, so this has no port counterpart.
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// --- users ---

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

// Users returns the user port view of the store.
func (s *Store) Users() port.UserRepository { return userRepo{s} }

type userRepo struct{ *Store }

func (r userRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.GetUser(ctx, id)
}

func (r userRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.ListUsersByRole(ctx, role)
}

// --- campaigns ---

// Campaigns returns the campaign port view of the store.
func (s *Store) Campaigns() port.CampaignRepository { return campaignRepo{s} }

type campaignRepo struct{ *Store }

func (r campaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.campaigns[c.ID] = *c
	return nil
}

func (r campaignRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.campaigns[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r campaignRepo) List(ctx context.Context, f port.CampaignFilter) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.campaigns {
		if f.BusinessID != nil && c.BusinessID != *f.BusinessID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r campaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.campaigns[c.ID]
	if !ok {
		return port.ErrNotFound
	}
	c.Status = cur.Status
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.campaigns[c.ID] = *c
	return nil
}

func (r campaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CampaignStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	r.campaigns[id] = c
	return true, nil
}

func (r campaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return port.ErrNotFound
	}
	if c.Status == domain.CampaignActive {
		return fmt.Errorf("%w: cannot delete active campaign", port.ErrInvalidState)
	}
	for _, a := range r.assignments {
		if a.CampaignID == id && (a.Status == domain.AssignmentAssigned || a.Status == domain.AssignmentAccepted) {
			return fmt.Errorf("%w: campaign has in-flight assignments", port.ErrInvalidState)
		}
	}
	delete(r.campaigns, id)
	for aid, a := range r.assignments {
		if a.CampaignID == id {
			delete(r.assignments, aid)
		}
	}
	return nil
}

// --- assignments ---

// Assignments returns the assignment port view of the store.
func (s *Store) Assignments() port.AssignmentRepository { return assignmentRepo{s} }

type assignmentRepo struct{ *Store }

func (r assignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[a.CampaignID]
	if !ok {
		return fmt.Errorf("%w: campaign %s", port.ErrNotFound, a.CampaignID)
	}
	if c.Status == domain.CampaignCompleted {
		return fmt.Errorf("%w: campaign is completed", port.ErrInvalidState)
	}
	occupied := 0
	for _, existing := range r.assignments {
		if existing.CampaignID != a.CampaignID {
			continue
		}
		if existing.InfluencerID == a.InfluencerID {
			return fmt.Errorf("%w: influencer %s on campaign %s", port.ErrDuplicateAssignment, a.InfluencerID, a.CampaignID)
		}
		if existing.Status.CountsTowardCapacity() {
			occupied++
		}
	}
	if occupied >= c.MaxInfluencers {
		return fmt.Errorf("%w: %d of %d slots taken", port.ErrCapacityExceeded, occupied, c.MaxInfluencers)
	}

	a.AssignedAt = time.Now().UTC()
	r.assignments[a.ID] = *a
	return nil
}

func (r assignmentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assignments[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r assignmentRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Assignment
	for _, a := range r.assignments {
		if a.CampaignID == campaignID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (r assignmentRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Assignment
	for _, a := range r.assignments {
		if a.InfluencerID != influencerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (r assignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[id]; !ok {
		return port.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

func (r assignmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AssignmentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	now := time.Now().UTC()
	a.Status = to
	switch to {
	case domain.AssignmentAccepted:
		a.AcceptedAt = &now
	case domain.AssignmentCompleted:
		a.CompletedAt = &now
	}
	r.assignments[id] = a
	return true, nil
}

func (r assignmentRepo) SetPaymentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return false, nil
	}
	a.PaymentAmount = &amount
	r.assignments[id] = a
	return true, nil
}

// --- submissions ---

// Submissions returns the submission port view of the store.
func (s *Store) Submissions() port.SubmissionRepository { return submissionRepo{s} }

type submissionRepo struct{ *Store }

func (r submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[sub.AssignmentID]
	if !ok {
		return fmt.Errorf("%w: assignment %s", port.ErrNotFound, sub.AssignmentID)
	}
	if a.Status != domain.AssignmentAccepted {
		return fmt.Errorf("%w: assignment is %s, not accepted", port.ErrInvalidState, a.Status)
	}
	sub.SubmittedAt = time.Now().UTC()
	r.submissions[sub.ID] = *sub
	return nil
}

func (r submissionRepo) GetDetail(ctx context.Context, id uuid.UUID) (*port.SubmissionDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.submissions[id]
	if !ok {
		return nil, nil
	}
	a, ok := r.assignments[sub.AssignmentID]
	if !ok {
		return nil, fmt.Errorf("%w: assignment %s", port.ErrNotFound, sub.AssignmentID)
	}
	c, ok := r.campaigns[a.CampaignID]
	if !ok {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, a.CampaignID)
	}
	return &port.SubmissionDetail{
		Submission:    sub,
		CampaignID:    c.ID,
		CampaignTitle: c.Title,
		BusinessID:    c.BusinessID,
		InfluencerID:  a.InfluencerID,
	}, nil
}

func (r submissionRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, status *domain.SubmissionStatus) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Submission
	for _, sub := range r.submissions {
		a, ok := r.assignments[sub.AssignmentID]
		if !ok || a.CampaignID != campaignID {
			continue
		}
		if status != nil && sub.Status != *status {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r submissionRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Submission
	for _, sub := range r.submissions {
		a, ok := r.assignments[sub.AssignmentID]
		if !ok || a.InfluencerID != influencerID {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r submissionRepo) Review(ctx context.Context, id uuid.UUID, from, to domain.SubmissionStatus, reviewerID uuid.UUID, feedback, revisionNotes string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.submissions[id]
	if !ok || sub.Status != from {
		return false, nil
	}
	now := time.Now().UTC()
	sub.Status = to
	sub.ReviewedBy = &reviewerID
	sub.Feedback = feedback
	sub.RevisionNotes = revisionNotes
	sub.ReviewedAt = &now
	r.submissions[id] = sub
	return true, nil
}

// --- payments ---

// Payments returns the payment port view of the store.
func (s *Store) Payments() port.PaymentRepository { return paymentRepo{s} }

type paymentRepo struct{ *Store }

func (r paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.paymentByRef[p.ProviderRef]; exists {
		return fmt.Errorf("%w: provider reference %q already recorded", port.ErrExternalProvider, p.ProviderRef)
	}
	a, ok := r.assignments[p.AssignmentID]
	if !ok {
		return fmt.Errorf("%w: assignment %s", port.ErrNotFound, p.AssignmentID)
	}
	p.CreatedAt = time.Now().UTC()
	r.payments[p.ID] = *p
	r.paymentByRef[p.ProviderRef] = p.ID
	a.PaymentStatus = domain.AssignmentProcessing
	r.assignments[a.ID] = a
	return nil
}

func (r paymentRepo) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getByRefLocked(ref), nil
}

func (r paymentRepo) getByRefLocked(ref string) *domain.Payment {
	id, ok := r.paymentByRef[ref]
	if !ok {
		return nil
	}
	p := r.payments[id]
	return &p
}

func (r paymentRepo) ListHistory(ctx context.Context, f port.PaymentHistoryFilter) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.payments {
		a, ok := r.assignments[p.AssignmentID]
		if !ok {
			continue
		}
		if f.InfluencerID != nil && a.InfluencerID != *f.InfluencerID {
			continue
		}
		if f.BusinessID != nil {
			c, ok := r.campaigns[a.CampaignID]
			if !ok || c.BusinessID != *f.BusinessID {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r paymentRepo) Stats(ctx context.Context) (*port.PaymentStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := port.PaymentStats{
		GrossTotal: decimal.Zero,
		FeeTotal:   decimal.Zero,
		NetTotal:   decimal.Zero,
	}
	for _, p := range r.payments {
		s.Total++
		switch p.Status {
		case domain.PaymentCompleted:
			s.Completed++
		case domain.PaymentPending:
			s.Pending++
		case domain.PaymentFailed:
			s.Failed++
		}
		s.GrossTotal = s.GrossTotal.Add(p.Gross)
		s.FeeTotal = s.FeeTotal.Add(p.Fee)
		s.NetTotal = s.NetTotal.Add(p.Net)
	}
	return &s, nil
}

func (r paymentRepo) MarkCompleted(ctx context.Context, providerRef string, at time.Time) (*domain.Payment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getByRefLocked(providerRef)
	if p == nil {
		return nil, false, nil
	}
	if p.Status != domain.PaymentPending {
		return p, false, nil
	}
	p.Status = domain.PaymentCompleted
	p.ProcessedAt = &at
	r.payments[p.ID] = *p
	r.setAssignmentPaymentLocked(p.AssignmentID, domain.AssignmentPaid)
	return p, true, nil
}

func (r paymentRepo) MarkFailed(ctx context.Context, providerRef string) (*domain.Payment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getByRefLocked(providerRef)
	if p == nil {
		return nil, false, nil
	}
	if p.Status != domain.PaymentPending {
		return p, false, nil
	}
	p.Status = domain.PaymentFailed
	r.payments[p.ID] = *p
	r.setAssignmentPaymentLocked(p.AssignmentID, domain.AssignmentUnpaid)
	return p, true, nil
}

// setAssignmentPaymentLocked moves the assignment's payment status in
// step with the payment row. Callers hold the store mutex.
func (s *Store) setAssignmentPaymentLocked(id uuid.UUID, status domain.AssignmentPaymentStatus) {
	if a, ok := s.assignments[id]; ok {
		a.PaymentStatus = status
		s.assignments[id] = a
	}
}

// --- notifications ---

// Notifications returns the notification port view of the store.
func (s *Store) Notifications() port.NotificationRepository { return notificationRepo{s} }

type notificationRepo struct{ *Store }

func (r notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.CreatedAt = time.Now().UTC()
	r.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	n.Read = true
	r.notifications[id] = n
	return true, nil
}

func (r notificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			r.notifications[id] = n
		}
	}
	return nil
}
