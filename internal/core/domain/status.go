package domain

// Status transition legality is driven by explicit next-state tables
// rather than string comparisons at call sites. A transition is legal
// iff the target appears in the source's entry; absent entries are
// terminal states.

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft           CampaignStatus = "draft"
	CampaignPendingApproval CampaignStatus = "pending_approval"
	CampaignActive          CampaignStatus = "active"
	CampaignCompleted       CampaignStatus = "completed"
	CampaignCancelled       CampaignStatus = "cancelled"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:           {CampaignPendingApproval, CampaignCancelled},
	CampaignPendingApproval: {CampaignActive, CampaignCancelled},
	CampaignActive:          {CampaignCompleted, CampaignCancelled},
}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignPendingApproval, CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is legal.
func (s CampaignStatus) CanTransition(next CampaignStatus) bool {
	return transitionAllowed(campaignTransitions[s], next)
}

// Terminal reports whether s admits no further transitions.
func (s CampaignStatus) Terminal() bool {
	return len(campaignTransitions[s]) == 0
}

// AssignmentStatus is the lifecycle state of a campaign assignment.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentAssigned: {AssignmentAccepted, AssignmentDeclined},
	AssignmentAccepted: {AssignmentCompleted},
}

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentAccepted, AssignmentDeclined, AssignmentCompleted:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is legal.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	return transitionAllowed(assignmentTransitions[s], next)
}

// Terminal reports whether s admits no further transitions.
func (s AssignmentStatus) Terminal() bool {
	return len(assignmentTransitions[s]) == 0
}

// CountsTowardCapacity reports whether an assignment in this status
// occupies one of the campaign's max-influencers slots. Only declined
// assignments free their slot.
func (s AssignmentStatus) CountsTowardCapacity() bool {
	return s != AssignmentDeclined
}

// AssignmentPaymentStatus tracks the money side of an assignment,
// separate from the work lifecycle.
type AssignmentPaymentStatus string

const (
	AssignmentUnpaid     AssignmentPaymentStatus = "unpaid"
	AssignmentProcessing AssignmentPaymentStatus = "processing"
	AssignmentPaid       AssignmentPaymentStatus = "paid"
)

// SubmissionStatus is the review state of a content submission.
// revision_requested is not terminal: the reviewer may still finalize
// the record, and the influencer resubmits as a new record.
type SubmissionStatus string

const (
	SubmissionSubmitted         SubmissionStatus = "submitted"
	SubmissionUnderReview       SubmissionStatus = "under_review"
	SubmissionApproved          SubmissionStatus = "approved"
	SubmissionRevisionRequested SubmissionStatus = "revision_requested"
	SubmissionRejected          SubmissionStatus = "rejected"
)

var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionSubmitted:         {SubmissionUnderReview, SubmissionApproved, SubmissionRevisionRequested, SubmissionRejected},
	SubmissionUnderReview:       {SubmissionApproved, SubmissionRevisionRequested, SubmissionRejected},
	SubmissionRevisionRequested: {SubmissionApproved, SubmissionRejected},
}

// Valid reports whether s is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionSubmitted, SubmissionUnderReview, SubmissionApproved, SubmissionRevisionRequested, SubmissionRejected:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is legal.
func (s SubmissionStatus) CanTransition(next SubmissionStatus) bool {
	return transitionAllowed(submissionTransitions[s], next)
}

// Terminal reports whether the submission has been finally reviewed.
func (s SubmissionStatus) Terminal() bool {
	return len(submissionTransitions[s]) == 0
}

// ReviewOutcome reports whether s is a status a reviewer may assign.
func (s SubmissionStatus) ReviewOutcome() bool {
	switch s {
	case SubmissionApproved, SubmissionRevisionRequested, SubmissionRejected:
		return true
	}
	return false
}

// PaymentStatus is the state of one payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentCompleted, PaymentFailed},
}

// CanTransition reports whether moving from s to next is legal.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return transitionAllowed(paymentTransitions[s], next)
}

// Terminal reports whether s admits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

func transitionAllowed[S comparable](allowed []S, next S) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}
