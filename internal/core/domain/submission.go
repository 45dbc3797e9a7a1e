package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is the kind of deliverable an influencer submits.
type ContentType string

const (
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentPost  ContentType = "post"
	ContentStory ContentType = "story"
	ContentReel  ContentType = "reel"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentImage, ContentVideo, ContentPost, ContentStory, ContentReel:
		return true
	}
	return false
}

// Platform is the social network a submission targets.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitter, PlatformLinkedIn:
		return true
	}
	return false
}

// Submission is one piece of content submitted against an assignment.
// Submissions are append-only: a revision produces a new record rather
// than resetting an old one to submitted.
type Submission struct {
	ID            uuid.UUID        `json:"id"`
	AssignmentID  uuid.UUID        `json:"assignment_id"`
	ContentType   ContentType      `json:"content_type"`
	ContentURL    string           `json:"content_url"`
	Caption       string           `json:"caption"`
	Platform      Platform         `json:"platform"`
	Status        SubmissionStatus `json:"status"`
	Feedback      string           `json:"feedback,omitempty"`
	RevisionNotes string           `json:"revision_notes,omitempty"`
	ReviewedBy    *uuid.UUID       `json:"reviewed_by,omitempty"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
}
