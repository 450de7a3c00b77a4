package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback statuses. The review form currently only exposes approved and
// rejected; review_caption and review_art still appear in stored data and
// staff views, so the API accepts the full set.
const (
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusReviewCaption = "review_caption"
	StatusReviewArt     = "review_art"
)

// ItemFeedback is the end client's review decision for one schedule item.
// At most one exists per item, enforced by a unique index on item_id.
type ItemFeedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID    primitive.ObjectID `bson:"item_id" json:"item_id"`
	Status    string             `bson:"status" json:"status"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// FeedbackEntry is one item's decision as submitted from the review page.
type FeedbackEntry struct {
	Status  string `json:"status" binding:"omitempty,oneof=approved rejected review_caption review_art"`
	Comment string `json:"comment"`
}

// SubmitFeedbackRequest carries the whole review form keyed by item ID hex.
type SubmitFeedbackRequest struct {
	Feedbacks map[string]FeedbackEntry `json:"feedbacks" binding:"required"`
}
