package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-approval-portal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Validation failures surfaced to the review form. Status completeness is
// checked across the whole item set before any comment check runs.
var (
	ErrMissingStatus  = errors.New("every item needs a review status before submitting")
	ErrMissingComment = errors.New("every non-approved item needs a comment")
)

// ValidateFeedbacks checks a review submission for completeness. Feedback
// entries are keyed by item ID hex. Rules, in order:
//  1. every schedule item must have an entry with a non-empty status
//  2. every entry with status != approved must carry a non-blank comment
func ValidateFeedbacks(items []models.ScheduleItem, byItem map[string]models.FeedbackEntry) error {
	for _, item := range items {
		entry, ok := byItem[item.ID.Hex()]
		if !ok || entry.Status == "" {
			return ErrMissingStatus
		}
	}

	for _, item := range items {
		entry := byItem[item.ID.Hex()]
		if entry.Status == models.StatusApproved {
			continue
		}
		if strings.TrimSpace(entry.Comment) == "" {
			return ErrMissingComment
		}
	}

	return nil
}

// FeedbackResult reports what a submission did against the store.
type FeedbackResult struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
}

// BuildFeedbackWrites turns a validated submission into one ordered batch of
// upserts keyed by item_id, following the items' display order. Items without
// a local entry are skipped (cannot happen after validation, but the write
// path does not rely on that). The unique index on item_id plus upsert
// semantics guarantee at most one feedback row per item even when two
// submissions race.
func BuildFeedbackWrites(items []models.ScheduleItem, byItem map[string]models.FeedbackEntry, now time.Time) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, len(items))

	for _, item := range items {
		entry, ok := byItem[item.ID.Hex()]
		if !ok || entry.Status == "" {
			continue
		}

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"item_id": item.ID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"status":     entry.Status,
					"comment":    entry.Comment,
					"updated_at": now,
				},
				"$setOnInsert": bson.M{
					"created_at": now,
				},
			}).
			SetUpsert(true))
	}

	return writes
}

// SubmitFeedbacks applies a validated review submission in a single bulk
// round trip. Either the whole batch is attempted in item order or nothing
// is written; any failure surfaces as one generic submission error upstream.
func SubmitFeedbacks(ctx context.Context, feedbacks *mongo.Collection, items []models.ScheduleItem, byItem map[string]models.FeedbackEntry) (*FeedbackResult, error) {
	writes := BuildFeedbackWrites(items, byItem, time.Now())
	if len(writes) == 0 {
		return &FeedbackResult{}, nil
	}

	res, err := feedbacks.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return nil, err
	}

	return &FeedbackResult{
		Inserted: res.UpsertedCount,
		Updated:  res.MatchedCount,
	}, nil
}
