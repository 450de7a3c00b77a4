package services

import (
	"context"
	"os"
	"testing"
	"time"

	"agency-approval-portal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func makeItems(n int) []models.ScheduleItem {
	items := make([]models.ScheduleItem, n)
	for i := range items {
		items[i] = models.ScheduleItem{
			ID:    primitive.NewObjectID(),
			Order: i + 1,
		}
	}
	return items
}

func TestValidateFeedbacksMissingStatus(t *testing.T) {
	items := makeItems(2)

	// No entry at all for the second item
	byItem := map[string]models.FeedbackEntry{
		items[0].ID.Hex(): {Status: models.StatusApproved},
	}
	if err := ValidateFeedbacks(items, byItem); err != ErrMissingStatus {
		t.Errorf("missing entry: got %v, want ErrMissingStatus", err)
	}

	// Entry present but status empty
	byItem[items[1].ID.Hex()] = models.FeedbackEntry{Comment: "looks off"}
	if err := ValidateFeedbacks(items, byItem); err != ErrMissingStatus {
		t.Errorf("empty status: got %v, want ErrMissingStatus", err)
	}
}

func TestValidateFeedbacksMissingComment(t *testing.T) {
	items := makeItems(2)

	byItem := map[string]models.FeedbackEntry{
		items[0].ID.Hex(): {Status: models.StatusApproved},
		items[1].ID.Hex(): {Status: models.StatusRejected, Comment: "   "},
	}
	if err := ValidateFeedbacks(items, byItem); err != ErrMissingComment {
		t.Errorf("blank comment: got %v, want ErrMissingComment", err)
	}
}

func TestValidateFeedbacksStatusGatesComment(t *testing.T) {
	items := makeItems(2)

	// One item lacks a status AND another non-approved one lacks a comment;
	// the status failure must win
	byItem := map[string]models.FeedbackEntry{
		items[0].ID.Hex(): {Status: models.StatusRejected},
	}
	if err := ValidateFeedbacks(items, byItem); err != ErrMissingStatus {
		t.Errorf("got %v, want ErrMissingStatus before any comment check", err)
	}
}

func TestValidateFeedbacksPasses(t *testing.T) {
	items := makeItems(3)

	// All approved, no comments needed
	byItem := map[string]models.FeedbackEntry{}
	for _, item := range items {
		byItem[item.ID.Hex()] = models.FeedbackEntry{Status: models.StatusApproved}
	}
	if err := ValidateFeedbacks(items, byItem); err != nil {
		t.Errorf("all approved: unexpected error %v", err)
	}

	// Mixed statuses with comments on the non-approved ones
	byItem[items[1].ID.Hex()] = models.FeedbackEntry{Status: models.StatusReviewCaption, Comment: "typo in line 2"}
	byItem[items[2].ID.Hex()] = models.FeedbackEntry{Status: models.StatusRejected, Comment: "wrong artwork"}
	if err := ValidateFeedbacks(items, byItem); err != nil {
		t.Errorf("mixed with comments: unexpected error %v", err)
	}
}

func TestBuildFeedbackWrites(t *testing.T) {
	items := makeItems(3)
	now := time.Now()

	byItem := map[string]models.FeedbackEntry{
		items[0].ID.Hex(): {Status: models.StatusApproved},
		items[2].ID.Hex(): {Status: models.StatusRejected, Comment: "redo"},
		// items[1] deliberately absent: it must be skipped
	}

	writes := BuildFeedbackWrites(items, byItem, now)
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}

	wantItemIDs := []primitive.ObjectID{items[0].ID, items[2].ID}
	for i, w := range writes {
		model, ok := w.(*mongo.UpdateOneModel)
		if !ok {
			t.Fatalf("write %d is %T, want *mongo.UpdateOneModel", i, w)
		}
		if model.Upsert == nil || !*model.Upsert {
			t.Errorf("write %d is not an upsert", i)
		}

		filter, ok := model.Filter.(bson.M)
		if !ok {
			t.Fatalf("write %d filter is %T, want bson.M", i, model.Filter)
		}
		if filter["item_id"] != wantItemIDs[i] {
			t.Errorf("write %d targets %v, want %v (display order)", i, filter["item_id"], wantItemIDs[i])
		}
	}
}

// TestSubmitFeedbacksAgainstMongo exercises the real upsert path: two items
// with no prior row plus one with an existing row must produce exactly two
// inserts and one update, and resubmitting must update only.
func TestSubmitFeedbacksAgainstMongo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo connect failed: %v", err)
	}
	defer client.Disconnect(ctx)

	feedbacks := client.Database("approval_portal_test").Collection("item_feedbacks_submit_test")
	defer feedbacks.Drop(ctx)

	_, err = feedbacks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create index: %v", err)
	}

	items := makeItems(3)

	// Pre-existing feedback for the third item
	_, err = feedbacks.InsertOne(ctx, models.ItemFeedback{
		ItemID:    items[2].ID,
		Status:    models.StatusRejected,
		Comment:   "old comment",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed feedback: %v", err)
	}

	byItem := map[string]models.FeedbackEntry{
		items[0].ID.Hex(): {Status: models.StatusApproved},
		items[1].ID.Hex(): {Status: models.StatusReviewArt, Comment: "crop tighter"},
		items[2].ID.Hex(): {Status: models.StatusApproved},
	}

	result, err := SubmitFeedbacks(ctx, feedbacks, items, byItem)
	if err != nil {
		t.Fatalf("SubmitFeedbacks: %v", err)
	}
	if result.Inserted != 2 || result.Updated != 1 {
		t.Errorf("got inserted=%d updated=%d, want 2 and 1", result.Inserted, result.Updated)
	}

	// Idempotence: resubmitting identical values must not create rows
	result, err = SubmitFeedbacks(ctx, feedbacks, items, byItem)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if result.Inserted != 0 || result.Updated != 3 {
		t.Errorf("resubmit: got inserted=%d updated=%d, want 0 and 3", result.Inserted, result.Updated)
	}

	count, err := feedbacks.CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d feedback rows, want 3 (one per item)", count)
	}
}
