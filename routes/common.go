package routes

import (
	"context"

	"agency-approval-portal/models"
	"agency-approval-portal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectIDs returns the _id of every document matching the filter.
func collectIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// scheduleCollections bundles the four collections every schedule read path
// touches, so handlers take one dependency instead of four.
type scheduleCollections struct {
	clients   *mongo.Collection
	schedules *mongo.Collection
	items     *mongo.Collection
	feedbacks *mongo.Collection
}

// loadScheduleDetail resolves a schedule by the given filter and joins its
// client, its items in display order and each item's feedback. Returns
// mongo.ErrNoDocuments when the schedule or its client is missing.
func loadScheduleDetail(ctx context.Context, colls scheduleCollections, filter bson.M) (*models.ScheduleDetail, error) {
	var schedule models.Schedule
	if err := colls.schedules.FindOne(ctx, filter).Decode(&schedule); err != nil {
		return nil, err
	}

	var client models.Client
	if err := colls.clients.FindOne(ctx, bson.M{"_id": schedule.ClientID}).Decode(&client); err != nil {
		return nil, err
	}

	cursor, err := colls.items.Find(ctx, bson.M{"schedule_id": schedule.ID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var items []models.ScheduleItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	itemIDs := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	feedbackByItem := map[primitive.ObjectID]*models.ItemFeedback{}
	if len(itemIDs) > 0 {
		fbCursor, err := colls.feedbacks.Find(ctx, bson.M{"item_id": bson.M{"$in": itemIDs}})
		if err != nil {
			return nil, err
		}
		var feedbacks []models.ItemFeedback
		if err := fbCursor.All(ctx, &feedbacks); err != nil {
			return nil, err
		}
		for i := range feedbacks {
			feedbackByItem[feedbacks[i].ItemID] = &feedbacks[i]
		}
	}

	joined := make([]models.ItemWithFeedback, len(items))
	for i, item := range items {
		joined[i] = models.ItemWithFeedback{
			ScheduleItem: item,
			Feedback:     feedbackByItem[item.ID],
		}
	}

	return &models.ScheduleDetail{
		Schedule:  schedule,
		Client:    client,
		MonthName: utils.MonthName(schedule.Month),
		Items:     joined,
	}, nil
}
