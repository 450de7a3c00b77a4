package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is one client's monthly bundle of draft posts. PublicLink is
// derived once at creation (see utils.GeneratePublicLink) and is the sole
// lookup key for the unauthenticated review flow.
type Schedule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"client_id" json:"client_id"`
	Month      int                `bson:"month" json:"month"`
	Year       int                `bson:"year" json:"year"`
	PublicLink string             `bson:"public_link" json:"public_link"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// ScheduleItem is one draft post within a schedule. Order is a positive
// integer unique within the schedule, assigned as count-of-existing+1.
type ScheduleItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScheduleID primitive.ObjectID `bson:"schedule_id" json:"schedule_id"`
	ArtURL     string             `bson:"art_url" json:"art_url"`
	Caption    string             `bson:"caption" json:"caption"`
	Order      int                `bson:"order" json:"order"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateScheduleRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

type CreateItemRequest struct {
	ArtURL  string `json:"art_url" binding:"required,url"`
	Caption string `json:"caption" binding:"required,min=1,max=2200"`
}

type UpdateItemRequest struct {
	ArtURL  *string `json:"art_url,omitempty" binding:"omitempty,url"`
	Caption *string `json:"caption,omitempty" binding:"omitempty,min=1,max=2200"`
}

// ItemWithFeedback is a schedule item joined with its (at most one) feedback
// for read paths.
type ItemWithFeedback struct {
	ScheduleItem `bson:",inline"`
	Feedback     *ItemFeedback `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// ScheduleDetail is the full read model behind both the staff schedule view
// and the public review page.
type ScheduleDetail struct {
	Schedule  Schedule           `json:"schedule"`
	Client    Client             `json:"client"`
	MonthName string             `json:"month_name"`
	Items     []ItemWithFeedback `json:"items"`
}
