package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is an agency customer whose posting schedules get reviewed through
// the portal. Identity is immutable; profile fields may be edited, which is
// why public links snapshot the slug at schedule creation time.
type Client struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name" binding:"required,min=2,max=100"`
	InstagramHandle   string             `bson:"instagram_handle" json:"instagram_handle" binding:"required,min=1,max=100"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateClientRequest struct {
	Name              string `json:"name" binding:"required,min=2,max=100"`
	InstagramHandle   string `json:"instagram_handle" binding:"required,min=1,max=100"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty" binding:"omitempty,url"`
}

type UpdateClientRequest struct {
	Name              *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	InstagramHandle   *string `json:"instagram_handle,omitempty" binding:"omitempty,min=1,max=100"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" binding:"omitempty,url"`
}
