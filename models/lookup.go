package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Professor directory entry, read-only from this service's perspective.
type Professor struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Role   string             `json:"role" bson:"role"`
	ImgSrc string             `json:"imgsrc,omitempty" bson:"imgsrc,omitempty"`
}

// HomeImage is the single home-banner document.
type HomeImage struct {
	ImageURL string `json:"imageUrl" bson:"imageUrl"`
}
