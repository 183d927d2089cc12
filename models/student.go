// models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is a signed-up voter. Email is the unique key; the password is
// stored as a bcrypt hash and never returned to clients.
type Student struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	EnrollmentNum string             `json:"enrollmentnum,omitempty" bson:"enrollmentnum,omitempty"`
	ImgSrc        string             `json:"Imgsrc,omitempty" bson:"imgsrc,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginData is the payload returned on successful login. The field names
// match the wire format the frontend already consumes.
type LoginData struct {
	Token         string `json:"token"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EnrollmentNum string `json:"enrollmentnum,omitempty"`
	ImgSrc        string `json:"Imgsrc"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
