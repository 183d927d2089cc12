// models/vote.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote records a single ballot. The votes collection carries a unique index
// on email, which is what actually enforces "one vote per voter" — the
// counters in votesection are derived state and can be rebuilt from here.
type Vote struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	EnrollmentNum string             `json:"enrollmentnum" bson:"enrollmentnum"`
	ReceiptID     string             `json:"receiptId" bson:"receiptId"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// Candidate is a votesection entry: one tally per standing candidate.
type Candidate struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EnrollmentNum string             `json:"enrollmentnum" bson:"enrollmentnum"`
	Name          string             `json:"name" bson:"name"`
	Votes         int64              `json:"votes" bson:"votes"`
	ImgSrc        string             `json:"Imgsrc,omitempty" bson:"imgsrc,omitempty"`
}

type VoteRequest struct {
	Email         string `json:"email"`
	EnrollmentNum string `json:"enrollmentnum"`
}
