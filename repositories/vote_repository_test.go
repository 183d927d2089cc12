package repositories

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCastVoteDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key maps to ErrAlreadyVoted", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		repo := NewVoteRepository(mt.Client)
		_, err := repo.CastVote(context.Background(), "jane@example.com", "EN-042")
		if err != ErrAlreadyVoted {
			mt.Errorf("expected ErrAlreadyVoted, got %v", err)
		}
	})

	mt.Run("vote carries a receipt", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		repo := NewVoteRepository(mt.Client)
		vote, err := repo.CastVote(context.Background(), "jane@example.com", "EN-042")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if vote.ReceiptID == "" {
			mt.Error("expected a receipt id")
		}
		if vote.Email != "jane@example.com" || vote.EnrollmentNum != "EN-042" {
			mt.Errorf("unexpected vote: %+v", vote)
		}
	})
}

func TestHasVoted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing ballot", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "campusvote.votes", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "email", Value: "jane@example.com"},
			}),
		)

		repo := NewVoteRepository(mt.Client)
		hasVoted, err := repo.HasVoted(context.Background(), "jane@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if !hasVoted {
			mt.Error("expected hasVoted=true")
		}
	})

	mt.Run("no ballot", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "campusvote.votes", mtest.FirstBatch),
		)

		repo := NewVoteRepository(mt.Client)
		hasVoted, err := repo.HasVoted(context.Background(), "fresh@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if hasVoted {
			mt.Error("expected hasVoted=false")
		}
	})
}

func TestRebuildTallies(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rewrites one counter per candidate", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "campusvote.votes", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "EN-001"}, {Key: "count", Value: int64(3)}},
				bson.D{{Key: "_id", Value: "EN-002"}, {Key: "count", Value: int64(7)}},
			),
			mtest.CreateCursorResponse(0, "campusvote.votes", mtest.NextBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		repo := NewVoteRepository(mt.Client)
		if err := repo.RebuildTallies(context.Background()); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})
}
