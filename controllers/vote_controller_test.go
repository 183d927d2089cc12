package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/campusvote/campusvote_backend/models"
	"github.com/campusvote/campusvote_backend/repositories"
)

func TestCastVote(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing fields", func(mt *mtest.T) {
		vc := NewVoteController(mt.Client, repositories.NewVoteRepository(mt.Client))
		e := newTestEcho()
		req := jsonRequest(http.MethodPost, "/vote", map[string]string{"email": "jane@example.com"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := vc.CastVote(c); err != nil {
			mt.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			mt.Errorf("expected 400, got %d", rec.Code)
		}
	})

	mt.Run("success records ballot and increments tally", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // InsertOne vote
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		vc := NewVoteController(mt.Client, repositories.NewVoteRepository(mt.Client))
		e := newTestEcho()
		req := jsonRequest(http.MethodPost, "/vote", models.VoteRequest{
			Email:         "jane@example.com",
			EnrollmentNum: "EN-042",
		})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := vc.CastVote(c); err != nil {
			mt.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp models.Response
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			mt.Fatalf("failed to decode response: %v", err)
		}
		if resp.Message != "Vote successful" {
			mt.Errorf("unexpected message: %q", resp.Message)
		}
		data, ok := resp.Data.(map[string]interface{})
		if !ok || data["receiptId"] == "" {
			mt.Error("expected a receipt id in the response")
		}
	})

	mt.Run("second ballot for the same email is rejected", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		vc := NewVoteController(mt.Client, repositories.NewVoteRepository(mt.Client))
		e := newTestEcho()
		req := jsonRequest(http.MethodPost, "/vote", models.VoteRequest{
			Email:         "jane@example.com",
			EnrollmentNum: "EN-042",
		})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := vc.CastVote(c); err != nil {
			mt.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			mt.Errorf("expected 400, got %d", rec.Code)
		}
		var resp models.Response
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Message != "Already voted" {
			mt.Errorf("unexpected message: %q", resp.Message)
		}
	})
}

func TestVoteStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	run := func(mt *mtest.T, email string) *httptest.ResponseRecorder {
		vc := NewVoteController(mt.Client, repositories.NewVoteRepository(mt.Client))
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/vote/status/"+email, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/vote/status/:email")
		c.SetParamNames("email")
		c.SetParamValues(email)

		if err := vc.VoteStatus(c); err != nil {
			mt.Fatalf("handler error: %v", err)
		}
		return rec
	}

	mt.Run("has voted", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "campusvote.votes", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "email", Value: "jane@example.com"},
				{Key: "enrollmentnum", Value: "EN-042"},
			}),
		)

		rec := run(mt, "jane@example.com")
		if rec.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d", rec.Code)
		}
		var status map[string]bool
		json.Unmarshal(rec.Body.Bytes(), &status)
		if !status["hasVoted"] {
			mt.Error("expected hasVoted=true")
		}
	})

	mt.Run("has not voted", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "campusvote.votes", mtest.FirstBatch),
		)

		rec := run(mt, "fresh@example.com")
		if rec.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d", rec.Code)
		}
		var status map[string]bool
		json.Unmarshal(rec.Body.Bytes(), &status)
		if status["hasVoted"] {
			mt.Error("expected hasVoted=false")
		}
	})
}
