// controllers/vote_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/campusvote_backend/models"
	"github.com/campusvote/campusvote_backend/repositories"
	"github.com/campusvote/campusvote_backend/utils"
)

// VoteController handles ballot casting and vote status
type VoteController struct {
	DB       *mongo.Client
	voteRepo *repositories.VoteRepository
}

// NewVoteController creates a new vote controller
func NewVoteController(db *mongo.Client, voteRepo *repositories.VoteRepository) *VoteController {
	return &VoteController{DB: db, voteRepo: voteRepo}
}

// CastVote records a single ballot per email
func (vc *VoteController) CastVote(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.EnrollmentNum == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and enrollment number are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	vote, err := vc.voteRepo.CastVote(ctx, email, utils.SanitizeInput(req.EnrollmentNum))
	if err != nil {
		if err == repositories.ErrAlreadyVoted {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Already voted",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Vote failed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vote successful",
		Data: map[string]interface{}{
			"receiptId": vote.ReceiptID,
		},
	})
}

// VoteStatus reports whether a ballot exists for the email
func (vc *VoteController) VoteStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email, err := utils.SanitizeEmail(c.Param("email"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	hasVoted, err := vc.voteRepo.HasVoted(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check vote status",
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"hasVoted": hasVoted})
}
