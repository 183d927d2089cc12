// controllers/lookup_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/campusvote_backend/config"
	"github.com/campusvote/campusvote_backend/models"
	"github.com/campusvote/campusvote_backend/repositories"
)

const professorCacheKey = "cache:profecers"

// LookupController serves the read-only listings: candidates, top-voted
// candidates, the professor directory and the home banner.
type LookupController struct {
	DB       *mongo.Client
	voteRepo *repositories.VoteRepository
	logger   *log.Logger
}

// NewLookupController creates a new lookup controller
func NewLookupController(db *mongo.Client, voteRepo *repositories.VoteRepository) *LookupController {
	return &LookupController{
		DB:       db,
		voteRepo: voteRepo,
		logger:   log.New(os.Stdout, "[LOOKUP] ", log.LstdFlags),
	}
}

// GetStudents returns all candidate tally entries
func (lc *LookupController) GetStudents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	candidates, err := lc.voteRepo.ListCandidates(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch students",
		})
	}

	return c.JSON(http.StatusOK, candidates)
}

// GetTopStudents returns the top-voted candidates. The limit comes from the
// "limit" query parameter, falling back to TOP_STUDENTS_LIMIT (default 5).
func (lc *LookupController) GetTopStudents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	limit := defaultTopLimit()
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	limit = clampLimit(limit)

	candidates, err := lc.voteRepo.TopCandidates(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch top students",
		})
	}

	return c.JSON(http.StatusOK, candidates)
}

// GetProfessors returns the professor directory, read through a Redis cache
// with a bounded TTL. A cache miss or unavailable Redis falls back to the
// store; the populate is idempotent so concurrent misses are harmless.
func (lc *LookupController) GetProfessors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient := config.GetRedisClient()
	if redisClient != nil {
		if cached, err := redisClient.Get(ctx, professorCacheKey).Result(); err == nil {
			var professors []models.Professor
			if err := json.Unmarshal([]byte(cached), &professors); err == nil {
				return c.JSON(http.StatusOK, professors)
			}
		}
	}

	coll := config.GetCollection(lc.DB, "profecerinfo")
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch profecers",
		})
	}

	professors := []models.Professor{}
	if err := cursor.All(ctx, &professors); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch profecers",
		})
	}

	if redisClient != nil {
		if encoded, err := json.Marshal(professors); err == nil {
			if err := redisClient.Set(ctx, professorCacheKey, encoded, professorCacheTTL()).Err(); err != nil {
				lc.logger.Printf("Failed to cache professor directory: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, professors)
}

// GetHomeImage returns the home banner image URL
func (lc *LookupController) GetHomeImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(lc.DB, "home")
	var home models.HomeImage
	err := coll.FindOne(ctx, bson.M{}).Decode(&home)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No image found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch home image",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"imageUrl": home.ImageURL})
}

func defaultTopLimit() int {
	if limitStr := os.Getenv("TOP_STUDENTS_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			return limit
		}
	}
	return 5
}

// clampLimit keeps the leaderboard size in a sane range
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func professorCacheTTL() time.Duration {
	if ttlStr := os.Getenv("PROFESSOR_CACHE_TTL"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil && ttl > 0 {
			return ttl
		}
	}
	return 10 * time.Minute
}
