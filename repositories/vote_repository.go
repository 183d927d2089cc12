// repositories/vote_repository.go
package repositories

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusvote/campusvote_backend/config"
	"github.com/campusvote/campusvote_backend/models"
)

// ErrAlreadyVoted is returned when a ballot already exists for the email.
var ErrAlreadyVoted = errors.New("already voted")

// VoteRepository owns the votes and votesection collections. The votes
// collection is the source of truth; votesection counters are derived and
// can be rebuilt from it at any time.
type VoteRepository struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *mongo.Client) *VoteRepository {
	return &VoteRepository{
		DB:     db,
		logger: log.New(os.Stdout, "[VOTE] ", log.LstdFlags),
	}
}

// CastVote records a ballot for the email and increments the candidate
// tally. Duplicate ballots are rejected by the unique index on votes.email,
// not by a prior read, so concurrent casts for the same email cannot both
// succeed.
func (r *VoteRepository) CastVote(ctx context.Context, email, enrollmentNum string) (*models.Vote, error) {
	vote := &models.Vote{
		Email:         email,
		EnrollmentNum: enrollmentNum,
		ReceiptID:     uuid.NewString(),
		CreatedAt:     time.Now(),
	}

	votes := config.GetCollection(r.DB, "votes")
	_, err := votes.InsertOne(ctx, vote)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	tally := config.GetCollection(r.DB, "votesection")
	_, err = tally.UpdateOne(ctx,
		bson.M{"enrollmentnum": enrollmentNum},
		bson.M{"$inc": bson.M{"votes": 1}},
	)
	if err != nil {
		// The ballot stands; the counter is repaired from the vote log.
		r.logger.Printf("tally increment failed for %s: %v, scheduling rebuild", enrollmentNum, err)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if rebuildErr := r.RebuildTallies(ctx); rebuildErr != nil {
				r.logger.Printf("tally rebuild failed: %v", rebuildErr)
			}
		}()
	}

	return vote, nil
}

// HasVoted reports whether a ballot exists for the email.
func (r *VoteRepository) HasVoted(ctx context.Context, email string) (bool, error) {
	votes := config.GetCollection(r.DB, "votes")
	err := votes.FindOne(ctx, bson.M{"email": email}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListCandidates returns all votesection entries in natural store order.
func (r *VoteRepository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	tally := config.GetCollection(r.DB, "votesection")
	cursor, err := tally.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	candidates := []models.Candidate{}
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// TopCandidates returns the highest-tallied candidates, votes descending.
// Ties break on ascending _id, which preserves insertion order.
func (r *VoteRepository) TopCandidates(ctx context.Context, limit int) ([]models.Candidate, error) {
	tally := config.GetCollection(r.DB, "votesection")
	opts := options.Find().
		SetSort(bson.D{{Key: "votes", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := tally.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	candidates := []models.Candidate{}
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// RebuildTallies recomputes every votesection counter from the vote log.
// This is the recovery path when a crash or a failed increment leaves the
// counters out of step with the recorded ballots.
func (r *VoteRepository) RebuildTallies(ctx context.Context) error {
	votes := config.GetCollection(r.DB, "votes")

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$enrollmentnum"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := votes.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var counts []struct {
		EnrollmentNum string `bson:"_id"`
		Count         int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return err
	}

	tally := config.GetCollection(r.DB, "votesection")
	for _, c := range counts {
		_, err := tally.UpdateOne(ctx,
			bson.M{"enrollmentnum": c.EnrollmentNum},
			bson.M{"$set": bson.M{"votes": c.Count}},
		)
		if err != nil {
			return err
		}
	}

	r.logger.Printf("rebuilt tallies for %d candidates", len(counts))
	return nil
}
