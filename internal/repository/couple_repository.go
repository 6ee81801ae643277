package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = mongo.ErrNoDocuments

// CoupleRepository handles the couples collection, keyed by the composite
// "{idA}_{idB}" document id.
type CoupleRepository struct {
	collection *mongo.Collection
}

func NewCoupleRepository(db *mongo.Database) *CoupleRepository {
	return &CoupleRepository{
		collection: db.Collection("couples"),
	}
}

// Get fetches a couple document by its composite key. Returns ErrNotFound
// when the key has never been written.
func (r *CoupleRepository) Get(ctx context.Context, key string) (*models.Couple, error) {
	var couple models.Couple
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&couple)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find couple %s: %v", key, err)
	}
	return &couple, nil
}

// Create inserts a new couple document under the given key.
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	couple.CreatedAt = time.Now()
	couple.UpdatedAt = couple.CreatedAt
	if couple.Nicknames == nil {
		couple.Nicknames = map[string]string{}
	}

	_, err := r.collection.InsertOne(ctx, couple)
	if err != nil {
		return fmt.Errorf("failed to create couple %s: %v", couple.ID, err)
	}
	return nil
}

// Update applies a partial field update to a couple document.
func (r *CoupleRepository) Update(ctx context.Context, key string, fields bson.M) error {
	fields["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update couple %s: %v", key, err)
	}
	return nil
}
