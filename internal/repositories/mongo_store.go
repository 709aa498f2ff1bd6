package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the Mongo repositories.
const (
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	UsersCollection      = "users"
)

// EnsureMongoIndexes creates the unique indexes backing the catalog
// invariants: category name, product barcode and user email.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		field      string
	}{
		{CategoriesCollection, "name"},
		{ProductsCollection, "barcode"},
		{UsersCollection, "email"},
	}

	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idx.field + "_unique"),
		}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create unique index on %s.%s: %w", idx.collection, idx.field, err)
		}
		sortIdx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, sortIdx); err != nil {
			return fmt.Errorf("failed to create createdAt index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

// newestFirst is the find option shared by every GetAll.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// findAll decodes every document of coll, newest first, into a slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.D{}, newestFirst())
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne decodes the single document matching filter. A miss is reported
// as ErrNotFound.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// setByID applies a $set update to the document with the given _id.
func setByID(ctx context.Context, coll *mongo.Collection, id string, fields bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID removes the document with the given _id.
func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
