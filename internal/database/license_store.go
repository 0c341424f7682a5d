// internal/database/license_store.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/javajoker/license-server/internal/models"
)

// MongoLicenseStore keeps License documents in one collection keyed by the
// license field. Concurrent callers share the driver's connection pool;
// single-document updates are atomic on the server.
type MongoLicenseStore struct {
	coll *mongo.Collection
}

func NewMongoLicenseStore(coll *mongo.Collection) *MongoLicenseStore {
	return &MongoLicenseStore{coll: coll}
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrDatabase, op, err)
}

func (s *MongoLicenseStore) Insert(ctx context.Context, license *models.License) (*models.License, error) {
	if _, err := s.coll.InsertOne(ctx, license); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithField("license", license.License).Warn("Duplicate license insert rejected")
		}
		return nil, dbError("insert", err)
	}
	return license, nil
}

func (s *MongoLicenseStore) FindByKey(ctx context.Context, key string) (*models.License, error) {
	var license models.License
	err := s.coll.FindOne(ctx, bson.M{"license": key}).Decode(&license)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrLicenseNotFound
		}
		return nil, dbError("find", err)
	}
	return &license, nil
}

// FindByOwner is best effort: documents that fail to decode are logged and
// left out instead of failing the whole listing.
func (s *MongoLicenseStore) FindByOwner(ctx context.Context, wallet string) ([]models.License, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"wallet": wallet})
	if err != nil {
		return nil, dbError("find by owner", err)
	}
	defer cursor.Close(ctx)

	licenses := make([]models.License, 0)
	for cursor.Next(ctx) {
		var license models.License
		if err := cursor.Decode(&license); err != nil {
			logrus.WithError(err).WithField("wallet", wallet).Error("Skipping unreadable license document")
			continue
		}
		licenses = append(licenses, license)
	}
	if err := cursor.Err(); err != nil {
		logrus.WithError(err).WithField("wallet", wallet).Error("License listing ended early")
	}
	return licenses, nil
}

func (s *MongoLicenseStore) DeleteByKey(ctx context.Context, key string) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"license": key})
	if err != nil {
		return 0, dbError("delete", err)
	}
	if res.DeletedCount != 1 {
		return 0, models.ErrLicenseDoesNotExist
	}
	return res.DeletedCount, nil
}

func (s *MongoLicenseStore) ConditionalUpdate(ctx context.Context, filter models.LicenseFilter, patch models.LicensePatch) (int64, error) {
	res, err := s.coll.UpdateOne(ctx, filterDocument(filter), patchDocument(patch))
	if err != nil {
		return 0, dbError("update", err)
	}
	return res.ModifiedCount, nil
}

func (s *MongoLicenseStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return dbError("ping", err)
	}
	return nil
}

func filterDocument(f models.LicenseFilter) bson.M {
	doc := bson.M{"license": f.License}
	if f.Activated != nil {
		doc["activated"] = *f.Activated
	}
	if f.Expiration != nil {
		doc["expiration"] = *f.Expiration
	}
	return doc
}

func patchDocument(p models.LicensePatch) bson.M {
	set := bson.M{}
	if p.Activated != nil {
		set["activated"] = *p.Activated
	}
	if p.Expiration != nil {
		set["expiration"] = *p.Expiration
	}
	return bson.M{"$set": set}
}
