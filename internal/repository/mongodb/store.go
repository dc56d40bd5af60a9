// Package mongodb implements the repository contracts on MongoDB, using the
// collection layout of the eventoz production database.
package mongodb

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection         = "users"
	eventsCollection        = "events"
	registrationsCollection = "eventRegisteredUsers"
)

// Store implements repository.Store on a shared mongo client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Store = (*Store)(nil)

func NewStore(client *mongo.Client, database string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("mongodb store: client is nil")
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the unique index on users.email that backs the
// duplicate-email check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	_, err = s.db.Collection(registrationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "registered", Value: 1}, {Key: "attended", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create registration indexes: %w", err)
	}
	return nil
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepository{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Events() repository.EventRepository {
	return &EventRepository{coll: s.db.Collection(eventsCollection)}
}

func (s *Store) Registrations() repository.RegistrationRepository {
	return &RegistrationRepository{coll: s.db.Collection(registrationsCollection)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
