package mongodb

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type eventDocument struct {
	EventName string `bson:"eventName"`
	EventDesc string `bson:"eventDesc"`
	Date      string `bson:"date"`
	Banner    string `bson:"banner"`
	ID        string `bson:"id"`
	UserID    string `bson:"userId"`
}

type EventRepository struct {
	coll *mongo.Collection
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	doc := eventDocument{
		EventName: e.Name,
		EventDesc: e.Description,
		Date:      e.Date,
		Banner:    e.Banner,
		ID:        e.ID,
		UserID:    e.OwnerID,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": ownerID}, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]model.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, model.Event{
			ID:          d.ID,
			Name:        d.EventName,
			Description: d.EventDesc,
			Date:        d.Date,
			Banner:      d.Banner,
			OwnerID:     d.UserID,
		})
	}
	return events, nil
}
