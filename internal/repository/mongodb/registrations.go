package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var insertionOrder = bson.D{{Key: "_id", Value: 1}}

type RegistrationRepository struct {
	coll *mongo.Collection
}

// Create stores the attendee fields at the top level of the document next
// to the registration keys, as existing eventRegisteredUsers documents do.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	doc := make(bson.D, 0, len(reg.Fields)+5)
	for k, v := range reg.Fields {
		if model.IsReservedField(k) {
			continue
		}
		doc = append(doc, bson.E{Key: k, Value: v})
	}
	doc = append(doc,
		bson.E{Key: "id", Value: reg.ID},
		bson.E{Key: "formId", Value: reg.FormID},
		bson.E{Key: "registered", Value: reg.Registered},
		bson.E{Key: "attended", Value: reg.Attended},
		bson.E{Key: "createdAt", Value: reg.CreatedAt},
	)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) FindRegistered(ctx context.Context, id string) (*model.Registration, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx,
		bson.M{"id": id, "registered": true},
		options.FindOne().SetSort(insertionOrder),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	reg := registrationFromDocument(doc)
	return &reg, nil
}

// MarkAttended updates the document FindRegistered returns when ids repeat.
// Sorted updates need MongoDB 8.0 or newer.
func (r *RegistrationRepository) MarkAttended(ctx context.Context, id string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "registered": true},
		bson.M{"$set": bson.M{"attended": true}},
		options.UpdateOne().SetSort(insertionOrder),
	)
	if err != nil {
		return 0, fmt.Errorf("mark attended: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *RegistrationRepository) Count(ctx context.Context, f repository.RegistrationFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, registrationFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (r *RegistrationRepository) List(ctx context.Context, f repository.RegistrationFilter) ([]model.Registration, error) {
	cur, err := r.coll.Find(ctx, registrationFilter(f), options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}

	regs := make([]model.Registration, 0, len(docs))
	for _, doc := range docs {
		regs = append(regs, registrationFromDocument(doc))
	}
	return regs, nil
}

func registrationFilter(f repository.RegistrationFilter) bson.M {
	filter := bson.M{"formId": f.FormID, "registered": true}
	if f.AttendedOnly {
		filter["attended"] = true
	}
	return filter
}

func registrationFromDocument(doc bson.M) model.Registration {
	reg := model.Registration{Fields: make(map[string]any, len(doc))}
	for k, v := range doc {
		switch k {
		case "_id":
		case "id":
			reg.ID = fmt.Sprint(v)
		case "formId":
			reg.FormID = fmt.Sprint(v)
		case "registered":
			reg.Registered, _ = v.(bool)
		case "attended":
			reg.Attended, _ = v.(bool)
		case "createdAt":
			reg.CreatedAt = toTime(v)
		default:
			reg.Fields[k] = plain(v)
		}
	}
	return reg
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case bson.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	}
	return time.Time{}
}

// plain converts decoded BSON values into JSON-friendly Go values.
func plain(v any) any {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = plain(e)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = plain(e)
		}
		return out
	case bson.DateTime:
		return val.Time().UTC()
	case bson.ObjectID:
		return val.Hex()
	}
	return v
}
