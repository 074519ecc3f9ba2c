package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type collection interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

// MovieRepository keeps one document per movie, keyed by an ObjectID.
type MovieRepository struct {
	coll collection
}

// compile-time check: *MovieRepository must satisfy port.MovieRepository
var _ port.MovieRepository = (*MovieRepository)(nil)

func NewMovieRepository(coll *mongo.Collection) *MovieRepository {
	return &MovieRepository{coll: coll}
}

func (r *MovieRepository) Insert(ctx context.Context, m *model.Movie) (string, error) {
	id := bson.NewObjectID()
	logger.Debugf(ctx, "creating document %s for movie %q...", id.Hex(), m.PrimaryTitle)

	doc := toBSON(m.Document()).(map[string]any)
	if err := checkKeys(doc); err != nil {
		return "", err
	}
	doc["_id"] = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", mapMongoErr(err)
	}
	return id.Hex(), nil
}

func (r *MovieRepository) QueryEquals(ctx context.Context, field, value string) ([]*model.Movie, error) {
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("%w: cannot query on field %q", movie.ErrValidation, field)
	}
	return r.find(ctx, bson.D{{Key: field, Value: value}})
}

func (r *MovieRepository) GetAll(ctx context.Context) ([]*model.Movie, error) {
	return r.find(ctx, bson.D{})
}

func (r *MovieRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	logger.Debugf(ctx, "updating document %s...", id)

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", movie.ErrNotFound, id)
	}
	set := toBSON(fields).(map[string]any)
	delete(set, "_id")
	if len(set) == 0 {
		return nil
	}
	if err := checkKeys(set); err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: id %s", movie.ErrNotFound, id)
	}
	return nil
}

// checkKeys refuses top-level names that $set would read as a path or an
// operator.
func checkKeys(doc map[string]any) error {
	for k := range doc {
		if !model.IsStorableKey(k) {
			return fmt.Errorf("%w: field name %q is not allowed", movie.ErrValidation, k)
		}
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	logger.Debugf(ctx, "deleting document %s...", id)

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", movie.ErrNotFound, id)
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: id %s", movie.ErrNotFound, id)
	}
	return nil
}

func (r *MovieRepository) find(ctx context.Context, filter bson.D) ([]*model.Movie, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapMongoErr(err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapMongoErr(err)
	}

	movies := make([]*model.Movie, 0, len(docs))
	for _, d := range docs {
		doc := fromBSON(d).(map[string]any)
		var id string
		switch v := d["_id"].(type) {
		case bson.ObjectID:
			id = v.Hex()
		default:
			id = fmt.Sprint(v)
		}
		movies = append(movies, model.MovieFromDocument(id, doc))
	}
	return movies, nil
}

// fromBSON turns decoded BSON containers into plain maps and slices so records
// look the same whatever store they came from.
func fromBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		return fromBSON(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromBSON(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.A:
		return fromBSON([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case bson.ObjectID:
		return t.Hex()
	default:
		return v
	}
}

// toBSON resolves JSON numbers to int64 or float64 before they reach the driver.
func toBSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toBSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toBSON(e)
		}
		return out
	default:
		return v
	}
}

func mapMongoErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", movie.ErrDuplicate, err)
	}
	if mongo.IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", movie.ErrStoreUnavailable, err)
	}
	return err
}
