package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrConflict = errors.New("item was modified concurrently")
)

// batchGetLimit caps the number of keys in a single $in round trip; larger
// key sets are chunked.
const batchGetLimit = 100

// DocStore is the operation surface every repository is written against.
// Documents cross this boundary as bson.M; typed repositories decode them.
type DocStore interface {
	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (bson.M, error)
	// Put inserts a document, stamping createdAt and updatedAt.
	Put(ctx context.Context, collection string, doc bson.M) (bson.M, error)
	// Update sets the given attributes on the identified document and
	// returns the updated document. updatedAt is refreshed unless the
	// caller supplies one.
	Update(ctx context.Context, collection, id string, attrs bson.M) (bson.M, error)
	// UpdateIf behaves like Update but only applies when the document also
	// matches cond; a document that exists but no longer matches yields
	// ErrConflict.
	UpdateIf(ctx context.Context, collection, id string, cond, attrs bson.M) (bson.M, error)
	// Query returns every document matching the filter. Filters are
	// expected to be backed by an index.
	Query(ctx context.Context, collection string, filter bson.M) ([]bson.M, error)
	// BatchGet fetches the given ids in chunked $in round trips. Absent
	// ids are silently omitted and result order is unspecified.
	BatchGet(ctx context.Context, collection string, ids []string, projection bson.M) ([]bson.M, error)
	// Add atomically increments a numeric field.
	Add(ctx context.Context, collection, id, field string, delta int) error
}

// Store is the MongoDB-backed DocStore.
type Store struct {
	db *mongo.Database
}

func New(client *mongo.Client, dbName string) *Store {
	return &Store{db: client.Database(dbName)}
}

func (s *Store) Get(ctx context.Context, collection, id string) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *Store) Put(ctx context.Context, collection string, doc bson.M) (bson.M, error) {
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, attrs bson.M) (bson.M, error) {
	return s.UpdateIf(ctx, collection, id, nil, attrs)
}

func (s *Store) UpdateIf(ctx context.Context, collection, id string, cond, attrs bson.M) (bson.M, error) {
	filter := bson.M{"_id": id}
	for k, v := range cond {
		filter[k] = v
	}

	set := bson.M{}
	for k, v := range attrs {
		set[k] = v
	}
	if _, ok := set["updatedAt"]; !ok {
		set["updatedAt"] = time.Now().UTC()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated bson.M
	err := s.db.Collection(collection).
		FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if len(cond) == 0 {
				return nil, ErrNotFound
			}
			// Distinguish a missing document from a lost conditional write.
			if _, getErr := s.Get(ctx, collection, id); errors.Is(getErr, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) Query(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) BatchGet(ctx context.Context, collection string, ids []string, projection bson.M) ([]bson.M, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var docs []bson.M
	for _, chunk := range chunkIDs(ids, batchGetLimit) {
		opts := options.Find()
		if projection != nil {
			opts.SetProjection(projection)
		}
		cursor, err := s.db.Collection(collection).Find(ctx, bson.M{"_id": bson.M{"$in": chunk}}, opts)
		if err != nil {
			return nil, err
		}
		var batch []bson.M
		if err := cursor.All(ctx, &batch); err != nil {
			return nil, err
		}
		docs = append(docs, batch...)
	}
	return docs, nil
}

func (s *Store) Add(ctx context.Context, collection, id, field string, delta int) error {
	_, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: delta}},
	)
	return err
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}

// Decode converts an adapter document into a typed model.
func Decode(doc bson.M, v interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, v)
}
