package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// MemStore is an in-memory DocStore used by tests and local development.
// It mirrors the MongoDB adapter's semantics: timestamp stamping, silent
// omission of absent batch-get keys, ErrConflict on lost conditional
// writes. Call counters let tests assert on round trips.
type MemStore struct {
	mu   sync.Mutex
	data map[string]map[string]bson.M

	GetCalls      int
	UpdateCalls   int
	QueryCalls    int
	BatchGetCalls int
	AddCalls      int
	LastBatchIDs  []string

	QueryErr    error
	GetErr      error
	UpdateErr   error
	BatchGetErr error
	// BatchGetErrColl scopes BatchGetErr to one collection; empty means
	// every collection fails.
	BatchGetErrColl string
	AddErr          error
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string]map[string]bson.M{}}
}

// Seed inserts a document without stamping timestamps.
func (m *MemStore) Seed(collection, id string, doc bson.M) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc["_id"] = id
	m.coll(collection)[id] = clone(doc)
}

func (m *MemStore) coll(collection string) map[string]bson.M {
	if m.data[collection] == nil {
		m.data[collection] = map[string]bson.M{}
	}
	return m.data[collection]
}

func (m *MemStore) Get(ctx context.Context, collection, id string) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

func (m *MemStore) Put(ctx context.Context, collection string, doc bson.M) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now
	id, _ := doc["_id"].(string)
	m.coll(collection)[id] = clone(doc)
	return doc, nil
}

func (m *MemStore) Update(ctx context.Context, collection, id string, attrs bson.M) (bson.M, error) {
	return m.UpdateIf(ctx, collection, id, nil, attrs)
}

func (m *MemStore) UpdateIf(ctx context.Context, collection, id string, cond, attrs bson.M) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, want := range cond {
		if !matches(doc[k], want) {
			return nil, ErrConflict
		}
	}
	for k, v := range attrs {
		doc[k] = normalize(v)
	}
	if _, ok := attrs["updatedAt"]; !ok {
		doc["updatedAt"] = time.Now().UTC()
	}
	return clone(doc), nil
}

func (m *MemStore) Query(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCalls++
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	var docs []bson.M
	for _, doc := range m.coll(collection) {
		ok := true
		for k, want := range filter {
			if !matches(doc[k], want) {
				ok = false
				break
			}
		}
		if ok {
			docs = append(docs, clone(doc))
		}
	}
	return docs, nil
}

func (m *MemStore) BatchGet(ctx context.Context, collection string, ids []string, projection bson.M) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchGetCalls++
	m.LastBatchIDs = append([]string(nil), ids...)
	if m.BatchGetErr != nil && (m.BatchGetErrColl == "" || m.BatchGetErrColl == collection) {
		return nil, m.BatchGetErr
	}
	var docs []bson.M
	for _, id := range ids {
		if doc, ok := m.coll(collection)[id]; ok {
			docs = append(docs, clone(doc))
		}
	}
	return docs, nil
}

func (m *MemStore) Add(ctx context.Context, collection, id, field string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls++
	if m.AddErr != nil {
		return m.AddErr
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil
	}
	switch current := doc[field].(type) {
	case int:
		doc[field] = current + delta
	case int32:
		doc[field] = current + int32(delta)
	case int64:
		doc[field] = current + int64(delta)
	case float64:
		doc[field] = current + float64(delta)
	default:
		doc[field] = delta
	}
	return nil
}

// matches supports the two filter shapes repositories use: equality and
// {"$in": [...]}.
func matches(got, want interface{}) bool {
	if cond, ok := want.(bson.M); ok {
		if in, ok := cond["$in"]; ok {
			switch values := in.(type) {
			case []string:
				for _, v := range values {
					if got == v {
						return true
					}
				}
			case bson.A:
				for _, v := range values {
					if got == v {
						return true
					}
				}
			}
			return false
		}
	}
	return got == want
}

// clone round-trips through bson so stored documents are never aliased and
// nested values carry the same types the MongoDB driver would produce.
func clone(doc bson.M) bson.M {
	data, err := bson.Marshal(doc)
	if err != nil {
		return doc
	}
	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		return doc
	}
	return out
}

func normalize(v interface{}) interface{} {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float64, time.Time:
		return v
	}
	data, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		return v
	}
	return out["v"]
}
