package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []int
	}{
		{"under limit", 3, 100, []int{3}},
		{"exactly limit", 100, 100, []int{100}},
		{"one over limit", 101, 100, []int{100, 1}},
		{"multiple chunks", 250, 100, []int{100, 100, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.n)
			chunks := chunkIDs(ids, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.want))
			}
			for i, chunk := range chunks {
				if len(chunk) != tt.want[i] {
					t.Errorf("chunk %d has %d ids, want %d", i, len(chunk), tt.want[i])
				}
			}
		})
	}
}

func TestDecode(t *testing.T) {
	doc := bson.M{"_id": "O1", "status": "pending", "amount": 42.5}
	var out struct {
		ID     string  `bson:"_id"`
		Status string  `bson:"status"`
		Amount float64 `bson:"amount"`
	}
	if err := Decode(doc, &out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.ID != "O1" || out.Status != "pending" || out.Amount != 42.5 {
		t.Errorf("decoded = %+v", out)
	}
}

func TestMemStore_UpdateIfConflictVsNotFound(t *testing.T) {
	mem := NewMemStore()
	mem.Seed("orders", "O1", bson.M{"status": "pending"})
	ctx := context.Background()

	// Matching condition applies.
	doc, err := mem.UpdateIf(ctx, "orders", "O1", bson.M{"status": "pending"}, bson.M{"status": "delivered"})
	if err != nil {
		t.Fatalf("UpdateIf() error = %v", err)
	}
	if doc["status"] != "delivered" {
		t.Errorf("status = %v, want delivered", doc["status"])
	}

	// Stale condition is a conflict, not a missing document.
	_, err = mem.UpdateIf(ctx, "orders", "O1", bson.M{"status": "pending"}, bson.M{"status": "cancelled"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}

	_, err = mem.UpdateIf(ctx, "orders", "O-missing", nil, bson.M{"status": "cancelled"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemStore_UpdateStampsUpdatedAt(t *testing.T) {
	mem := NewMemStore()
	mem.Seed("orders", "O1", bson.M{"status": "pending"})
	ctx := context.Background()

	doc, err := mem.Update(ctx, "orders", "O1", bson.M{"status": "delivered"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, ok := doc["updatedAt"]; !ok {
		t.Error("updatedAt not stamped")
	}

	// A caller-supplied updatedAt wins.
	supplied := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc, err = mem.Update(ctx, "orders", "O1", bson.M{"updatedAt": supplied})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got, ok := doc["updatedAt"].(time.Time); !ok || !got.Equal(supplied) {
		t.Errorf("updatedAt = %v, want %v", doc["updatedAt"], supplied)
	}
}

func TestMemStore_PutStampsTimestamps(t *testing.T) {
	mem := NewMemStore()
	doc, err := mem.Put(context.Background(), "orders", bson.M{"_id": "O1", "status": "pending"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := doc["createdAt"]; !ok {
		t.Error("createdAt not stamped")
	}
	if _, ok := doc["updatedAt"]; !ok {
		t.Error("updatedAt not stamped")
	}
}

func TestMemStore_BatchGetOmitsAbsentKeys(t *testing.T) {
	mem := NewMemStore()
	mem.Seed("orders", "O1", bson.M{"status": "pending"})
	mem.Seed("orders", "O3", bson.M{"status": "delivered"})

	docs, err := mem.BatchGet(context.Background(), "orders", []string{"O1", "O2", "O3"}, nil)
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d docs, want 2 (absent key silently omitted)", len(docs))
	}
}

func TestMemStore_QueryFilters(t *testing.T) {
	mem := NewMemStore()
	mem.Seed("runsheets", "RS1", bson.M{"riderId": "rider-1", "status": "pending"})
	mem.Seed("runsheets", "RS2", bson.M{"riderId": "rider-1", "status": "completed"})
	mem.Seed("runsheets", "RS3", bson.M{"riderId": "rider-2", "status": "active"})

	docs, err := mem.Query(context.Background(), "runsheets", bson.M{
		"riderId": "rider-1",
		"status":  bson.M{"$in": []string{"pending", "active"}},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(docs) != 1 || docs[0]["_id"] != "RS1" {
		t.Errorf("docs = %v, want only RS1", docs)
	}
}
