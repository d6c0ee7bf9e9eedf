package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/promodeagro/promodeagro-ecom-rider-api/models"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

const OrderCollection = "orders"

type OrderRepository struct {
	store store.DocStore
}

func NewOrderRepository(s store.DocStore) *OrderRepository {
	return &OrderRepository{store: s}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	doc, err := r.store.Get(ctx, OrderCollection, id)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := store.Decode(doc, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// BatchGetStatuses fetches only id and status for the given order ids in
// one batch. Absent ids are simply missing from the returned map.
func (r *OrderRepository) BatchGetStatuses(ctx context.Context, ids []string) (map[string]string, error) {
	docs, err := r.store.BatchGet(ctx, OrderCollection, ids, bson.M{"_id": 1, "status": 1})
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(docs))
	for _, doc := range docs {
		id, _ := doc["_id"].(string)
		status, _ := doc["status"].(string)
		statuses[id] = status
	}
	return statuses, nil
}

// BatchGetRaw fetches full order documents for detail hydration.
func (r *OrderRepository) BatchGetRaw(ctx context.Context, ids []string) ([]bson.M, error) {
	return r.store.BatchGet(ctx, OrderCollection, ids, nil)
}

// UpdateStatusIf applies the attribute set only while the order still has
// the status observed when the transition was decided; a lost race yields
// store.ErrConflict.
func (r *OrderRepository) UpdateStatusIf(ctx context.Context, id, expectedStatus string, attrs bson.M) (*models.Order, error) {
	doc, err := r.store.UpdateIf(ctx, OrderCollection, id, bson.M{"status": expectedStatus}, attrs)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := store.Decode(doc, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
