package repositories

import (
	"context"

	"github.com/promodeagro/promodeagro-ecom-rider-api/models"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

const ProductCollection = "products"

type ProductRepository struct {
	store store.DocStore
}

func NewProductRepository(s store.DocStore) *ProductRepository {
	return &ProductRepository{store: s}
}

// BatchGet returns catalog metadata keyed by product id. Absent products
// are simply missing from the map.
func (r *ProductRepository) BatchGet(ctx context.Context, ids []string) (map[string]models.Product, error) {
	docs, err := r.store.BatchGet(ctx, ProductCollection, ids, nil)
	if err != nil {
		return nil, err
	}
	products := make(map[string]models.Product, len(docs))
	for _, doc := range docs {
		var product models.Product
		if err := store.Decode(doc, &product); err != nil {
			return nil, err
		}
		products[product.ID] = product
	}
	return products, nil
}

// Restock returns a cancelled line item's quantity to the product's stock.
func (r *ProductRepository) Restock(ctx context.Context, productID string, quantity int) error {
	return r.store.Add(ctx, ProductCollection, productID, "stockQuantity", quantity)
}
