package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/promodeagro/promodeagro-ecom-rider-api/models"
	"github.com/promodeagro/promodeagro-ecom-rider-api/pkg/logger"
	"github.com/promodeagro/promodeagro-ecom-rider-api/repositories"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

// internalOnlyFields never leave the service on hydrated orders.
var internalOnlyFields = []string{"_version", "taskToken", "__typename"}

// RunsheetService aggregates a rider's runs and hydrates runsheet detail.
// All operations are read-only except Accept.
type RunsheetService struct {
	runsheets *repositories.RunsheetRepository
	orders    *repositories.OrderRepository
	products  *repositories.ProductRepository
	log       *logger.Logger
}

func NewRunsheetService(
	runsheets *repositories.RunsheetRepository,
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
) *RunsheetService {
	return &RunsheetService{
		runsheets: runsheets,
		orders:    orders,
		products:  products,
		log:       logger.NewLogger("runsheet-service"),
	}
}

// ListSummaries returns one summary per pending/active runsheet of the
// rider. Order ids across all runsheets are deduplicated into a single
// batch fetch; an order missing from the store, or in any state other than
// delivered/undelivered, counts as pending.
func (s *RunsheetService) ListSummaries(ctx context.Context, riderID string) ([]models.RunsheetSummary, error) {
	if riderID == "" {
		return nil, ErrInvalidID
	}

	runsheets, err := s.runsheets.FindOpenByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var orderIDs []string
	for _, runsheet := range runsheets {
		for _, id := range runsheet.Orders {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			orderIDs = append(orderIDs, id)
		}
	}

	statuses := map[string]string{}
	if len(orderIDs) > 0 {
		statuses, err = s.orders.BatchGetStatuses(ctx, orderIDs)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]models.RunsheetSummary, 0, len(runsheets))
	for _, runsheet := range runsheets {
		total := len(runsheet.Orders)
		delivered, undelivered := 0, 0
		for _, id := range runsheet.Orders {
			switch statuses[id] {
			case models.OrderStatusDelivered:
				delivered++
			case models.OrderStatusUndelivered:
				undelivered++
			}
		}
		summaries = append(summaries, models.RunsheetSummary{
			ID:                runsheet.ID,
			Orders:            total,
			PendingOrders:     total - delivered - undelivered,
			Status:            runsheet.Status,
			DeliveredOrders:   delivered,
			UndeliveredOrders: undelivered,
			AmountCollectable: runsheet.AmountCollectable,
		})
	}
	return summaries, nil
}

// GetDetail returns the runsheet with its orders field replaced by the
// hydrated order documents. Line items are enriched with catalog metadata
// when available; enrichment is best-effort and never fails the request.
func (s *RunsheetService) GetDetail(ctx context.Context, requestID, runsheetID string) (bson.M, error) {
	if runsheetID == "" {
		return nil, ErrInvalidID
	}

	doc, err := s.runsheets.FindRawByID(ctx, runsheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunsheetNotFound
		}
		return nil, err
	}

	var runsheet models.Runsheet
	if err := store.Decode(doc, &runsheet); err != nil {
		return nil, err
	}

	orders, err := s.orders.BatchGetRaw(ctx, runsheet.Orders)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		for _, field := range internalOnlyFields {
			delete(order, field)
		}
	}

	s.enrichItems(ctx, requestID, orders)

	doc["orders"] = orders
	return doc, nil
}

// Accept moves the runsheet to active unconditionally; re-accepting just
// refreshes acceptedAt.
func (s *RunsheetService) Accept(ctx context.Context, runsheetID string) (*models.Runsheet, error) {
	if runsheetID == "" {
		return nil, ErrInvalidID
	}
	runsheet, err := s.runsheets.Accept(ctx, runsheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunsheetNotFound
		}
		return nil, err
	}
	return runsheet, nil
}

// enrichItems attaches catalog name/image/unit to every line item whose
// product is found. A failed catalog read leaves all items untouched.
func (s *RunsheetService) enrichItems(ctx context.Context, requestID string, orders []bson.M) {
	seen := map[string]struct{}{}
	var productIDs []string
	for _, order := range orders {
		for _, item := range orderItems(order) {
			id, _ := item["productId"].(string)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			productIDs = append(productIDs, id)
		}
	}
	if len(productIDs) == 0 {
		return
	}

	products, err := s.products.BatchGet(ctx, productIDs)
	if err != nil {
		s.log.Warn(requestID, "enrich_items", "catalog lookup failed: "+err.Error())
		return
	}

	for _, order := range orders {
		for _, item := range orderItems(order) {
			id, _ := item["productId"].(string)
			product, ok := products[id]
			if !ok {
				continue
			}
			item["product"] = bson.M{
				"name":  product.Name,
				"image": product.Image,
				"unit":  product.Unit,
			}
		}
	}
}

func orderItems(order bson.M) []bson.M {
	raw, ok := order["items"]
	if !ok {
		return nil
	}
	var items []bson.M
	switch list := raw.(type) {
	case primitive.A:
		for _, entry := range list {
			if item, ok := entry.(bson.M); ok {
				items = append(items, item)
			}
		}
	case []bson.M:
		items = list
	}
	return items
}
