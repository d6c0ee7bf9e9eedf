package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/promodeagro/promodeagro-ecom-rider-api/models"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

const RunsheetCollection = "runsheets"

type RunsheetRepository struct {
	store store.DocStore
}

func NewRunsheetRepository(s store.DocStore) *RunsheetRepository {
	return &RunsheetRepository{store: s}
}

func (r *RunsheetRepository) FindByID(ctx context.Context, id string) (*models.Runsheet, error) {
	doc, err := r.store.Get(ctx, RunsheetCollection, id)
	if err != nil {
		return nil, err
	}
	var runsheet models.Runsheet
	if err := store.Decode(doc, &runsheet); err != nil {
		return nil, err
	}
	return &runsheet, nil
}

// FindRawByID returns the runsheet as a raw document, used by the detail
// endpoint which swaps the orders field in place.
func (r *RunsheetRepository) FindRawByID(ctx context.Context, id string) (bson.M, error) {
	return r.store.Get(ctx, RunsheetCollection, id)
}

// FindOpenByRider returns the rider's runsheets still in pending or active
// status. Backed by the riderId index.
func (r *RunsheetRepository) FindOpenByRider(ctx context.Context, riderID string) ([]models.Runsheet, error) {
	docs, err := r.store.Query(ctx, RunsheetCollection, bson.M{
		"riderId": riderID,
		"status":  bson.M{"$in": []string{models.RunsheetStatusPending, models.RunsheetStatusActive}},
	})
	if err != nil {
		return nil, err
	}
	runsheets := make([]models.Runsheet, 0, len(docs))
	for _, doc := range docs {
		var runsheet models.Runsheet
		if err := store.Decode(doc, &runsheet); err != nil {
			return nil, err
		}
		runsheets = append(runsheets, runsheet)
	}
	return runsheets, nil
}

// Accept marks the runsheet active and stamps acceptedAt. Re-accepting an
// already active runsheet just refreshes the stamp.
func (r *RunsheetRepository) Accept(ctx context.Context, id string) (*models.Runsheet, error) {
	doc, err := r.store.Update(ctx, RunsheetCollection, id, bson.M{
		"status":     models.RunsheetStatusActive,
		"acceptedAt": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	var runsheet models.Runsheet
	if err := store.Decode(doc, &runsheet); err != nil {
		return nil, err
	}
	return &runsheet, nil
}
