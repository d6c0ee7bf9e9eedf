package models

import "time"

const (
	RunsheetStatusPending   = "pending"
	RunsheetStatusActive    = "active"
	RunsheetStatusCompleted = "completed"
)

// Runsheet is a rider's delivery run. Orders holds order ids only; the
// store enforces no referential integrity, so a listed id may point at a
// missing order.
type Runsheet struct {
	ID                string     `json:"id" bson:"_id"`
	RiderID           string     `json:"riderId" bson:"riderId"`
	Status            string     `json:"status" bson:"status"`
	Orders            []string   `json:"orders" bson:"orders"`
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	AmountCollectable float64    `json:"amountCollectable" bson:"amountCollectable"`
	AmountCollected   float64    `json:"amountCollected" bson:"amountCollected"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// RunsheetSummary is the per-runsheet roll-up shown on the rider's home
// screen. PendingOrders + DeliveredOrders + UndeliveredOrders == Orders.
type RunsheetSummary struct {
	ID                string  `json:"id"`
	Orders            int     `json:"orders"`
	PendingOrders     int     `json:"pendingOrders"`
	Status            string  `json:"status"`
	DeliveredOrders   int     `json:"deliveredOrders"`
	UndeliveredOrders int     `json:"undeliveredOrders"`
	AmountCollectable float64 `json:"amountCollectable"`
}
