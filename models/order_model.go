package models

import "time"

const (
	OrderStatusPending     = "pending"
	OrderStatusDelivered   = "delivered"
	OrderStatusUndelivered = "undelivered"
	OrderStatusCancelled   = "cancelled"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "COD"

	PaymentStatusPending = "PENDING"
	PaymentStatusDone    = "DONE"
)

type PaymentDetails struct {
	Method string `json:"method" bson:"method"`
	Status string `json:"status" bson:"status"`
	Via    string `json:"via,omitempty" bson:"via,omitempty"`
}

// StatusDetails records who moved an order into a terminal state and why.
type StatusDetails struct {
	Reason    string `json:"reason" bson:"reason"`
	UpdatedBy string `json:"updatedBy" bson:"updatedBy"`
}

type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// Order is a delivery order. Once created it is only mutated through the
// order service: pending -> delivered | undelivered | cancelled.
type Order struct {
	ID             string         `json:"id" bson:"_id"`
	Status         string         `json:"status" bson:"status"`
	PaymentDetails PaymentDetails `json:"paymentDetails" bson:"paymentDetails"`
	DeliveredAt    *time.Time     `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	DeliveredImage string         `json:"deliveredImage,omitempty" bson:"deliveredImage,omitempty"`
	StatusDetails  *StatusDetails `json:"statusDetails,omitempty" bson:"statusDetails,omitempty"`
	Items          []OrderItem    `json:"items" bson:"items"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Terminal reports whether no further status transition is legal.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDelivered ||
		o.Status == OrderStatusUndelivered ||
		o.Status == OrderStatusCancelled
}
