package models

// Product is catalog metadata used to enrich order line items, plus the
// stock counter restocked when a delivery is cancelled.
type Product struct {
	ID            string  `json:"productId" bson:"_id"`
	Name          string  `bson:"name" json:"name"`
	Image         string  `bson:"image" json:"image,omitempty"`
	Unit          string  `bson:"unit" json:"unit,omitempty"`
	Price         float64 `bson:"price" json:"price"`
	StockQuantity int     `bson:"stockQuantity" json:"stockQuantity,omitempty"`
}
