package domain

import "time"

// Restaurant is a tenant. CustomerCount is an eventually-consistent counter
// maintained alongside enrollments; it is never consulted for authorization.
type Restaurant struct {
	Reference     string    `json:"reference" bson:"reference"`
	Name          string    `json:"name" bson:"name"`
	Symbol        string    `json:"symbol" bson:"symbol"`
	OwnerKey      string    `json:"owner_key" bson:"owner_key"`
	URL           string    `json:"url" bson:"url"`
	CurrencyDecimals int    `json:"currency_decimals" bson:"currency_decimals"`
	CustomerCount int64     `json:"customer_count" bson:"customer_count"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
