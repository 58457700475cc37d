package domain

// InventoryItem is a stock-keeping record scoped to a restaurant.
type InventoryItem struct {
	SKU           string  `json:"sku" bson:"sku"`
	RestaurantRef string  `json:"restaurant_ref" bson:"restaurant_ref"`
	Category      string  `json:"category" bson:"category"`
	Name          string  `json:"name" bson:"name"`
	Price         float64 `json:"price" bson:"price"`
	Stock         float64 `json:"stock" bson:"stock"`
	LastOrder     int64   `json:"last_order" bson:"last_order"` // unix timestamp of last order touching this item
}

// MenuItem is a sellable item scoped to a restaurant. Active is toggled as a
// single-field mutation so a flag flip can never clobber the other fields.
type MenuItem struct {
	SKU           string   `json:"sku" bson:"sku"`
	RestaurantRef string   `json:"restaurant_ref" bson:"restaurant_ref"`
	Category      string   `json:"category" bson:"category"`
	Name          string   `json:"name" bson:"name"`
	Price         float64  `json:"price" bson:"price"`
	Ingredients   []string `json:"ingredients" bson:"ingredients"`
	Active        bool     `json:"active" bson:"active"`
}
