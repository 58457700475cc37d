package domain

// RewardItem is a redeemable reward scoped to a restaurant. RewardPoints is
// the cost in points; the companion mint's metadata embeds these fields once
// at creation and is never retroactively inconsistent with them.
type RewardItem struct {
	RewardRef     string `json:"reward_ref" bson:"reward_ref"`
	RestaurantRef string `json:"restaurant_ref" bson:"restaurant_ref"`
	Category      string `json:"category" bson:"category"`
	RewardPoints  uint64 `json:"reward_points" bson:"reward_points"`
	MintKey       string `json:"mint_key" bson:"mint_key"`
	URI           string `json:"uri" bson:"uri"`
}
