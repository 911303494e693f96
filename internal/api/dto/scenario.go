package dto

type ShopResponse struct {
	Name     string             `json:"name"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Products map[string]float64 `json:"products"`
}

type ListShopsResponse struct {
	Shops []ShopResponse `json:"shops"`
}

type ItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}
