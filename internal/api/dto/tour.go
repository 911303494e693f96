package dto

type TourWeights struct {
	Cost     float64 `json:"cost"`
	Distance float64 `json:"distance"`
}

type TourRequest struct {
	Strategy string       `json:"strategy"`
	Weights  *TourWeights `json:"weights"`
}

// DecisionResponse is one record of the merged chronological decision
// stream. Kind is "travel" or "purchase"; the matching field set is filled.
type DecisionResponse struct {
	Kind string `json:"kind"`

	From string  `json:"from,omitempty"`
	To   string  `json:"to,omitempty"`
	Time float64 `json:"time,omitempty"`

	Item     string  `json:"item,omitempty"`
	Shop     string  `json:"shop,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`

	Cost float64 `json:"cost,omitempty"`
}

type CheckResponse struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

type TourResponse struct {
	PlanID      string             `json:"plan_id"`
	Strategy    string             `json:"strategy"`
	Cost        float64            `json:"cost"`
	Duration    float64            `json:"duration"`
	Items       map[string]int     `json:"items"`
	Unavailable []string           `json:"unavailable,omitempty"`
	Decisions   []DecisionResponse `json:"decisions"`
	Checks      []CheckResponse    `json:"checks"`
	Valid       bool               `json:"valid"`
}
