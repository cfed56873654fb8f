package dto

type LocationCheckRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RecommendationResponse struct {
	MerchantName string `json:"merchant_name"`
	Category     string `json:"category"`
	CardName     string `json:"card_name"`
	RateText     string `json:"rate_text"`
	Message      string `json:"message"`
}

type DecisionResponse struct {
	Found          bool                    `json:"found"`
	Throttled      bool                    `json:"throttled,omitempty"`
	NoInstruments  bool                    `json:"no_instruments,omitempty"`
	NoMatch        bool                    `json:"no_match,omitempty"`
	Recommendation *RecommendationResponse `json:"recommendation,omitempty"`
}
