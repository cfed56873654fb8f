package dto

type TrendResponse struct {
	Category   string `json:"category"`
	VisitCount int    `json:"visit_count"`
}

type SuggestionResponse struct {
	Card   CardResponse `json:"card"`
	Reason string       `json:"reason"`
	Rate   float64      `json:"rate"`
}

type InsightsResponse struct {
	Trends      []TrendResponse      `json:"trends"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}
