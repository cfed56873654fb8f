package dto

type CardResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Issuer    string             `json:"issuer"`
	Color     string             `json:"color"`
	Rewards   map[string]float64 `json:"rewards"`
	AnnualFee float64            `json:"annual_fee"`
}

type AddCardRequest struct {
	CardID string `json:"card_id"`
}
