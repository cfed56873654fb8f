package models

// Decision is the outcome of one point-of-sale evaluation. It is
// ephemeral: the caller notifies the user (or stays silent) and drops
// it. Exactly one of the flag combinations below is produced:
//
//	Found=false                       nothing to report this cycle
//	Found=false, Throttled=true       duplicate visit inside the window
//	Found=true,  NoInstruments=true   wallet is empty
//	Found=true,  NoMatch=true         wallet earns nothing on the category
//	Found=true,  Recommendation!=nil  actionable recommendation
type Decision struct {
	Found          bool            `json:"found"`
	Throttled      bool            `json:"throttled,omitempty"`
	NoInstruments  bool            `json:"no_instruments,omitempty"`
	NoMatch        bool            `json:"no_match,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// Recommendation is the user-facing payload of a positive decision.
// Delivery is the caller's job; the core only builds it.
type Recommendation struct {
	MerchantName string   `json:"merchant_name"`
	Category     Category `json:"category"`
	CardName     string   `json:"card_name"`
	RateText     string   `json:"rate_text"`
	Message      string   `json:"message"`
}
