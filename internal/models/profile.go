package models

import (
	"time"

	"github.com/google/uuid"
)

// FinancialProfile is optional user-supplied spending data, read-only
// from the core's perspective. It only feeds the eligibility guards of
// the insights planner.
type FinancialProfile struct {
	UserID          uuid.UUID `db:"user_id"`
	MonthlyRent     float64   `db:"monthly_rent"`
	MonthlyExpenses float64   `db:"monthly_expenses"`
	CardPayments    float64   `db:"card_payments"`
	CarPayments     float64   `db:"car_payments"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// MonthlySpend estimates total monthly spend as the sum of all
// reported fields. A missing profile estimates to zero.
func (p *FinancialProfile) MonthlySpend() float64 {
	if p == nil {
		return 0
	}
	return p.MonthlyRent + p.MonthlyExpenses + p.CardPayments + p.CarPayments
}
