package dto

import "wanderai-backend/internal/budget"

// CreateExpenseRequest represents the payload to add an expense
type CreateExpenseRequest struct {
	Category    string   `json:"category"`
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"` // defaults to USD
	Date        string   `json:"date"`     // YYYY-MM-DD
	Description *string  `json:"description"`
}

// ExpenseResponse represents an expense in responses
type ExpenseResponse struct {
	ID          string  `json:"id"`
	TripID      string  `json:"trip_id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// ExpenseSummaryResponse is the budget-vs-spend view of a trip
type ExpenseSummaryResponse struct {
	TripID         string                `json:"trip_id"`
	Budget         float64               `json:"budget"`
	TotalSpent     float64               `json:"total_spent"`
	Remaining      float64               `json:"remaining"`
	PercentageUsed float64               `json:"percentage_used"`
	ByCategory     budget.CategoryTotals `json:"by_category"`
}
