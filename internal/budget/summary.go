// Package budget computes the budget-vs-spend view of a trip.
//
// Amounts are stored as NUMERIC(10,2) but summed here as float64. The small
// rounding error this introduces is accepted and kept for compatibility with
// existing clients.
package budget

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/google/uuid"

	"wanderai-backend/internal/models"
)

// CategoryTotal is the amount spent in one category
type CategoryTotal struct {
	Category string
	Amount   float64
}

// CategoryTotals keeps categories in first-seen order and marshals as a JSON
// object with keys in that order.
type CategoryTotals []CategoryTotal

// Get returns the total for category and whether it was seen
func (c CategoryTotals) Get(category string) (float64, bool) {
	for _, ct := range c {
		if ct.Category == category {
			return ct.Amount, true
		}
	}
	return 0, false
}

func (c CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ct := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ct.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ct.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary is the result of Summarize
type Summary struct {
	TripID         uuid.UUID
	Budget         float64
	TotalSpent     float64
	Remaining      float64
	PercentageUsed float64
	ByCategory     CategoryTotals
}

// Summarize totals expenses against budget. A nil budget counts as 0, and a
// budget of 0 or less always reports 0 percent used. Remaining goes negative
// on overspend. Categories are ordered by the first expense recorded in each,
// whatever order expenses arrive in.
func Summarize(tripID uuid.UUID, budget *float64, expenses []models.Expense) Summary {
	s := Summary{TripID: tripID, ByCategory: CategoryTotals{}}
	if budget != nil {
		s.Budget = *budget
	}

	expenses = slices.Clone(expenses)
	slices.SortStableFunc(expenses, func(a, b models.Expense) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	index := make(map[string]int)
	for _, e := range expenses {
		s.TotalSpent += e.Amount
		if i, ok := index[e.Category]; ok {
			s.ByCategory[i].Amount += e.Amount
			continue
		}
		index[e.Category] = len(s.ByCategory)
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category, Amount: e.Amount})
	}

	s.Remaining = s.Budget - s.TotalSpent
	if s.Budget > 0 {
		s.PercentageUsed = s.TotalSpent / s.Budget * 100
	}
	return s
}
