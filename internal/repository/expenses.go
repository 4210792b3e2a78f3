package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
)

type ExpenseRepository struct {
	db DBTX
}

func NewExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListByTrip returns the trip's expenses, most recent date first
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, trip_id, category, amount, currency, date, description, created_at
           FROM expenses
          WHERE trip_id = $1
          ORDER BY date DESC, created_at DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.TripID, &e.Category, &e.Amount, &e.Currency, &e.Date, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Create inserts e, defaulting the currency to USD.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Currency == "" {
		e.Currency = models.DefaultCurrency
	}
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO expenses (id, trip_id, category, amount, currency, date, description, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.TripID, e.Category, e.Amount, e.Currency, e.Date, e.Description, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, expenseID, tripID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND trip_id = $2`, expenseID, tripID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
