package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wanderai-backend/internal/budget"
	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// ExpenseStore is the expense persistence
type ExpenseStore interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error)
	Create(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, expenseID, tripID uuid.UUID) error
}

// ExpensesHandler manages trip expenses
type ExpensesHandler struct {
	trips    TripReader
	expenses ExpenseStore
	log      *slog.Logger
}

// NewExpensesHandler creates a new ExpensesHandler
func NewExpensesHandler(trips TripReader, expenses ExpenseStore, log *slog.Logger) *ExpensesHandler {
	return &ExpensesHandler{trips: trips, expenses: expenses, log: log.With("component", "expenses")}
}

func (h *ExpensesHandler) ownedTrip(w http.ResponseWriter, r *http.Request) (*models.Trip, bool) {
	user, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	tripID, ok := utils.PathUUID(w, r, "trip_id")
	if !ok {
		return nil, false
	}
	trip, err := h.trips.GetForUser(r.Context(), tripID, user.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Trip"))
		return nil, false
	}
	return trip, true
}

// ListExpenses handles GET /v1/expenses/{trip_id}/expenses
// @Summary List trip expenses, newest date first
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/expenses/{trip_id}/expenses [get]
func (h *ExpensesHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenses.ListByTrip(r.Context(), trip.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, toExpenseResponse(&expenses[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// CreateExpense handles POST /v1/expenses/{trip_id}/expenses
// @Summary Add an expense to a trip
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/expenses/{trip_id}/expenses [post]
func (h *ExpensesHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		utils.WriteError(w, r, nil, common.Validation("category is required", map[string]any{"field": "category"}))
		return
	}
	if req.Amount == nil {
		utils.WriteError(w, r, nil, common.Validation("amount is required", map[string]any{"field": "amount"}))
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.WriteError(w, r, nil, common.Validation("date must be YYYY-MM-DD", map[string]any{"field": "date"}))
		return
	}

	expense := &models.Expense{
		TripID:      trip.ID,
		Category:    req.Category,
		Amount:      *req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Date:        date,
		Description: req.Description,
	}
	if err := h.expenses.Create(r.Context(), expense); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /v1/expenses/{trip_id}/expenses/{expense_id}
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param expense_id path string true "Expense ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/expenses/{trip_id}/expenses/{expense_id} [delete]
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}
	expenseID, ok := utils.PathUUID(w, r, "expense_id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(r.Context(), expenseID, trip.ID); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Expense"))
		return
	}
	utils.WriteNoContent(w)
}

// Summary handles GET /v1/expenses/{trip_id}/expenses/summary
// @Summary Budget versus spend for a trip
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.ExpenseSummaryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/expenses/{trip_id}/expenses/summary [get]
func (h *ExpensesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenses.ListByTrip(r.Context(), trip.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	s := budget.Summarize(trip.ID, trip.Budget, expenses)
	utils.WriteJSONResponse(w, http.StatusOK, dto.ExpenseSummaryResponse{
		TripID:         s.TripID.String(),
		Budget:         s.Budget,
		TotalSpent:     s.TotalSpent,
		Remaining:      s.Remaining,
		PercentageUsed: s.PercentageUsed,
		ByCategory:     s.ByCategory,
	})
}
