package http

import (
	"net/http"
	"strings"

	"farmledger/internal/core"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	date, err := parseWireDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.expenses.CreateExpense(r.Context(), core.Expense{
		EstateID:    strings.TrimSpace(req.EstateID),
		Date:        date,
		Category:    sanitizeInput(req.Category),
		Amount:      core.MoneyFromRupees(req.Amount),
		Description: sanitizeInput(req.Description),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req createSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	date, err := parseWireDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sale := core.Sale{
		EstateID:  strings.TrimSpace(req.EstateID),
		Date:      date,
		BuyerName: sanitizeInput(req.BuyerName),
		Items:     make([]core.SaleItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		sale.Items = append(sale.Items, core.SaleItem{
			Crop:       sanitizeInput(item.Crop),
			SubType:    sanitizeInput(item.SubType),
			WeightKg:   item.WeightKg,
			PricePerKg: core.MoneyFromRupees(item.PricePerKg),
		})
	}

	id, err := s.sales.CreateSale(r.Context(), sale)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
