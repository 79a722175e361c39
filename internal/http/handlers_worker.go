package http

import (
	"net/http"
	"strings"

	"farmledger/internal/core"
	"farmledger/internal/services"
)

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listWorkers(w, r)
	case http.MethodPost:
		s.createWorker(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listWorkers(w http.ResponseWriter, r *http.Request) {
	estateID := strings.TrimSpace(r.URL.Query().Get("estate"))
	workers, err := s.workers.ListWorkers(r.Context(), estateID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]workerJSON, 0, len(workers))
	for _, worker := range workers {
		out = append(out, workerToWire(worker))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createWorker(w http.ResponseWriter, r *http.Request) {
	var req createWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := s.workers.CreateWorker(r.Context(), core.Worker{
		EstateID:  strings.TrimSpace(req.EstateID),
		Name:      sanitizeInput(req.Name),
		Phone:     sanitizeInput(req.Phone),
		DailyWage: core.MoneyFromRupees(req.DailyWage),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handlePayWage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req payWageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := s.workers.PayWage(r.Context(), services.WagePayment{
		WorkerID:    strings.TrimSpace(req.WorkerID),
		Year:        req.Year,
		Month:       req.Month,
		WeekOfMonth: req.WeekOfMonth,
		DaysWorked:  req.DaysWorked,
		Deduction:   core.MoneyFromRupees(req.Deduction),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
