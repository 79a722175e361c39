package http

import (
	"context"
	"net/http"

	"farmledger/internal/report"
	"farmledger/internal/services"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.reports.Build)
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.reports.BuildExpenses)
}

func (s *Server) handleSaleReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.reports.BuildSales)
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request,
	build func(context.Context, []string, report.Selection) (*services.Report, error),
) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	query := r.URL.Query()
	rep, err := build(r.Context(), parseEstateIDs(query), parseSelection(query))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reportToWire(rep))
}
