package http

import (
	"net/http"

	"farmledger/internal/core"
)

func (s *Server) handleEstates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEstates(w, r)
	case http.MethodPost:
		s.createEstate(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listEstates(w http.ResponseWriter, r *http.Request) {
	estates, err := s.estates.ListEstates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]estateJSON, 0, len(estates))
	for _, e := range estates {
		out = append(out, estateToWire(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createEstate(w http.ResponseWriter, r *http.Request) {
	var req createEstateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := s.estates.CreateEstate(r.Context(), core.Estate{
		Name: sanitizeInput(req.Name),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
