package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("encode response")
	}
}

// handleLogin exchanges the shared API key for a short-lived session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("ops API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(body.APIKey), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.catalog.Orders(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list orders")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Feedbacks(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list feedback")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.catalog.Rates(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("get rates")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, rates)
}
