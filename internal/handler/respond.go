package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fsanano/storefront-client/internal/catalog"
	"github.com/fsanano/storefront-client/internal/service/storeapi"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	var authErr *storeapi.AuthError
	if errors.As(err, &authErr) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": authErr.Error()})
		return
	}

	var validationErr *catalog.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
		return
	}

	var requestErr *storeapi.RequestError
	if errors.As(err, &requestErr) {
		log.Printf("backend unreachable: %v", err)
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unreachable"})
		return
	}

	var statusErr *storeapi.StatusError
	if errors.As(err, &statusErr) {
		respondJSON(w, statusErr.Status, map[string]string{"error": statusErr.Error()})
		return
	}

	log.Printf("internal error: %v", err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
