package server

import (
	"errors"
	"log"
	"net/http"
)

var (
	errAuthRequired = errors.New("session required")
	errNotFound     = errors.New("not found")
	errForbidden    = errors.New("not allowed")
	errInvalidState = errors.New("action not valid in current state")
	errConflict     = errors.New("conflict")
	errUpstream     = errors.New("upstream unavailable")
)

// writeActionError maps the store's sentinel errors onto HTTP statuses.
// Unknown errors surface as a 500 with their message intact.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errAuthRequired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
