// Package scrapbook holds the /api/book handlers: one file per verb, all
// fed by the document store. Every unexpected failure is logged with its
// cause and normalized to a generic 500 body.
package scrapbook

import (
	"errors"
	"log"
	"net/http"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
	"github.com/evfilters/scrapbook-api/internal/api/middlewares"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

const maxUserIDLen = 100

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("userId")
	if id == "" || len(id) > maxUserIDLen {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return "", false
	}
	return id, true
}

// writeStoreError maps store sentinels onto the wire; anything else is an
// internal error whose cause stays in the server log.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scrapbooks.ErrInvalid):
		httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scrapbooks.ErrNotFound):
		httpx.ErrorJSON(w, http.StatusNotFound, "book not found")
	case errors.Is(err, scrapbooks.ErrTooLarge):
		httpx.ErrorJSON(w, http.StatusRequestEntityTooLarge, "document too large")
	default:
		log.Printf("[Book] RequestID=%s %s %s failed: %v",
			middlewares.GetRequestID(r), r.Method, r.URL.Path, err)
		httpx.ErrorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}
