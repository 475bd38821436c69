package handlers

import (
	"net/http"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httpx.ErrorJSON(w, http.StatusNotFound, "not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "scrapbook-api",
		"docs":    "/api/book/{userId}",
	})
}
