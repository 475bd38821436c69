package scrapbook

import (
	"net/http"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

// Get returns the user's book, creating the default document on first read.
func Get(st *scrapbooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		book, err := st.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, book)
	}
}
