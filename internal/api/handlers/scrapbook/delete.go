package scrapbook

import (
	"net/http"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

// Delete removes the user's book. Deleting a book that does not exist
// succeeds; the next GET re-seeds the default.
func Delete(st *scrapbooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		if err := st.Remove(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
	}
}
