package scrapbook

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
	sb "github.com/evfilters/scrapbook-api/internal/scrapbook"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

type saveResponse struct {
	Message string   `json:"message"`
	Book    *sb.Book `json:"book"`
}

// Save upserts the whole document. The body must be the complete book;
// this is replace-by-key, not a merge.
func Save(st *scrapbooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		var book sb.Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httpx.ErrorJSON(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		saved, err := st.Put(r.Context(), id, &book)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, saveResponse{Message: "book saved", Book: saved})
	}
}
