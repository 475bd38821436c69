package scrapbook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/evfilters/scrapbook-api/internal/api/httpx"
	sb "github.com/evfilters/scrapbook-api/internal/scrapbook"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

// PatchPage replaces one page (or appends when the index equals the page
// count). The rest of the document is untouched.
func PatchPage(st *scrapbooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(w, r)
		if !ok {
			return
		}

		idx, err := strconv.Atoi(r.PathValue("pageIndex"))
		if err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid page index")
			return
		}

		var page sb.Page
		if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httpx.ErrorJSON(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if _, err := st.PatchPage(r.Context(), id, idx, page); err != nil {
			writeStoreError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "page saved"})
	}
}
