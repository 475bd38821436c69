package router

import (
	"net/http"
	"time"

	"github.com/evfilters/scrapbook-api/internal/api/handlers"
	scrapbookh "github.com/evfilters/scrapbook-api/internal/api/handlers/scrapbook"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

func Router(store *scrapbooks.Store, start time.Time) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", handlers.RootHandler)
	mux.Handle("GET /health", handlers.Health(start))

	// Book document (method-specific 1.22 patterns)
	mux.Handle("GET /api/book/{userId}", scrapbookh.Get(store))
	mux.Handle("POST /api/book/{userId}", scrapbookh.Save(store))
	mux.Handle("PATCH /api/book/{userId}/page/{pageIndex}", scrapbookh.PatchPage(store))
	mux.Handle("DELETE /api/book/{userId}", scrapbookh.Delete(store))

	return mux
}
