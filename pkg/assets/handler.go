package assets

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/connect/internal/errors"
)

// Handler serves GET /assets/{name} from store. It must be mounted on a chi
// route with a {name} parameter.
func Handler(store Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		a, err := store.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, "E300") {
				http.NotFound(w, r)
				return
			}
			logger.Error("asset open failed", "name", name, "err", err)
			http.Error(w, "asset backend unavailable", http.StatusBadGateway)
			return
		}
		defer a.Body.Close()

		h := w.Header()
		h.Set("Content-Type", a.ContentType)
		h.Set("Cache-Control", "public, max-age=3600")
		if a.Size > 0 {
			h.Set("Content-Length", strconv.FormatInt(a.Size, 10))
		}
		if !a.ModTime.IsZero() {
			h.Set("Last-Modified", a.ModTime.UTC().Format(http.TimeFormat))
		}
		if _, err := io.Copy(w, a.Body); err != nil {
			logger.Warn("asset write failed", "name", name, "err", err)
		}
	})
}
