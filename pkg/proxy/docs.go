package proxy

import "net/http"

// docsJSON is the static API description served at /docs.
const docsJSON = `{
  "name": "stihirus-reader-api",
  "description": "Read-through cache proxy for stihi.ru author data. Cached payloads are served for up to the configured TTL; after that a refresh is attempted and stale data is served if the refresh fails.",
  "routes": {
    "GET /poems/{login}": "Author poems listing. Query: page (non-negative integer; 'null' or empty means no page), delay (non-negative integer, scraper throttling hint).",
    "GET /poems/{login}/filters": "Author poem filters (years and categories).",
    "GET /health": "Liveness probe.",
    "GET /metrics": "Prometheus metrics."
  },
  "errors": "{\"status\":\"error\",\"error\":{\"code\":<int>,\"message\":<string>}} with a matching HTTP status. Errors are returned only when the upstream fails and no cached payload exists."
}`

func docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(docsJSON))
}
