package swagger

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var spec []byte

// GetHandler serves the OpenAPI document at /openapi.yaml.
func GetHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec)
	})

	return mux
}
