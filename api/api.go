// Package api holds the embedded OpenAPI document for the service.
package api

import (
	_ "embed"
	"net/http"
)

// Spec is the OpenAPI 3 document describing the HTTP surface.
//
//go:embed openapi.yaml
var Spec []byte

// SpecHandler serves the OpenAPI document.
func SpecHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(Spec)
	}
}
