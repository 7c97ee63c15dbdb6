package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"foodprint/internal/footprint"
	applog "foodprint/internal/log"
)

var (
	database         *gorm.DB
	engine           *footprint.Engine
	defaultNamespace string
)

// Configure installs the shared dependencies used by the handler
// functions. A nil database leaves the handlers in a degraded state that
// responds with 503.
func Configure(db *gorm.DB, namespace string) {
	database = db
	defaultNamespace = strings.TrimSpace(namespace)
	if defaultNamespace == "" {
		defaultNamespace = "default"
	}
	if db != nil {
		engine = footprint.New(footprint.NewGormStore(db))
	} else {
		engine = nil
	}
}

// requestNamespace resolves the mapping namespace for one request; the
// configured default applies when the query does not name one.
func requestNamespace(r *http.Request) string {
	if ns := strings.TrimSpace(r.URL.Query().Get("namespace")); ns != "" {
		return ns
	}
	return defaultNamespace
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
