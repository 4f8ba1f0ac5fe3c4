// Command function serves docflow as a Cloud Function. Clients are created on
// the first invocation and reused by later ones on the same instance.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"docflow/internal/app"
	"docflow/internal/platform/config"
	"docflow/internal/platform/logger"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/platform/httputil"
)

var (
	instance *app.App
	once     sync.Once
	initErr  error
)

func init() {
	functions.HTTP("HandleTranslations", handleTranslations)
}

func handleTranslations(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var cfg config.Server
		cfg, initErr = config.FromEnv()
		if initErr != nil {
			return
		}
		log := logger.New(cfg.IsDevelopment())
		slog.SetDefault(log)
		instance, initErr = app.New(context.Background(), cfg, log)
	})
	if initErr != nil {
		slog.ErrorContext(r.Context(), "docflow initialization failed", "error", initErr)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "service failed to initialize"))
		return
	}
	instance.Router.ServeHTTP(w, r)
}

// main runs the function locally; in Cloud Functions the framework invokes
// the registered handler directly.
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("funcframework.Start", "error", err)
		os.Exit(1)
	}
}
