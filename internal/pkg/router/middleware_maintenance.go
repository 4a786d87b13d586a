package router

import (
	"net/http"
	"strings"

	"github.com/tenangapp/tenang/internal/pkg/config"
)

// middlewareMaintenance answers 503 on routes listed under
// app.maintenance.endpoints, so single operations can be taken offline
// through configuration without a deploy.
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := maintenanceRoutes(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if blocked[matchedRoutePath(r)] {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func maintenanceRoutes(cfg config.Config) map[string]bool {
	routes := map[string]bool{}
	if cfg == nil {
		return routes
	}
	for _, route := range cfg.GetArray("app.maintenance.endpoints") {
		if route = strings.TrimSpace(route); route != "" {
			routes[route] = true
		}
	}
	return routes
}
