package handlers

import "net/http"

// Meta reports deployment facts the frontend uses to adapt its UI.
func (a *App) Meta(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"has_serpapi": a.HasSerpAPI,
		"environment": a.AppEnv,
		"version":     a.Version,
	})
}
