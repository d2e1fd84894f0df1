package rest

import (
	"log"
	"net/http"

	"nacospay/internal/catalog"
	"nacospay/internal/transport/auth"
)

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	Success(w, "Fee catalog", catalog.List())
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	member, err := auth.GetMember(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	dashboard, err := h.dashboard.Dashboard(r.Context(), member)
	if err != nil {
		log.Printf("[HTTP] dashboard error: %v", err)
		ErrorInternal(w, "failed to load dashboard")
		return
	}

	Success(w, "Dashboard", dashboard)
}
