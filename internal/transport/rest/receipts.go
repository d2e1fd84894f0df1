package rest

import (
	"errors"
	"log"
	"net/http"

	"nacospay/internal/service"
	"nacospay/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) generateReceipt(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	member, err := auth.GetMember(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	artifact, err := h.receipts.Generate(r.Context(), member, reference)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.Is(err, service.ErrReceiptNotFound):
			ErrorNotFound(w, "no successful payment found for this reference")
		case errors.As(err, &ve):
			ErrorBadRequest(w, ve.Message)
		default:
			log.Printf("[HTTP] receipt error: %v", err)
			ErrorInternal(w, "failed to generate receipt")
		}
		return
	}

	Success(w, "Receipt generated", artifact)
}
