package rest

import (
	"errors"
	"log"
	"net/http"

	"nacospay/internal/service"
	"nacospay/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) initiatePayment(w http.ResponseWriter, r *http.Request) {
	req, err := ValidateInitiateRequest(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Error())
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	member, err := auth.GetMember(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	result, err := h.payments.Initiate(r.Context(), member, req.FeeItemID)
	if err != nil {
		h.writePaymentError(w, "initiate", err)
		return
	}

	Success(w, "Payment initiated", result)
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	member, err := auth.GetMember(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	record, err := h.payments.VerifyAndRecord(r.Context(), member, reference)
	if err != nil {
		h.writePaymentError(w, "verify", err)
		return
	}

	Success(w, "Payment recorded", record)
}

func (h *Handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	member, err := auth.GetMember(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.payments.Cancel(r.Context(), member, reference); err != nil {
		h.writePaymentError(w, "cancel", err)
		return
	}

	Success(w, "Payment cancelled", nil)
}

// writePaymentError maps the service error taxonomy onto HTTP responses. A
// RecordingError keeps the gateway reference in the message: the charge went
// through and the member must be able to quote it to support.
func (h *Handler) writePaymentError(w http.ResponseWriter, op string, err error) {
	var ve *service.ValidationError
	var ge *service.GatewayError
	var re *service.RecordingError

	switch {
	case errors.Is(err, service.ErrAlreadyPaid):
		ErrorConflict(w, "this fee has already been paid")
	case errors.As(err, &ve):
		ErrorBadRequest(w, ve.Message)
	case errors.As(err, &ge):
		log.Printf("[HTTP] payment %s gateway error: %v", op, err)
		ErrorBadGateway(w, "payment was not completed")
	case errors.As(err, &re):
		log.Printf("[HTTP] payment %s recording error: %v", op, err)
		ErrorInternal(w, re.Error())
	default:
		log.Printf("[HTTP] payment %s error: %v", op, err)
		ErrorInternal(w, "payment processing failed")
	}
}
