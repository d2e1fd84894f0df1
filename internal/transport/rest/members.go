package rest

import (
	"errors"
	"log"
	"net/http"

	"nacospay/internal/domain"
	"nacospay/internal/service"
)

type memberView struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name,omitempty"`
	Surname      string `json:"surname"`
	MatricNumber string `json:"matric_number"`
	Email        string `json:"email"`
	Level        string `json:"level"`
	Department   string `json:"department"`
}

func toMemberView(m *domain.Member) memberView {
	return memberView{
		ID:           m.ID,
		FirstName:    m.FirstName,
		MiddleName:   m.MiddleName,
		Surname:      m.Surname,
		MatricNumber: m.MatricNumber,
		Email:        m.Email,
		Level:        m.Level,
		Department:   m.Department,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	input, err := ValidateRegisterRequest(r)
	if err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	member, err := h.members.Register(r.Context(), *input)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Message)
			return
		}
		log.Printf("[HTTP] register error: %v", err)
		ErrorInternal(w, "registration failed")
		return
	}

	SuccessCreated(w, "Registered", toMemberView(member))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, err := ValidateLoginRequest(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Error())
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	token, member, err := h.members.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			ErrorUnauthorized(w, ve.Message)
			return
		}
		log.Printf("[HTTP] login error: %v", err)
		ErrorInternal(w, "login failed")
		return
	}

	Success(w, "Logged in", map[string]interface{}{
		"token":  token,
		"member": toMemberView(member),
	})
}
