package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"nacospay/internal/service"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLoginRequest(r *http.Request) (*LoginRequest, error) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}
	return &req, nil
}

func ValidateRegisterRequest(r *http.Request) (*service.RegisterInput, error) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	// field-level rules live in the member service; the transport only
	// rejects bodies that are not JSON objects at all
	return &req, nil
}

type InitiatePaymentRequest struct {
	FeeItemID int `json:"fee_item_id"`
}

func ValidateInitiateRequest(r *http.Request) (*InitiatePaymentRequest, error) {
	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.FeeItemID <= 0 {
		return nil, &ValidationError{Field: "fee_item_id", Message: "fee_item_id is required and must be positive"}
	}
	return &req, nil
}
