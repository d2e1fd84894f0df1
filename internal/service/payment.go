package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"nacospay/internal/catalog"
	"nacospay/internal/clients"
	"nacospay/internal/domain"
	"nacospay/internal/repository"

	"github.com/google/uuid"
)

// LedgerRepository is the ledger store adapter: append-only writes and
// equality-filtered reads by member.
type LedgerRepository interface {
	Append(ctx context.Context, t domain.TransactionRecord) (string, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.TransactionRecord, error)
}

type PaymentGateway interface {
	Initialize(ctx context.Context, req clients.GatewayRequest) (*clients.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*clients.VerifyResult, error)
	PublicKey() string
}

// KeyValueStore is the slice of the redis client the payment flow needs:
// pending intents and dashboard cache invalidation.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// paymentIntent is the in-flight selection between initiation and the
// gateway callback. It lives in redis under the reference with a TTL; an
// abandoned checkout simply ages out.
type paymentIntent struct {
	MemberID  string    `json:"member_id"`
	FeeItemID int       `json:"fee_item_id"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

type InitiationResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	PublicKey        string `json:"public_key,omitempty"`
}

type PaymentService struct {
	ledger    LedgerRepository
	gateway   PaymentGateway
	kv        KeyValueStore
	ws        *clients.WebSocketClient
	intentTTL time.Duration
}

func NewPaymentService(ledger LedgerRepository, gateway PaymentGateway, kv KeyValueStore, ws *clients.WebSocketClient, intentTTL time.Duration) *PaymentService {
	if intentTTL <= 0 {
		intentTTL = 30 * time.Minute
	}
	return &PaymentService{
		ledger:    ledger,
		gateway:   gateway,
		kv:        kv,
		ws:        ws,
		intentTTL: intentTTL,
	}
}

func intentKey(reference string) string {
	return "intents:" + reference
}

func dashboardKey(memberID string) string {
	return "dashboard:" + memberID
}

// BuildGatewayRequest assembles one payment attempt: a fresh random
// reference, the member's email, the catalog amount in kobo, and metadata
// tagging the fee item and matric number.
func (s *PaymentService) BuildGatewayRequest(member *domain.Member, item *domain.FeeItem) (clients.GatewayRequest, error) {
	if member == nil {
		return clients.GatewayRequest{}, validationErrorf("member is required")
	}
	if item == nil {
		return clients.GatewayRequest{}, validationErrorf("fee item is required")
	}

	req := clients.GatewayRequest{
		Reference: uuid.NewString(),
		Email:     member.Email,
		Amount:    item.Amount * catalog.KoboFactor,
		Metadata: map[string]string{
			"payment_type":  item.Name,
			"matric_number": member.MatricNumber,
		},
	}
	if s.gateway != nil {
		req.PublicKey = s.gateway.PublicKey()
	}
	return req, nil
}

// Initiate opens a gateway checkout session for one catalog item and parks
// the selection in the intent store until the gateway calls back.
func (s *PaymentService) Initiate(ctx context.Context, member *domain.Member, feeItemID int) (*InitiationResult, error) {
	if member == nil {
		return nil, validationErrorf("member is required")
	}
	item, ok := catalog.ItemByID(feeItemID)
	if !ok {
		return nil, validationErrorf("unknown fee item %d", feeItemID)
	}
	if s.kv == nil {
		return nil, errors.New("intent store not configured")
	}

	// advisory early rejection; the store-level guard in Append is what
	// actually prevents a double payment
	if records, err := s.ledger.ListByMember(ctx, member.ID); err == nil {
		for _, rec := range records {
			if rec.PaymentType == item.Name && rec.Status == domain.StatusSuccess {
				return nil, ErrAlreadyPaid
			}
		}
	}

	req, err := s.BuildGatewayRequest(member, &item)
	if err != nil {
		return nil, err
	}

	intent := paymentIntent{
		MemberID:  member.ID,
		FeeItemID: item.ID,
		Reference: req.Reference,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("marshal intent: %w", err)
	}
	if err := s.kv.Set(ctx, intentKey(req.Reference), string(data), s.intentTTL); err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}

	init, err := s.gateway.Initialize(ctx, req)
	if err != nil {
		_ = s.kv.Del(ctx, intentKey(req.Reference))
		return nil, &GatewayError{Op: "initialize", Err: err}
	}

	reference := init.Reference
	if reference == "" {
		reference = req.Reference
	}

	return &InitiationResult{
		Reference:        reference,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
		PublicKey:        req.PublicKey,
	}, nil
}

// Cancel discards an in-flight selection. Nothing was written to the ledger,
// so there is nothing to roll back; a missing intent is not an error.
func (s *PaymentService) Cancel(ctx context.Context, member *domain.Member, reference string) error {
	if member == nil {
		return validationErrorf("member is required")
	}
	if reference == "" {
		return validationErrorf("reference is required")
	}
	if s.kv == nil {
		return nil
	}

	data, err := s.kv.Get(ctx, intentKey(reference))
	if err != nil {
		return nil
	}
	var intent paymentIntent
	if err := json.Unmarshal([]byte(data), &intent); err != nil || intent.MemberID != member.ID {
		return nil
	}
	return s.kv.Del(ctx, intentKey(reference))
}

// VerifyAndRecord is the callback path: confirm the reference with the
// gateway server-side, then reconcile it into the ledger. RecordSuccess is
// never reachable with an unverified result.
func (s *PaymentService) VerifyAndRecord(ctx context.Context, member *domain.Member, reference string) (*domain.TransactionRecord, error) {
	if member == nil {
		return nil, validationErrorf("member is required")
	}
	if reference == "" {
		return nil, validationErrorf("reference is required")
	}
	if s.kv == nil {
		return nil, errors.New("intent store not configured")
	}

	data, err := s.kv.Get(ctx, intentKey(reference))
	if err != nil {
		return nil, validationErrorf("unknown or expired payment reference %s", reference)
	}
	var intent paymentIntent
	if err := json.Unmarshal([]byte(data), &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	if intent.MemberID != member.ID {
		return nil, validationErrorf("payment reference %s does not belong to this member", reference)
	}

	item, ok := catalog.ItemByID(intent.FeeItemID)
	if !ok {
		return nil, validationErrorf("fee item %d no longer in catalog", intent.FeeItemID)
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, &GatewayError{Op: "verify", Err: err}
	}
	if result.Status != "success" {
		return nil, &GatewayError{Op: "verify", Err: fmt.Errorf("gateway reports status %q for reference %s", result.Status, reference)}
	}

	record, err := s.RecordSuccess(ctx, member, &item, result)
	if err != nil {
		return nil, err
	}

	_ = s.kv.Del(ctx, intentKey(reference))
	return record, nil
}

// RecordSuccess turns one verified gateway success into exactly one durable
// ledger entry. The amount written is the catalog amount; whatever amount the
// gateway payload claims is ignored. On an append failure the gateway-side
// payment already happened, so the error keeps the reference visible and no
// retry of the charge is attempted.
func (s *PaymentService) RecordSuccess(ctx context.Context, member *domain.Member, item *domain.FeeItem, result *clients.VerifyResult) (*domain.TransactionRecord, error) {
	if member == nil {
		return nil, validationErrorf("member is required")
	}
	if item == nil {
		return nil, validationErrorf("fee item is required")
	}
	if result == nil || result.Reference == "" {
		return nil, validationErrorf("gateway result with a reference is required")
	}

	record := domain.TransactionRecord{
		ID:           uuid.NewString(),
		MemberID:     member.ID,
		PaymentType:  item.Name,
		Amount:       item.Amount,
		Reference:    result.Reference,
		Status:       domain.StatusSuccess,
		CreatedAt:    time.Now().UTC(),
		StudentName:  member.FullName(),
		MatricNumber: member.MatricNumber,
		Level:        member.Level,
	}

	id, err := s.ledger.Append(ctx, record)
	if errors.Is(err, repository.ErrDuplicateSuccess) {
		return nil, ErrAlreadyPaid
	}
	if err != nil {
		return nil, &RecordingError{Reference: result.Reference, Err: err}
	}
	if id == "" {
		return nil, &RecordingError{Reference: result.Reference, Err: errors.New("store returned no record id")}
	}
	record.ID = id

	if s.kv != nil {
		if err := s.kv.Del(ctx, dashboardKey(member.ID)); err != nil {
			log.Printf("dashboard cache invalidate for %s: %v", member.ID, err)
		}
	}
	_ = s.ws.NotifyPaymentRecorded(ctx, member.ID, record.Reference, record.PaymentType, record.Amount)

	return &record, nil
}
