package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"nacospay/internal/clients"
	"nacospay/internal/domain"
	"nacospay/internal/repository"
)

// fakeLedger mimics the store contract including the uniqueness guard: at
// most one successful record per (member, payment type), unique references.
type fakeLedger struct {
	mu        sync.Mutex
	records   []domain.TransactionRecord
	appendErr error
	listErr   error
}

func (f *fakeLedger) Append(ctx context.Context, t domain.TransactionRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return "", f.appendErr
	}
	for _, rec := range f.records {
		if rec.Reference == t.Reference {
			return "", repository.ErrDuplicateSuccess
		}
		if rec.MemberID == t.MemberID && rec.PaymentType == t.PaymentType &&
			rec.Status == domain.StatusSuccess && t.Status == domain.StatusSuccess {
			return "", repository.ErrDuplicateSuccess
		}
	}
	f.records = append(f.records, t)
	return t.ID, nil
}

func (f *fakeLedger) ListByMember(ctx context.Context, memberID string) ([]domain.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.TransactionRecord
	for _, rec := range f.records {
		if rec.MemberID == memberID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeGateway struct {
	initResult   *clients.InitializeResult
	initErr      error
	verifyResult *clients.VerifyResult
	verifyErr    error

	lastInit clients.GatewayRequest
}

func (f *fakeGateway) Initialize(ctx context.Context, req clients.GatewayRequest) (*clients.InitializeResult, error) {
	f.lastInit = req
	if f.initErr != nil {
		return nil, f.initErr
	}
	if f.initResult != nil {
		return f.initResult, nil
	}
	return &clients.InitializeResult{
		AuthorizationURL: "https://checkout.example/" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*clients.VerifyResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verifyResult != nil {
		return f.verifyResult, nil
	}
	return &clients.VerifyResult{Reference: reference, Status: "success"}, nil
}

func (f *fakeGateway) PublicKey() string {
	return "pk_test_fake"
}

var errKeyMissing = errors.New("key not found")

type fakeKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{m: make(map[string]string)}
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := value.(string)
	if !ok {
		return errors.New("fakeKV only stores strings")
	}
	f.m[key] = s
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	if !ok {
		return "", errKeyMissing
	}
	return v, nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.m, k)
	}
	return nil
}

func testMember() *domain.Member {
	return &domain.Member{
		ID:           "member-1",
		FirstName:    "Ada",
		Surname:      "Obi",
		MatricNumber: "CSC/2021/001",
		Email:        "ada@example.com",
		Level:        "300l",
		Department:   "Computer Science",
	}
}
