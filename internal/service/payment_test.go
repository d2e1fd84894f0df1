package service

import (
	"context"
	"errors"
	"testing"

	"nacospay/internal/catalog"
	"nacospay/internal/clients"
	"nacospay/internal/domain"
)

func TestBuildGatewayRequest(t *testing.T) {
	svc := NewPaymentService(&fakeLedger{}, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(2)

	req, err := svc.BuildGatewayRequest(member, &item)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	if req.Reference == "" {
		t.Fatal("expected a generated reference")
	}
	if req.Amount != item.Amount*catalog.KoboFactor {
		t.Fatalf("expected kobo amount %d, got %d", item.Amount*catalog.KoboFactor, req.Amount)
	}
	if req.Email != member.Email {
		t.Fatalf("expected email %s, got %s", member.Email, req.Email)
	}
	if req.Metadata["payment_type"] != item.Name || req.Metadata["matric_number"] != member.MatricNumber {
		t.Fatalf("unexpected metadata: %v", req.Metadata)
	}

	// references must be unique per attempt
	req2, _ := svc.BuildGatewayRequest(member, &item)
	if req2.Reference == req.Reference {
		t.Fatal("expected a fresh reference per attempt")
	}
}

func TestBuildGatewayRequest_Validation(t *testing.T) {
	svc := NewPaymentService(&fakeLedger{}, &fakeGateway{}, newFakeKV(), nil, 0)
	item, _ := catalog.ItemByID(1)

	var ve *ValidationError
	if _, err := svc.BuildGatewayRequest(nil, &item); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for nil member, got %v", err)
	}
	if _, err := svc.BuildGatewayRequest(testMember(), nil); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for nil fee item, got %v", err)
	}
}

func TestRecordSuccess_CatalogAmountIsAuthoritative(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewPaymentService(ledger, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(2) // Department Week Fee, 3500

	// gateway payload claims a different amount; it must be ignored
	result := &clients.VerifyResult{Reference: "REF123", Status: "success", Amount: 1}

	record, err := svc.RecordSuccess(context.Background(), member, &item, result)
	if err != nil {
		t.Fatalf("record success: %v", err)
	}

	if record.Amount != 3500 {
		t.Fatalf("expected catalog amount 3500, got %d", record.Amount)
	}
	if record.Reference != "REF123" {
		t.Fatalf("expected reference REF123, got %s", record.Reference)
	}
	if record.Status != domain.StatusSuccess {
		t.Fatalf("expected success status, got %s", record.Status)
	}
	if record.StudentName != "Ada Obi" || record.MatricNumber != member.MatricNumber || record.Level != member.Level {
		t.Fatalf("snapshot fields not captured: %+v", record)
	}

	stored, _ := ledger.ListByMember(context.Background(), member.ID)
	if len(stored) != 1 || stored[0].Amount != 3500 {
		t.Fatalf("unexpected ledger contents: %+v", stored)
	}
}

func TestRecordSuccess_AppendFailureKeepsReference(t *testing.T) {
	ledger := &fakeLedger{appendErr: errors.New("store unavailable")}
	svc := NewPaymentService(ledger, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(2)

	_, err := svc.RecordSuccess(context.Background(), member, &item, &clients.VerifyResult{Reference: "REF123", Status: "success"})

	var re *RecordingError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecordingError, got %v", err)
	}
	if re.Reference != "REF123" {
		t.Fatalf("expected reference REF123 in error, got %s", re.Reference)
	}

	// nothing must be visible on the next read
	ledger.appendErr = nil
	records, _ := ledger.ListByMember(context.Background(), member.ID)
	if len(records) != 0 {
		t.Fatalf("expected empty ledger after failed append, got %d records", len(records))
	}
}

func TestRecordSuccess_DuplicateDoesNotDoubleCount(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewPaymentService(ledger, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(1)

	if _, err := svc.RecordSuccess(context.Background(), member, &item, &clients.VerifyResult{Reference: "REF-A", Status: "success"}); err != nil {
		t.Fatalf("first record: %v", err)
	}

	_, err := svc.RecordSuccess(context.Background(), member, &item, &clients.VerifyResult{Reference: "REF-B", Status: "success"})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid on second success, got %v", err)
	}

	records, _ := ledger.ListByMember(context.Background(), member.ID)
	status := Project(catalog.List(), records)
	if status.TotalPaid != item.Amount {
		t.Fatalf("expected total %d after duplicate attempt, got %d", item.Amount, status.TotalPaid)
	}
	if len(status.CompletedItems) != 1 {
		t.Fatalf("expected exactly one completed item, got %d", len(status.CompletedItems))
	}
}

func TestRecordSuccess_Preconditions(t *testing.T) {
	svc := NewPaymentService(&fakeLedger{}, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(1)

	var ve *ValidationError
	if _, err := svc.RecordSuccess(context.Background(), nil, &item, &clients.VerifyResult{Reference: "R"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for nil member, got %v", err)
	}
	if _, err := svc.RecordSuccess(context.Background(), member, nil, &clients.VerifyResult{Reference: "R"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for nil item, got %v", err)
	}
	if _, err := svc.RecordSuccess(context.Background(), member, &item, &clients.VerifyResult{}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty reference, got %v", err)
	}
}

func TestInitiateAndVerifyFlow(t *testing.T) {
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	kv := newFakeKV()
	svc := NewPaymentService(ledger, gateway, kv, nil, 0)
	member := testMember()

	init, err := svc.Initiate(context.Background(), member, 1)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if init.AuthorizationURL == "" || init.Reference == "" {
		t.Fatalf("incomplete initiation result: %+v", init)
	}
	if gateway.lastInit.Amount != 2500*catalog.KoboFactor {
		t.Fatalf("gateway saw amount %d, want %d", gateway.lastInit.Amount, 2500*catalog.KoboFactor)
	}

	record, err := svc.VerifyAndRecord(context.Background(), member, init.Reference)
	if err != nil {
		t.Fatalf("verify and record: %v", err)
	}
	if record.PaymentType != "Departmental Fee" || record.Amount != 2500 {
		t.Fatalf("unexpected record: %+v", record)
	}

	// the intent is consumed; verifying again must fail as unknown
	var ve *ValidationError
	if _, err := svc.VerifyAndRecord(context.Background(), member, init.Reference); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for consumed reference, got %v", err)
	}
}

func TestInitiate_AlreadyPaid(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewPaymentService(ledger, &fakeGateway{}, newFakeKV(), nil, 0)
	member := testMember()
	item, _ := catalog.ItemByID(1)

	if _, err := svc.RecordSuccess(context.Background(), member, &item, &clients.VerifyResult{Reference: "REF-1", Status: "success"}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if _, err := svc.Initiate(context.Background(), member, 1); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestVerifyAndRecord_NonSuccessIsGatewayError(t *testing.T) {
	gateway := &fakeGateway{verifyResult: &clients.VerifyResult{Reference: "", Status: "abandoned"}}
	kv := newFakeKV()
	svc := NewPaymentService(&fakeLedger{}, gateway, kv, nil, 0)
	member := testMember()

	init, err := svc.Initiate(context.Background(), member, 1)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	_, err = svc.VerifyAndRecord(context.Background(), member, init.Reference)
	var ge *GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GatewayError for non-success verify, got %v", err)
	}
}

func TestCancel_DiscardsIntent(t *testing.T) {
	kv := newFakeKV()
	svc := NewPaymentService(&fakeLedger{}, &fakeGateway{}, kv, nil, 0)
	member := testMember()

	init, err := svc.Initiate(context.Background(), member, 2)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if err := svc.Cancel(context.Background(), member, init.Reference); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := kv.Get(context.Background(), intentKey(init.Reference)); err == nil {
		t.Fatal("expected intent to be discarded")
	}

	// cancelling an unknown reference is a no-op
	if err := svc.Cancel(context.Background(), member, "missing"); err != nil {
		t.Fatalf("cancel unknown reference: %v", err)
	}
}
