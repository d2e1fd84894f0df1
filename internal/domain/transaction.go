package domain

import "time"

type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

// TransactionRecord is one immutable ledger entry. PaymentType carries the
// fee item's catalog name (the historical join key); Reference is the
// gateway-issued reference and doubles as the receipt number. StudentName,
// MatricNumber and Level are snapshotted at write time so receipts stay
// stable even if the member's profile changes later.
type TransactionRecord struct {
	ID           string            `json:"id"`
	MemberID     string            `json:"member_id"`
	PaymentType  string            `json:"payment_type"`
	Amount       int64             `json:"amount"`
	Reference    string            `json:"reference"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	StudentName  string            `json:"student_name"`
	MatricNumber string            `json:"matric_number"`
	Level        string            `json:"level"`
}
