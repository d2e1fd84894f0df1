package repository

import (
	"context"
	"database/sql"
	"errors"

	"nacospay/internal/domain"
)

// ErrDuplicateSuccess is returned by Append when a successful record for the
// same member and payment type already exists. The partial unique index in
// the schema makes the check-and-insert a single atomic operation, so two
// concurrent callbacks for the same fee can never both land.
var ErrDuplicateSuccess = errors.New("successful transaction already recorded for this member and payment type")

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts one ledger entry and returns its id. The ledger is
// append-only: there are no update or delete paths. A conflict on either the
// reference or the (member, payment type, success) index reports
// ErrDuplicateSuccess instead of inserting a second row.
func (r *TransactionRepository) Append(ctx context.Context, t domain.TransactionRecord) (string, error) {
	query := `
		INSERT INTO transactions
			(id, member_id, payment_type, amount, reference, status, created_at, student_name, matric_number, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		t.ID,
		t.MemberID,
		t.PaymentType,
		t.Amount,
		t.Reference,
		string(t.Status),
		t.CreatedAt,
		t.StudentName,
		t.MatricNumber,
		t.Level,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrDuplicateSuccess
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListByMember returns every ledger entry for a member. No ordering is
// promised; callers sort as they need.
func (r *TransactionRepository) ListByMember(ctx context.Context, memberID string) ([]domain.TransactionRecord, error) {
	query := `
		SELECT id, member_id, payment_type, amount, reference, status, created_at, student_name, matric_number, level
		FROM transactions
		WHERE member_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		var t domain.TransactionRecord
		var status string
		if err := rows.Scan(
			&t.ID,
			&t.MemberID,
			&t.PaymentType,
			&t.Amount,
			&t.Reference,
			&status,
			&t.CreatedAt,
			&t.StudentName,
			&t.MatricNumber,
			&t.Level,
		); err != nil {
			return nil, err
		}
		t.Status = domain.TransactionStatus(status)
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByReference looks one entry up by its gateway reference.
func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.TransactionRecord, error) {
	query := `
		SELECT id, member_id, payment_type, amount, reference, status, created_at, student_name, matric_number, level
		FROM transactions
		WHERE reference = $1
	`

	var t domain.TransactionRecord
	var status string
	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&t.ID,
		&t.MemberID,
		&t.PaymentType,
		&t.Amount,
		&t.Reference,
		&status,
		&t.CreatedAt,
		&t.StudentName,
		&t.MatricNumber,
		&t.Level,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TransactionStatus(status)
	return &t, nil
}
