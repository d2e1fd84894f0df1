package repository

import (
	"context"
	"database/sql"
	"errors"

	"nacospay/internal/domain"
)

var ErrMemberNotFound = errors.New("member not found")

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m domain.Member) error {
	query := `
		INSERT INTO members
			(id, first_name, middle_name, surname, matric_number, email, level, department, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.FirstName,
		m.MiddleName,
		m.Surname,
		m.MatricNumber,
		m.Email,
		m.Level,
		m.Department,
		m.PasswordHash,
	)
	return err
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	return r.findOne(ctx, "id", id)
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.findOne(ctx, "email", email)
}

func (r *MemberRepository) findOne(ctx context.Context, column, value string) (*domain.Member, error) {
	query := `
		SELECT id, first_name, middle_name, surname, matric_number, email, level, department, password_hash, created_at
		FROM members
		WHERE ` + column + ` = $1
	`

	var m domain.Member
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&m.ID,
		&m.FirstName,
		&m.MiddleName,
		&m.Surname,
		&m.MatricNumber,
		&m.Email,
		&m.Level,
		&m.Department,
		&m.PasswordHash,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		m.CreatedAt = &createdAt.Time
	}
	return &m, nil
}

func (r *MemberRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *MemberRepository) MatricNumberExists(ctx context.Context, matric string) (bool, error) {
	return r.exists(ctx, "matric_number", matric)
}

func (r *MemberRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var found bool
	query := `SELECT EXISTS (SELECT 1 FROM members WHERE ` + column + ` = $1)`
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
