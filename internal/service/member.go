package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nacospay/internal/domain"
	"nacospay/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemberStore interface {
	Create(ctx context.Context, m domain.Member) error
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MatricNumberExists(ctx context.Context, matric string) (bool, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, memberID string, ttl time.Duration) (string, error)
}

type RegisterInput struct {
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	Surname      string `json:"surname"`
	MatricNumber string `json:"matric_number"`
	Email        string `json:"email"`
	Level        string `json:"level"`
	Department   string `json:"department"`
	Password     string `json:"password"`
}

type MemberService struct {
	members  MemberStore
	tokens   TokenIssuer
	tokenTTL time.Duration
}

func NewMemberService(members MemberStore, tokens TokenIssuer, tokenTTL time.Duration) *MemberService {
	if tokenTTL <= 0 {
		tokenTTL = 72 * time.Hour
	}
	return &MemberService{
		members:  members,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

func (s *MemberService) Register(ctx context.Context, in RegisterInput) (*domain.Member, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.Surname = strings.TrimSpace(in.Surname)
	in.MatricNumber = strings.TrimSpace(in.MatricNumber)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Level = strings.TrimSpace(in.Level)

	switch {
	case in.FirstName == "":
		return nil, validationErrorf("first name is required")
	case in.Surname == "":
		return nil, validationErrorf("surname is required")
	case in.MatricNumber == "":
		return nil, validationErrorf("matric number is required")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return nil, validationErrorf("a valid email is required")
	case in.Level == "":
		return nil, validationErrorf("level is required")
	case len(in.Password) < 8:
		return nil, validationErrorf("password must be at least 8 characters")
	}
	if in.Department == "" {
		in.Department = "Computer Science"
	}

	if exists, err := s.members.EmailExists(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if exists {
		return nil, validationErrorf("email already exists")
	}
	if exists, err := s.members.MatricNumberExists(ctx, in.MatricNumber); err != nil {
		return nil, fmt.Errorf("check matric number: %w", err)
	} else if exists {
		return nil, validationErrorf("matric number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := domain.Member{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		MiddleName:   in.MiddleName,
		Surname:      in.Surname,
		MatricNumber: in.MatricNumber,
		Email:        in.Email,
		Level:        in.Level,
		Department:   in.Department,
		PasswordHash: string(hash),
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &member, nil
}

func (s *MemberService) Login(ctx context.Context, email, password string) (string, *domain.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, validationErrorf("email and password are required")
	}

	member, err := s.members.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return "", nil, validationErrorf("invalid email or password")
	}
	if err != nil {
		return "", nil, fmt.Errorf("find member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", nil, validationErrorf("invalid email or password")
	}

	token, err := s.tokens.Issue(ctx, member.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, member, nil
}
