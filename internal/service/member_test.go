package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nacospay/internal/domain"
	"nacospay/internal/repository"
)

type fakeMemberStore struct {
	members map[string]domain.Member // keyed by email
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[string]domain.Member)}
}

func (f *fakeMemberStore) Create(ctx context.Context, m domain.Member) error {
	f.members[m.Email] = m
	return nil
}

func (f *fakeMemberStore) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrMemberNotFound
}

func (f *fakeMemberStore) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m, ok := f.members[email]
	if !ok {
		return nil, repository.ErrMemberNotFound
	}
	out := m
	return &out, nil
}

func (f *fakeMemberStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.members[email]
	return ok, nil
}

func (f *fakeMemberStore) MatricNumberExists(ctx context.Context, matric string) (bool, error) {
	for _, m := range f.members {
		if m.MatricNumber == matric {
			return true, nil
		}
	}
	return false, nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(ctx context.Context, memberID string, ttl time.Duration) (string, error) {
	return "1|token-for-" + memberID, nil
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName:    "Ada",
		Surname:      "Obi",
		MatricNumber: "CSC/2021/001",
		Email:        "Ada@Example.com",
		Level:        "300l",
		Password:     "correct horse",
	}
}

func TestRegister_Succeeds(t *testing.T) {
	store := newFakeMemberStore()
	svc := NewMemberService(store, fakeTokenIssuer{}, 0)

	member, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if member.ID == "" {
		t.Fatal("expected generated member id")
	}
	if member.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", member.Email)
	}
	if member.Department != "Computer Science" {
		t.Fatalf("expected default department, got %s", member.Department)
	}
	if member.PasswordHash == "" || member.PasswordHash == "correct horse" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegister_DuplicateEmailAndMatric(t *testing.T) {
	store := newFakeMemberStore()
	svc := NewMemberService(store, fakeTokenIssuer{}, 0)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	var ve *ValidationError

	dup := registerInput()
	dup.MatricNumber = "CSC/2021/999"
	if _, err := svc.Register(context.Background(), dup); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for duplicate email, got %v", err)
	}

	dup = registerInput()
	dup.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), dup); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for duplicate matric number, got %v", err)
	}
}

func TestRegister_RequiredFields(t *testing.T) {
	svc := NewMemberService(newFakeMemberStore(), fakeTokenIssuer{}, 0)

	var ve *ValidationError
	in := registerInput()
	in.FirstName = ""
	if _, err := svc.Register(context.Background(), in); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing first name, got %v", err)
	}

	in = registerInput()
	in.Password = "short"
	if _, err := svc.Register(context.Background(), in); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for short password, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeMemberStore()
	svc := NewMemberService(store, fakeTokenIssuer{}, 0)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, member, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if member.ID != registered.ID {
		t.Fatalf("expected member %s, got %s", registered.ID, member.ID)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	var ve *ValidationError
	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown email, got %v", err)
	}
}
