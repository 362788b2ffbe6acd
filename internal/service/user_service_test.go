package service

import (
	"errors"
	"testing"

	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users     []model.User
	createErr error
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	resp, err := svc.Register(dto.RegisterUserRequest{
		Username: "ngoc",
		Email:    "ngoc@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Username != "ngoc" || resp.Email != "ngoc@example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}

	stored := repo.users[0]
	if stored.HashedPassword == "secret-password" {
		t.Fatal("password must not be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("secret-password")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestRegisterDuplicateUser(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{createErr: errors.New("duplicate key value violates unique constraint")})
	if _, err := svc.Register(dto.RegisterUserRequest{Username: "ngoc", Email: "n@example.com", Password: "secret-password"}); err == nil {
		t.Error("expected error for duplicate username or email")
	}
}
