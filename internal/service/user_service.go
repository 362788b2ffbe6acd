package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/model"
	"github.com/minhngoc/olympia/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(req dto.RegisterUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(req dto.RegisterUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
	}
	if err := s.repo.Create(&user); err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("error creating user (username and email must be unique): %w", err)
	}

	var resp dto.UserResponse
	copier.Copy(&resp, &user)
	return &resp, nil
}
