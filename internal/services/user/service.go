package user

import (
	"errors"

	"digipehchan/internal/models"
	"digipehchan/internal/repositories"
	"digipehchan/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	GetByID(id uint) (*models.User, error)
	Create(input *models.CreateUserInput) (*models.User, error)
	Update(user *models.User) error
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) Create(input *models.CreateUserInput) (*models.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if existing, _ := s.repo.GetByEmail(input.Email); existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     role,
		Status:   models.UserStatusActive,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Update(user *models.User) error {
	return s.repo.Update(user)
}
