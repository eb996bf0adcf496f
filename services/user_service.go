package services

import (
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils/logger"
	"context"
)

type UserService struct {
	ctx    context.Context
	repo   repository.UserRepositoryInterface
	logger logger.Logger
}

func NewUserService(ctx context.Context, repo repository.UserRepositoryInterface, log logger.Logger) *UserService {
	return &UserService{
		ctx:    ctx,
		repo:   repo,
		logger: log,
	}
}

func (s *UserService) CreateUser(user *models.User) (*models.User, error) {
	return s.repo.CreateUser(s.ctx, user)
}

func (s *UserService) GetUser(key string) ([]*models.User, error) {
	return s.repo.GetUser(key)
}

func (s *UserService) UpdateUser(id string, user *models.User) (*models.User, error) {
	return s.repo.UpdateUser(id, user)
}
