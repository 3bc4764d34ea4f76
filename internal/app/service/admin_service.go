package service

import (
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/pkg/logger"
)

type AdminService interface {
	ListUsers() ([]model.User, error)
}

type adminService struct {
	userRepo repository.UserRepository
}

// NewAdminService expects a repository bound to the administrator pool.
func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list users", err, nil)
		return nil, err
	}
	return users, nil
}
