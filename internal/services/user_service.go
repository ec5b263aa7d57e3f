package services

import (
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
	ListUsers(db *gorm.DB, query *dto.ListUsersQuery) ([]dto.UserResponse, int64, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, query *dto.ListUsersQuery) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     models.UserRole(query.Role),
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *dto.NewUserResponse(&users[i]))
	}
	return items, total, nil
}
