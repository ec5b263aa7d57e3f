package services

import (
	"context"
	"fmt"
	"time"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/config"
	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) error
	VerifyEmail(db *gorm.DB, token string) error
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.LoginResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	LogoutAll(db *gorm.DB, userID string) error
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error

	// UnlockUser - админский сброс счетчиков блокировки
	UnlockUser(db *gorm.DB, userID string) error
}

type AuthServiceImpl struct {
	cfg              *config.Config
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	dispatcher       *notify.Dispatcher
}

func NewAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	dispatcher *notify.Dispatcher,
) AuthService {
	return &AuthServiceImpl{
		cfg:              cfg,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		dispatcher:       dispatcher,
	}
}

// Register - регистрация нового заявителя
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	verificationToken, err := auth.NewVerificationToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Name:              req.Name,
		Phone:             req.Phone,
		Role:              models.UserRoleUser,
		VerificationToken: verificationToken,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	// Письмо с подтверждением best-effort: регистрация уже записана
	s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      "user_registered",
		UserName:  user.Name,
		UserEmail: user.Email,
		Link:      fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.cfg.Server.BaseURL, verificationToken),
	})

	return nil
}

// VerifyEmail подтверждает адрес по одноразовому токену из письма
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	if token == "" {
		return apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Login - аутентификация с учетом блокировки после серии неудачных попыток.
// Счетчик неудач сбрасывается только успешным входом или сбросом админа.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()

	if user.IsLocked(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		failed, err := s.userRepo.IncrementFailedLogins(db, user.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		if failed >= s.cfg.Auth.MaxFailedLogins {
			until := now.Add(time.Duration(s.cfg.Auth.LockoutMinutes) * time.Minute)
			if err := s.userRepo.SetLock(db, user.ID, until); err != nil {
				return nil, apperrors.InternalError(err)
			}
			logger.Warn("account locked after failed logins",
				"user_id", user.ID, "failed", failed, "until", until)
		}

		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.ResetLoginState(db, user.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.LastLoginAt = &now

	return s.issueTokenPair(db, user)
}

// Refresh - обмен refresh token на новую пару. Токены одноразовые:
// предъявленный отзывается независимо от результата проверки владельца.
func (s *AuthServiceImpl) Refresh(db *gorm.DB, refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(db, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if !token.IsActive(time.Now()) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if s.cfg.JWT.RotateOnRefresh {
		if err := s.refreshTokenRepo.Revoke(db, refreshToken); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return s.issueTokenPair(db, user)
	}

	// Без ротации: выписываем только новый access token
	accessToken, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

// Logout - отзыв предъявленного refresh token
func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	if _, err := s.refreshTokenRepo.FindByToken(db, refreshToken); err != nil {
		return apperrors.ErrInvalidToken
	}
	if err := s.refreshTokenRepo.Revoke(db, refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// LogoutAll - отзыв всех refresh token пользователя (все устройства)
func (s *AuthServiceImpl) LogoutAll(db *gorm.DB, userID string) error {
	if err := s.refreshTokenRepo.RevokeAllForUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	// Смена пароля закрывает остальные сессии
	return s.LogoutAll(db, userID)
}

func (s *AuthServiceImpl) UnlockUser(db *gorm.DB, userID string) error {
	if err := s.userRepo.Unlock(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	logger.Info("account unlocked by admin", "user_id", userID)
	return nil
}

func (s *AuthServiceImpl) issueTokenPair(db *gorm.DB, user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshValue, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().AddDate(0, 0, s.cfg.JWT.RefreshTTLDays),
	}
	if err := s.refreshTokenRepo.Create(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		User:         dto.NewUserResponse(user),
	}, nil
}
