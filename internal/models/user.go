package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Счетчики блокировки: FailedLogins сбрасывается при успешном входе
	// или ручном сбросе админом; LockedUntil выставляется при превышении порога.
	FailedLogins int        `gorm:"default:0" json:"-"`
	LockedUntil  *time.Time `json:"-"`

	TwoFactorEnabled  bool   `gorm:"default:false" json:"two_factor_enabled"`
	IsVerified        bool   `gorm:"default:false" json:"is_verified"`
	VerificationToken string `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Applications  []Application  `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

// IsLocked сообщает, действует ли блокировка входа в данный момент
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

type RefreshToken struct {
	BaseModel
	UserID    string     `gorm:"not null;index" json:"user_id"`
	Token     string     `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"-"`
}

// IsActive - токен не отозван и не истек
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
