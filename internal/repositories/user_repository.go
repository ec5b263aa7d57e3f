package repositories

import (
	"errors"
	"time"

	"visacenter_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserFilter struct {
	Role     models.UserRole
	Search   string
	Page     int
	PageSize int
}

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, userID string) error

	// Login state: методы атомарны, чтобы параллельные попытки входа
	// не теряли инкременты счетчика.
	IncrementFailedLogins(db *gorm.DB, userID string) (int, error)
	SetLock(db *gorm.DB, userID string, until time.Time) error
	ResetLoginState(db *gorm.DB, userID string, lastLogin time.Time) error
	Unlock(db *gorm.DB, userID string) error

	FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "verification_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	if err := db.Create(user).Error; err != nil {
		// Гонка двух регистраций: проверка выше прошла у обоих,
		// уникальный индекс по email ловит проигравшего
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// isUniqueViolation распознает нарушение уникального индекса postgres
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	// 23505 = unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	return db.Delete(&models.User{}, "id = ?", userID).Error
}

func (r *UserRepositoryImpl) IncrementFailedLogins(db *gorm.DB, userID string) (int, error) {
	err := db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("failed_logins", gorm.Expr("failed_logins + 1")).Error
	if err != nil {
		return 0, err
	}

	var user models.User
	if err := db.Select("failed_logins").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.FailedLogins, nil
}

func (r *UserRepositoryImpl) SetLock(db *gorm.DB, userID string, until time.Time) error {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("locked_until", until).Error
}

func (r *UserRepositoryImpl) ResetLoginState(db *gorm.DB, userID string, lastLogin time.Time) error {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_logins": 0,
			"locked_until":  nil,
			"last_login_at": lastLogin,
		}).Error
}

func (r *UserRepositoryImpl) Unlock(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_logins": 0,
			"locked_until":  nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR name ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&users).Error

	return users, total, err
}
