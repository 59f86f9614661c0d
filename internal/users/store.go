package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// Store is the credential store: account lookup, creation and password
// verification. Everything password-related stays behind this type so the
// plaintext never leaks into handlers or logs.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByID returns (nil, nil) when no such user exists.
func (s *Store) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns (nil, nil) when no such user exists.
func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create hashes the password and persists the account. Returns
// (false, nil) when the username is already taken; that is a user-facing
// condition, not an error.
func (s *Store) Create(ctx context.Context, username, password string, role authz.Role, fullName, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		FullName:     fullName,
		Email:        email,
		Active:       true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Verify compares the plaintext against the stored hash. bcrypt's compare
// is timing-safe; the plaintext is never stored or logged.
func (s *Store) Verify(user *models.User, password string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// SetPassword rehashes and replaces a user's password.
func (s *Store) SetPassword(ctx context.Context, userID uint, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", string(hashed)).Error
}

// UpdateProfile replaces the display fields of an account.
func (s *Store) UpdateProfile(ctx context.Context, userID uint, fullName, email string) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"full_name": fullName,
			"email":     email,
		}).Error
}

// UsernamesByIDs resolves usernames for a batch of user ids in one query.
// An empty input yields an empty map without touching the database.
func (s *Store) UsernamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	result := make(map[uint]string)
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, u := range rows {
		result[u.ID] = u.Username
	}
	return result, nil
}
