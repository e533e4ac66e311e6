package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kyz7/wip/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("admin not found")
	// ErrStaleSession means the session changed between read and write.
	ErrStaleSession = errors.New("session was rotated concurrently")
)

// DuplicateValueError names the unique field that already holds the value.
type DuplicateValueError struct {
	Field string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Repository persists admins and their single active session.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Admin, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *Repository) FindByNickname(ctx context.Context, nickname string) (*models.Admin, error) {
	return r.findOne(ctx, "nickname = ?", nickname)
}

func (r *Repository) findOne(ctx context.Context, query string, arg interface{}) (*models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load admin")
	}
	return &a, nil
}

// CheckEmailNicknameUnique returns a *DuplicateValueError for the first of
// email, nickname that is already taken.
func (r *Repository) CheckEmailNicknameUnique(ctx context.Context, email, nickname string) error {
	checks := []struct {
		field string
		value string
	}{
		{"email", email},
		{"nickname", nickname},
	}

	for _, check := range checks {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.Admin{}).
			Where(check.field+" = ?", check.value).
			Count(&count).Error
		if err != nil {
			return errors.Wrapf(err, "failed to check %s uniqueness", check.field)
		}
		if count > 0 {
			return &DuplicateValueError{Field: check.field}
		}
	}
	return nil
}

// Create inserts a new admin. A unique violation that slipped past the
// pre-check is reported as a DuplicateValueError as well.
func (r *Repository) Create(ctx context.Context, a *models.Admin) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if err == nil {
		return nil
	}
	if isDuplicateKeyError(err) {
		if dupErr := r.CheckEmailNicknameUnique(ctx, a.Email, a.Nickname); dupErr != nil {
			return dupErr
		}
		return &DuplicateValueError{Field: "email"}
	}
	return errors.Wrap(err, "failed to create admin")
}

// RecordSession overwrites the admin's session unconditionally.
func (r *Repository) RecordSession(ctx context.Context, a *models.Admin, hashedRefreshToken, jti string) error {
	result := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"hashed_refresh_token": hashedRefreshToken,
			"uuid_jti":             jti,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to record session")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	a.UpdateToken(hashedRefreshToken, jti)
	return nil
}

// RotateSession replaces the session only if its rotation id is still
// prevJTI. The loser of two concurrent rotations gets ErrStaleSession.
func (r *Repository) RotateSession(ctx context.Context, a *models.Admin, prevJTI, hashedRefreshToken, jti string) error {
	result := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ? AND uuid_jti = ?", a.ID, prevJTI).
		Updates(map[string]interface{}{
			"hashed_refresh_token": hashedRefreshToken,
			"uuid_jti":             jti,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to rotate session")
	}
	if result.RowsAffected == 0 {
		return ErrStaleSession
	}
	a.UpdateToken(hashedRefreshToken, jti)
	return nil
}

// ClearSession ends the admin's session. Clearing an absent session is fine.
func (r *Repository) ClearSession(ctx context.Context, a *models.Admin) error {
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"hashed_refresh_token": gorm.Expr("NULL"),
			"uuid_jti":             gorm.Expr("NULL"),
		}).Error
	if err != nil {
		return errors.Wrap(err, "failed to clear session")
	}
	a.ClearToken()
	return nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"duplicate key",
		"Duplicate entry",
		"UNIQUE constraint failed",
		"violates unique constraint",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
