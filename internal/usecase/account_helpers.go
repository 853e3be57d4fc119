package usecase

import (
	"context"
	"time"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// parseDate parses an optional YYYY-MM-DD value. An empty string yields nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &date, nil
}

// ensureAccountUnique checks username and email against other users. The
// unique indexes still back this up through mapUserConstraintError.
func ensureAccountUnique(ctx context.Context, db *gorm.DB, userRepo repository.UserRepository, username, email string, exceptID *uuid.UUID) error {
	if username != "" {
		taken, err := userRepo.ExistsByUsername(ctx, db, username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameAlreadyExists
		}
	}
	if email != "" {
		taken, err := userRepo.ExistsByEmail(ctx, db, email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailAlreadyExists
		}
	}
	return nil
}

func mapUserConstraintError(err error) error {
	switch {
	case isDuplicateKeyError(err, "username"):
		return ErrUsernameAlreadyExists
	case isDuplicateKeyError(err, "email"):
		return ErrEmailAlreadyExists
	}
	return nil
}

// accountChanges is the user-row part of a partial profile update.
type accountChanges struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	Password    *string
	OldPassword *string
	// VerifyOldPassword is set for self-service updates.
	VerifyOldPassword bool
}

// applyAccountChanges mutates user in place and reports whether anything changed.
func applyAccountChanges(ctx context.Context, tx *gorm.DB, userRepo repository.UserRepository, user *entity.User, ch accountChanges) (bool, error) {
	changed := false

	var username, email string
	if ch.Username != nil && *ch.Username != user.Username {
		username = *ch.Username
	}
	if ch.Email != nil && *ch.Email != user.Email {
		email = *ch.Email
	}
	if err := ensureAccountUnique(ctx, tx, userRepo, username, email, &user.ID); err != nil {
		return false, err
	}
	if username != "" {
		user.Username = username
		changed = true
	}
	if email != "" {
		user.Email = email
		changed = true
	}

	if ch.FirstName != nil {
		user.FirstName = *ch.FirstName
		changed = true
	}
	if ch.LastName != nil {
		user.LastName = *ch.LastName
		changed = true
	}

	if ch.Password != nil {
		if ch.VerifyOldPassword {
			if ch.OldPassword == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(*ch.OldPassword)) != nil {
				return false, ErrOldPasswordMismatch
			}
		}
		hashed, err := hashPassword(*ch.Password)
		if err != nil {
			return false, err
		}
		user.Password = hashed
		changed = true
	}

	return changed, nil
}

// paginate normalizes page/limit and returns the matching offset.
func paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}
