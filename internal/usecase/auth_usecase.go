package usecase

import (
	"context"
	"errors"
	"strings"

	"medical-clinic-api/config"
	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"
	"medical-clinic-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("a user with that username already exists")
	ErrEmailAlreadyExists    = errors.New("a user with that email already exists")
	ErrInvalidCredentials    = errors.New("No active account found with the given credentials")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrAccountInactive       = errors.New("account is not active")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidRole           = errors.New("role must be doctor or patient")
	ErrSpecialtyNotFound     = errors.New("specialty not found")
	ErrInvalidDateFormat     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrOldPasswordMismatch   = errors.New("old password is incorrect")
	ErrUnauthenticated       = errors.New("user not found in context")
	ErrAdminRoleMissing      = errors.New("admin role is missing, run the migrations first")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	Me(ctx context.Context) (*dto.UserResponse, error)
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	SeedAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type authUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	roleRepo            repository.RoleRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	patientProfileRepo  repository.PatientProfileRepository
	jwtService          *jwt.JWTService
	tokenStore          *service.TokenStore
	activity            service.ActivityService
	notifier            service.NotificationService
	autoApprovePatients bool
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	jwtService *jwt.JWTService,
	tokenStore *service.TokenStore,
	activity service.ActivityService,
	notifier service.NotificationService,
	autoApprovePatients bool,
) AuthUsecase {
	return &authUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		roleRepo:            roleRepo,
		doctorProfileRepo:   doctorProfileRepo,
		patientProfileRepo:  patientProfileRepo,
		jwtService:          jwtService,
		tokenStore:          tokenStore,
		activity:            activity,
		notifier:            notifier,
		autoApprovePatients: autoApprovePatients,
	}
}

// Register creates the user and its role profile in one transaction.
// Doctors stay inactive until an admin approves them.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	roleID, ok := entity.RoleIDByName(req.Role)
	if !ok || roleID == entity.RoleIDAdmin {
		return nil, ErrInvalidRole
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := ensureAccountUnique(ctx, tx, u.userRepo, req.Username, req.Email, nil); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	moderation := entity.Moderation{IsApproved: roleID == entity.RoleIDPatient && u.autoApprovePatients}

	user := &entity.User{
		RoleID:    roleID,
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  entity.BoolPtr(moderation.AccountActive()),
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if mapped := mapUserConstraintError(err); mapped != nil {
			return nil, mapped
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	var deliveries []*service.Delivery

	switch roleID {
	case entity.RoleIDDoctor:
		profile := &entity.DoctorProfile{
			UserID:         user.ID,
			SpecialtyID:    req.SpecialtyID,
			Specialization: req.Specialization,
			Phone:          req.Phone,
			Bio:            req.Bio,
			Address:        req.Address,
			ImageURL:       req.ImageURL,
			Moderation:     moderation,
		}
		if err := u.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
			if isForeignKeyError(err, "specialty") {
				return nil, ErrSpecialtyNotFound
			}
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return nil, err
		}
		user.DoctorProfile = profile

		delivery, err := u.notifier.Notify(ctx, tx, nil, "New doctor registration",
			"Doctor "+user.FullName()+" ("+user.Username+") is waiting for approval.")
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)

	case entity.RoleIDPatient:
		profile := &entity.PatientProfile{
			UserID:      user.ID,
			Phone:       req.Phone,
			Address:     req.Address,
			DateOfBirth: dob,
			Gender:      req.Gender,
			Moderation:  moderation,
		}
		if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return nil, err
		}
		user.PatientProfile = profile
	}

	if err := u.activity.LogCreate(ctx, tx, &user.ID, entity.ActionUserRegister, entity.EntityUser, user.ID.String(), map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
		"role":     req.Role,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.Dispatch(deliveries...)

	u.log.Infof("User registered: id=%s, role=%s", user.ID, req.Role)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByLogin(ctx, u.db, req.Identifier())
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active() {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	// Login trail failures are logged only
	if err := u.activity.LogCreate(ctx, u.db.WithContext(ctx), &user.ID, entity.ActionUserLogin, entity.EntityUser, user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to record login of user %s: %+v", user.ID, err)
	}

	return tokens, nil
}

// RefreshToken rotates the pair: the presented refresh token is revoked and a new pair issued.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrAccountInactive
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the current access token and, when supplied, the caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	tokenID, _ := middleware.GetTokenIDFromContext(ctx)

	if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, userID, tokenID); err != nil {
		return err
	}

	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
			return ErrInvalidToken
		}
		if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, userID, claims.TokenID); err != nil {
			return err
		}
	}

	if err := u.activity.LogCreate(ctx, u.db.WithContext(ctx), &userID, entity.ActionUserLogout, entity.EntityUser, userID.String(), nil); err != nil {
		u.log.Warnf("Failed to record logout of user %s: %+v", userID, err)
	}

	return nil
}

func (u *authUsecase) Me(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	switch user.RoleID {
	case entity.RoleIDDoctor:
		user.DoctorProfile, err = u.doctorProfileRepo.FindByUserID(ctx, u.db, userID)
	case entity.RoleIDPatient:
		user.PatientProfile, err = u.patientProfileRepo.FindByUserID(ctx, u.db, userID)
	}
	if err != nil {
		u.log.Warnf("Failed to load profile of user %s: %+v", userID, err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// RevokeAllUserTokens revokes all tokens for a user (useful when password changed or account compromised)
func (u *authUsecase) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	return u.tokenStore.RevokeAll(ctx, userID)
}

// SeedAdmin creates the configured admin account if it does not exist yet.
func (u *authUsecase) SeedAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	existing, err := u.userRepo.FindByUsername(ctx, u.db, cfg.Username)
	if err != nil {
		u.log.Warnf("Failed to look up admin user: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	role, err := u.roleRepo.FindByName(ctx, u.db, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to look up admin role: %+v", err)
		return err
	}
	if role == nil {
		return ErrAdminRoleMissing
	}

	hashedPassword, err := hashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		RoleID:   role.ID,
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: hashedPassword,
		IsActive: entity.BoolPtr(true),
	}
	if err := u.userRepo.Create(ctx, u.db, admin); err != nil {
		u.log.Warnf("Failed to seed admin user: %+v", err)
		return err
	}

	u.log.Infof("Seeded admin user %q", cfg.Username)
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}
	sub := jwt.Subject{UserID: user.ID, Email: user.Email, RoleID: user.RoleID, Role: role}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	// Store tokens in Redis
	if err := u.tokenStore.Save(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}
	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Role:         role,
		User:         converter.UserToResponse(user),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
