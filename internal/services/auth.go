package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-backend/internal/data/repos/auth"
	"github.com/courseloop/courseloop-backend/internal/data/repos/user"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
	"github.com/courseloop/courseloop-backend/internal/platform/envutil"
)

// JWTClaims is the access-token payload. Subject carries the user id.
type JWTClaims struct {
	jwt.RegisteredClaims
}

// RegisterInput carries the raw registration form. Normalization
// happens inside the service so every entry point agrees on it.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthService owns account creation and the access/refresh token
// lifecycle. Access tokens are short-lived JWTs; refresh tokens are
// opaque and persisted so they can be revoked.
type AuthService interface {
	RegisterUser(ctx context.Context, input *RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	userRepo      user.UserRepo
	userTokenRepo auth.UserTokenRepo
	avatarService AvatarService
	jwtSecret     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	log           *logger.Logger
}

func NewAuthService(
	db *gorm.DB,
	userRepo user.UserRepo,
	userTokenRepo auth.UserTokenRepo,
	avatarService AvatarService,
	baseLog *logger.Logger,
) (AuthService, error) {
	secret := envutil.String("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &authService{
		db:            db,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecret:     []byte(secret),
		accessTTL:     envutil.Duration("AUTH_ACCESS_TTL", 15*time.Minute),
		refreshTTL:    envutil.Duration("AUTH_REFRESH_TTL", 720*time.Hour),
		log:           baseLog.With("service", "AuthService"),
	}, nil
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

// RegisterUser creates an account. Email is lowercased before the
// uniqueness check; the password is hashed and never stored raw. A
// generated initials avatar is attached best effort.
func (as *authService) RegisterUser(ctx context.Context, input *RegisterInput) (*types.User, error) {
	if input == nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("registration payload is required"))
	}
	email := normalization.ParseInputString(input.Email)
	firstName := normalization.TrimInput(input.FirstName)
	lastName := normalization.TrimInput(input.LastName)

	if email == "" {
		return nil, apierr.New(http.StatusBadRequest, "email_required", fmt.Errorf("an email is required to register"))
	}
	if input.Password == "" {
		return nil, apierr.New(http.StatusBadRequest, "password_required", fmt.Errorf("a password is required to register"))
	}
	if firstName == "" {
		return nil, apierr.New(http.StatusBadRequest, "first_name_required", fmt.Errorf("a first name is required to register"))
	}
	if lastName == "" {
		return nil, apierr.New(http.StatusBadRequest, "last_name_required", fmt.Errorf("a last name is required to register"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		as.log.Error("Failed to check email uniqueness", "error", err)
		return nil, operationFailed()
	}
	if exists {
		return nil, apierr.New(http.StatusBadRequest, "email_taken", fmt.Errorf("email is already in use"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		as.log.Error("Failed to hash password", "error", err)
		return nil, operationFailed()
	}

	newUser := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}
	if as.avatarService != nil {
		if avErr := as.avatarService.AttachGeneratedAvatar(newUser); avErr != nil {
			// Cosmetic only, the account is still usable without it.
			as.log.Warn("Failed to generate default avatar", "user_id", newUser.ID, "error", avErr)
		}
	}

	created, err := as.userRepo.Create(ctx, nil, []*types.User{newUser})
	if err != nil {
		as.log.Error("Failed to create user", "error", err)
		return nil, operationFailed()
	}
	as.log.Info("Registered user", "user_id", created[0].ID)
	return created[0], nil
}

// LoginUser verifies credentials and rotates the caller's token pair:
// any previously issued tokens for the user are revoked before the new
// pair is persisted.
func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalization.ParseInputString(email)
	if email == "" {
		return "", "", apierr.New(http.StatusBadRequest, "email_required", fmt.Errorf("an email is required to login"))
	}
	if password == "" {
		return "", "", apierr.New(http.StatusBadRequest, "password_required", fmt.Errorf("a password is required to login"))
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		as.log.Error("Failed to load user for login", "error", err)
		return "", "", operationFailed()
	}
	if len(users) == 0 {
		return "", "", invalidCredentials()
	}
	account := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		as.log.Warn("Rejected login with wrong password", "user_id", account.ID)
		return "", "", invalidCredentials()
	}

	var pair *types.UserToken
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.SoftDeleteByUserIDs(ctx, tx, []uuid.UUID{account.ID}); err != nil {
			return err
		}
		issued, err := as.issueTokenPair(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		as.log.Error("Failed to issue token pair on login", "user_id", account.ID, "error", err)
		return "", "", operationFailed()
	}
	as.log.Info("User logged in", "user_id", account.ID)
	return pair.AccessToken, pair.RefreshToken, nil
}

// RefreshUser swaps a valid refresh token for a fresh pair. The old
// pair is revoked in the same transaction, so a stolen refresh token
// can be used at most once.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = normalization.TrimInput(refreshToken)
	if refreshToken == "" {
		return "", "", apierr.New(http.StatusBadRequest, "refresh_token_required", fmt.Errorf("a refresh token is required"))
	}

	rows, err := as.userTokenRepo.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		as.log.Error("Failed to load refresh token", "error", err)
		return "", "", operationFailed()
	}
	if len(rows) == 0 {
		return "", "", apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("refresh token is not recognized"))
	}
	current := rows[0]
	if time.Now().After(current.ExpiresAt) {
		if err := as.userTokenRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{current.ID}); err != nil {
			as.log.Error("Failed to revoke expired refresh token", "token_id", current.ID, "error", err)
		}
		return "", "", apierr.New(http.StatusUnauthorized, "refresh_token_expired", fmt.Errorf("refresh token has expired"))
	}

	var pair *types.UserToken
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{current.ID}); err != nil {
			return err
		}
		issued, err := as.issueTokenPair(ctx, tx, current.UserID)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		as.log.Error("Failed to rotate token pair", "user_id", current.UserID, "error", err)
		return "", "", operationFailed()
	}
	as.log.Info("Rotated token pair", "user_id", current.UserID)
	return pair.AccessToken, pair.RefreshToken, nil
}

// LogoutUser revokes the caller's current token pair. Logging out an
// already revoked token is treated as success.
func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	rows, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
	if err != nil {
		as.log.Error("Failed to load token for logout", "error", err)
		return operationFailed()
	}
	if len(rows) == 0 {
		as.log.Debug("Logout for already revoked token", "user_id", rd.UserID)
		return nil
	}
	if err := as.userTokenRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{rows[0].ID}); err != nil {
		as.log.Error("Failed to revoke token on logout", "error", err)
		return operationFailed()
	}
	as.log.Info("User logged out", "user_id", rd.UserID)
	return nil
}

// SetContextFromToken validates an access token and attaches the
// resolved caller identity to the context. The token row must still
// exist, which is how logout revocation takes effect before the JWT
// itself expires.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("access token is invalid"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("access token is invalid"))
	}

	rows, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		as.log.Error("Failed to load token row", "error", err)
		return ctx, operationFailed()
	}
	if len(rows) == 0 {
		return ctx, apierr.New(http.StatusUnauthorized, "token_revoked", fmt.Errorf("access token has been revoked"))
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: rows[0].RefreshToken,
		UserID:       userID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) issueTokenPair(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserToken, error) {
	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  signed,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	created, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{row})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func invalidCredentials() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("email or password is incorrect"))
}
