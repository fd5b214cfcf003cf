package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"court-service/internal/adapter/cache"
	domain "court-service/internal/domain/auth"
	"court-service/internal/usecase"
	jwtauth "court-service/pkg/auth"
	apperrors "court-service/pkg/errors"
)

// dummyHash keeps the cost of a failed lookup equal to a failed password check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("court-service-dummy"), bcrypt.DefaultCost)

var errInvalidCredentials = apperrors.With(apperrors.ErrUnauthorized, "invalid credentials")

// Usecase implements sign-in, token rotation and revocation.
type Usecase struct {
	repo     Repository
	tokens   *jwtauth.TokenManager
	revoked  cache.RevocationList
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new auth Usecase.
func New(r Repository, tokens *jwtauth.TokenManager, revoked cache.RevocationList, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, tokens: tokens, revoked: revoked, log: log, validate: usecase.NewValidator()}
}

// Login checks credentials and issues an access/refresh token pair.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*TokenPair, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	u, err := uc.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		uc.log.Error("failed to look up user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		uc.log.Warn("login failed", zap.String("username", in.Username), zap.String("reason", "unknown user"))
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn("login failed", zap.String("username", in.Username), zap.String("reason", "bad password"))
		return nil, errInvalidCredentials
	}
	if !u.Active {
		return nil, apperrors.With(apperrors.ErrForbidden, "account is disabled")
	}

	uc.log.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return uc.issuePair(u)
}

// Refresh rotates a refresh token. The presented token is revoked and only
// one of several concurrent uses of it succeeds.
func (uc *Usecase) Refresh(ctx context.Context, in RefreshRequest) (*TokenPair, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	claims, err := uc.parse(ctx, in.RefreshToken, jwtauth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperrors.With(apperrors.ErrUnauthorized, "invalid token")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.With(apperrors.ErrUnauthorized, "invalid token")
		}
		return nil, err
	}
	if !u.Active {
		return nil, apperrors.With(apperrors.ErrForbidden, "account is disabled")
	}

	first, err := uc.revoked.RevokeOnce(ctx, claims.ID, uc.tokens.Remaining(claims))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to rotate refresh token", err)
	}
	if !first {
		uc.log.Warn("refresh token reused", zap.Int64("user_id", id), zap.String("jti", claims.ID))
		return nil, apperrors.With(apperrors.ErrUnauthorized, "token has been revoked")
	}
	return uc.issuePair(u)
}

// Authenticate validates a bearer access token and returns its principal.
func (uc *Usecase) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := uc.parse(ctx, token, jwtauth.TokenTypeAccess)
	if err != nil {
		return domain.Principal{}, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, apperrors.With(apperrors.ErrUnauthorized, "invalid token")
	}
	return domain.Principal{UserID: id, Role: domain.Role(claims.Role), Name: claims.Name, TokenID: claims.ID}, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (uc *Usecase) Logout(ctx context.Context, accessToken string, in LogoutRequest) error {
	claims, err := uc.parse(ctx, accessToken, jwtauth.TokenTypeAccess)
	if err != nil {
		return err
	}
	if err := uc.revoked.Revoke(ctx, claims.ID, uc.tokens.Remaining(claims)); err != nil {
		return apperrors.NewInternalError("failed to revoke token", err)
	}

	if in.RefreshToken != "" {
		rc, err := uc.tokens.Parse(in.RefreshToken, jwtauth.TokenTypeRefresh)
		if err != nil {
			uc.log.Debug("ignoring unusable refresh token on logout", zap.Error(err))
		} else if rc.Subject == claims.Subject {
			if err := uc.revoked.Revoke(ctx, rc.ID, uc.tokens.Remaining(rc)); err != nil {
				return apperrors.NewInternalError("failed to revoke token", err)
			}
		}
	}

	uc.log.Info("user logged out", zap.String("user_id", claims.Subject))
	return nil
}

// Me returns the current user.
func (uc *Usecase) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return uc.repo.GetByID(ctx, p.UserID)
}

func (uc *Usecase) parse(ctx context.Context, token, tokenType string) (*jwtauth.Claims, error) {
	claims, err := uc.tokens.Parse(token, tokenType)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpiredToken) {
			return nil, apperrors.With(apperrors.ErrUnauthorized, "token has expired")
		}
		return nil, apperrors.With(apperrors.ErrUnauthorized, "invalid token")
	}

	revoked, err := uc.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		uc.log.Error("failed to check token revocation", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err, "token revocation check failed")
	}
	if revoked {
		return nil, apperrors.With(apperrors.ErrUnauthorized, "token has been revoked")
	}
	return claims, nil
}

func (uc *Usecase) issuePair(u *domain.User) (*TokenPair, error) {
	sub := jwtauth.Subject{UserID: strconv.FormatInt(u.ID, 10), Role: string(u.Role), Name: u.FullName}

	access, _, err := uc.tokens.Issue(sub, jwtauth.TokenTypeAccess)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	refresh, _, err := uc.tokens.Issue(sub, jwtauth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(uc.tokens.AccessTTL().Seconds()),
		User:         u,
	}, nil
}
