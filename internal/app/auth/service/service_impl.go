package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/auth-service/internal/adapters/transport/http/dto"
	"github.com/ledgerline/auth-service/internal/app/auth/password"
	customErrors "github.com/ledgerline/auth-service/internal/domain/auth/errors"
	"github.com/ledgerline/auth-service/internal/domain/auth/jwt"
	"github.com/ledgerline/auth-service/internal/domain/auth/model"
	"github.com/ledgerline/auth-service/internal/domain/auth/repo"
)

type authService struct {
	userRepo repo.UserRepo
	jwtUtil  jwt.JWTUtil
	hasher   *password.Hasher
	v        *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, error)
	Login(context.Context, dto.LoginDTO) (model.IssuedToken, error)
	AccountBalance(ctx context.Context, userID uuid.UUID) (model.Account, error)
}

func New(
	ur repo.UserRepo,
	jm jwt.JWTUtil,
	h *password.Hasher,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, jwtUtil: jm, hasher: h, v: v,
	}
}

func (a *authService) Register(ctx context.Context, dto dto.RegisterDTO) (model.User, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(dto.Password)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: passwordHash,
		Account: model.Account{
			ID:      uuid.New(),
			Balance: decimal.Zero,
		},
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	return user, nil
}

func (a *authService) Login(ctx context.Context, dto dto.LoginDTO) (model.IssuedToken, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.IssuedToken{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, dto.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Indistinguishable from a wrong password: a caller must not be
		// able to probe which emails are registered.
		return model.IssuedToken{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.IssuedToken{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(dto.Password, user.PasswordHash)
	if err != nil {
		return model.IssuedToken{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.IssuedToken{}, customErrors.ErrInvalidCredentials
	}

	token, exp, _, err := a.jwtUtil.GenerateAccessToken(user.ID)
	if err != nil {
		return model.IssuedToken{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}

	now := time.Now()

	return model.IssuedToken{
		Token:     token,
		ExpiresAt: exp,
		TTL:       exp.Sub(now),
		UserID:    user.ID,
	}, nil
}

func (a *authService) AccountBalance(ctx context.Context, userID uuid.UUID) (model.Account, error) {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Account{}, customErrors.ErrNotFound
	case err != nil:
		return model.Account{}, customErrors.WrapInternal(err, "AccountBalance")
	}

	return user.Account, nil
}
