package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

// Register creates an account. A referral code, when supplied, must resolve
// to an existing account; the new account records who referred it so the
// first approved plan purchase can credit the referrer.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := domain.ValidateRegistrationInput(email, req.Password, req.DisplayName); err != nil {
		return AuthResponse{}, err
	}

	var referredBy *uuid.UUID
	var referrerID string
	if code := strings.ToUpper(strings.TrimSpace(req.ReferralCode)); code != "" {
		referrer, err := s.accounts.GetByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return AuthResponse{}, domain.ErrReferralCodeNotFound
			}
			return AuthResponse{}, err
		}
		referredBy = &referrer.AccountID
		referrerID = referrer.AccountID.String()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	now := s.nowFn()
	params := ports.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         s.cfg.DefaultRole,
		ReferralCode: domain.NewReferralCode(),
		ReferredBy:   referredBy,
		RegisteredAt: now,
	}
	event := newOutboxEvent(domain.EventAccountRegistered, email, now, contracts.AccountRegisteredPayload{
		Email:        email,
		ReferralCode: params.ReferralCode,
		ReferredBy:   referrerID,
		RegisteredAt: now.Format("2006-01-02T15:04:05Z07:00"),
	})

	account, err := s.accounts.Create(ctx, params, event)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.InfoContext(ctx, "account registered",
		"operation", "register",
		"outcome", "success",
		"account_id", account.AccountID,
		"referred", referredBy != nil,
	)
	return s.issueToken(account)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return AuthResponse{}, domain.ErrInvalidInput
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResponse{}, domain.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}

	hash, err := s.accounts.GetPasswordHash(ctx, account.AccountID)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := s.hasher.Compare(hash, req.Password); err != nil {
		return AuthResponse{}, domain.ErrInvalidCredentials
	}
	if account.Banned {
		return AuthResponse{}, domain.ErrAccountBanned
	}

	return s.issueToken(account)
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims ports.AuthClaims) error {
	return s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

// ValidateToken resolves a bearer token into claims. The ban flag is
// re-checked on every call so a ban takes effect immediately, not at next
// login.
func (s *Service) ValidateToken(ctx context.Context, raw string) (ports.AuthClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(raw)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return ports.AuthClaims{}, err
	}
	if revoked {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if account.Banned {
		return ports.AuthClaims{}, domain.ErrAccountBanned
	}
	return claims, nil
}

func (s *Service) issueToken(account domain.Account) (AuthResponse, error) {
	now := s.nowFn()
	claims := ports.AuthClaims{
		AccountID: account.AccountID,
		Email:     account.Email,
		Role:      account.Role,
		TokenID:   uuid.New(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	token, err := s.tokenSigner.Sign(claims)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, ExpiresAt: claims.ExpiresAt, Account: account}, nil
}
