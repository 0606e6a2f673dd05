package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user", "user_id", userID)
		}
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

// UpsertUser creates the caller's profile or updates it. Recorded transaction amounts
// keep the reporting currency they were recorded in.
func (s *userService) UpsertUser(ctx context.Context, userID string, req dto.UpsertUserRequest) (*domain.User, error) {
	now := s.Now()
	user := domain.User{
		UserID:            userID,
		Name:              strings.TrimSpace(req.Name),
		ReportingCurrency: strings.ToUpper(req.ReportingCurrency),
		AuditFields:       domain.NewAuditFields(userID, now),
	}

	existing, err := s.userRepo.FindUserByID(ctx, userID)
	switch {
	case err == nil:
		user.CreatedAt = existing.CreatedAt
		user.CreatedBy = existing.CreatedBy
		if existing.ReportingCurrency != user.ReportingCurrency {
			s.LogInfo(ctx, "Reporting currency changed", "user_id", userID,
				"from", existing.ReportingCurrency, "to", user.ReportingCurrency)
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if !domain.IsCurrencyCode(user.ReportingCurrency) {
		return nil, apperrors.NewValidationError("reporting currency must be a three letter code")
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", "user_id", userID)
		return nil, fmt.Errorf("failed to save user in service: %w", err)
	}
	return &user, nil
}
