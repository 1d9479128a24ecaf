package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"edusaarthi/internal/domain"
)

// Service is the only authority on whether a user is currently premium.
type Service struct {
	repo   domain.EntitlementRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService builds a Service over the given repository.
func NewService(repo domain.EntitlementRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "entitlement").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetStatus returns the user's entitlement after applying the expiry rule. An
// expired premium record is downgraded in the store as a side effect.
func (s *Service) GetStatus(ctx context.Context, userID string) (domain.Entitlement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Entitlement{}, domain.ErrUnauthorized
	}
	ent, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.FreeEntitlement(userID), nil
	}
	if err != nil {
		return domain.Entitlement{}, fmt.Errorf("load entitlement: %w", err)
	}
	now := s.now()
	if !ent.Expired(now) {
		return ent, nil
	}
	if err := s.repo.DowngradeExpired(ctx, userID, now); err != nil {
		return domain.Entitlement{}, fmt.Errorf("downgrade expired entitlement: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Time("expired_at", *ent.ExpiresAt).Msg("premium expired, downgraded")
	return ent.Downgraded(now), nil
}

// IsPremium is a convenience wrapper over GetStatus.
func (s *Service) IsPremium(ctx context.Context, userID string) (bool, error) {
	ent, err := s.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return ent.IsPremium, nil
}

// Upgrade activates plan for the user. The term always starts now, even when
// the user still has premium time left.
func (s *Service) Upgrade(ctx context.Context, userID string, plan domain.Plan) (domain.Entitlement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Entitlement{}, domain.ErrUnauthorized
	}
	now := s.now()
	expires, err := plan.Term(now)
	if err != nil {
		return domain.Entitlement{}, err
	}
	ent := domain.Entitlement{
		UserID:    userID,
		IsPremium: true,
		Plan:      plan,
		ExpiresAt: &expires,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, ent); err != nil {
		return domain.Entitlement{}, fmt.Errorf("save entitlement: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("plan", string(plan)).Time("expires_at", expires).Msg("premium upgraded")
	return ent, nil
}

// Cancel schedules cancellation at the end of the paid period. Nothing is
// written: premium stays active until ExpiresAt, which GetStatus enforces.
func (s *Service) Cancel(ctx context.Context, userID string) (domain.CancelResult, error) {
	ent, err := s.GetStatus(ctx, userID)
	if err != nil {
		return domain.CancelResult{}, err
	}
	if !ent.IsPremium {
		return domain.CancelResult{IsPremium: false}, nil
	}
	return domain.CancelResult{IsPremium: true, EffectiveUntil: ent.ExpiresAt}, nil
}
