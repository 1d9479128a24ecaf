package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/quota"
)

// EntitlementChecker is the part of the entitlement service the gate needs.
type EntitlementChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// QuotaConsumer is the part of the quota tracker the gate needs.
type QuotaConsumer interface {
	CheckAndConsume(ctx context.Context, userID string, res domain.ResourceType, capacity int) (domain.Usage, error)
	PeekRemaining(ctx context.Context, userID string, res domain.ResourceType, capacity int) (domain.Usage, error)
}

// Gate makes the authorization decision for every gated action.
type Gate struct {
	entitlements EntitlementChecker
	quotas       QuotaConsumer
	policy       quota.Policy
	timeout      time.Duration
	logger       zerolog.Logger
}

// Options configures a Gate.
type Options struct {
	Entitlements EntitlementChecker
	Quotas       QuotaConsumer
	Policy       quota.Policy
	// Timeout bounds one decision; zero means the caller's context only.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewGate builds a Gate.
func NewGate(opts Options) *Gate {
	return &Gate{
		entitlements: opts.Entitlements,
		quotas:       opts.Quotas,
		policy:       opts.Policy,
		timeout:      opts.Timeout,
		logger:       opts.Logger.With().Str("component", "access_gate").Logger(),
	}
}

// Policy returns the quota policy the gate enforces.
func (g *Gate) Policy() quota.Policy { return g.policy }

func (g *Gate) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// Authorize decides whether userID may perform one action of type res now
// and, for metered users, consumes one unit of today's budget. It must be
// called once per action before the action has any effect. Whenever an error
// is returned the decision is a denial.
func (g *Gate) Authorize(ctx context.Context, userID string, res domain.ResourceType) (domain.Decision, error) {
	limit, ok := g.policy.Limit(res)
	if !ok {
		return domain.Denied(), fmt.Errorf("%w: %q", domain.ErrUnknownResource, res)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	premium, err := g.entitlements.IsPremium(ctx, userID)
	if err != nil {
		g.logFailure(err, userID, res)
		return domain.Denied(), err
	}
	if premium {
		return domain.Unlimited(), nil
	}

	usage, err := g.quotas.CheckAndConsume(ctx, userID, res, limit)
	if err != nil {
		g.logFailure(err, userID, res)
		return domain.Denied(), err
	}
	decision := domain.Metered(usage)
	if !decision.Allowed {
		g.logger.Info().Str("user_id", userID).Str("resource", string(res)).Int("limit", limit).Msg("daily limit reached")
	}
	return decision, nil
}

// Status reports, without consuming anything, what Authorize would answer.
func (g *Gate) Status(ctx context.Context, userID string, res domain.ResourceType) (domain.Decision, error) {
	limit, ok := g.policy.Limit(res)
	if !ok {
		return domain.Denied(), fmt.Errorf("%w: %q", domain.ErrUnknownResource, res)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	premium, err := g.entitlements.IsPremium(ctx, userID)
	if err != nil {
		return domain.Denied(), err
	}
	if premium {
		return domain.Unlimited(), nil
	}
	usage, err := g.quotas.PeekRemaining(ctx, userID, res, limit)
	if err != nil {
		return domain.Denied(), err
	}
	return domain.Metered(usage), nil
}

// UsageReport is today's state of every metered resource for one user.
type UsageReport struct {
	Premium   bool
	Resources map[domain.ResourceType]domain.Usage
}

// Usage reports, without consuming, today's usage of every resource the policy
// meters. Premium users get an empty resource map.
func (g *Gate) Usage(ctx context.Context, userID string) (UsageReport, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	premium, err := g.entitlements.IsPremium(ctx, userID)
	if err != nil {
		return UsageReport{}, err
	}
	report := UsageReport{Premium: premium, Resources: map[domain.ResourceType]domain.Usage{}}
	if premium {
		return report, nil
	}
	for _, res := range g.policy.Resources() {
		limit, _ := g.policy.Limit(res)
		usage, err := g.quotas.PeekRemaining(ctx, userID, res, limit)
		if err != nil {
			return UsageReport{}, err
		}
		report.Resources[res] = usage
	}
	return report, nil
}

// RequirePremium fails with ErrPremiumRequired for users without an active
// premium entitlement.
func (g *Gate) RequirePremium(ctx context.Context, userID string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	premium, err := g.entitlements.IsPremium(ctx, userID)
	if err != nil {
		return err
	}
	if !premium {
		return domain.ErrPremiumRequired
	}
	return nil
}

func (g *Gate) logFailure(err error, userID string, res domain.ResourceType) {
	ev := g.logger.Error()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		ev = g.logger.Warn()
	}
	ev.Err(err).Str("user_id", userID).Str("resource", string(res)).Msg("access decision failed, denying")
}
