package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"edusaarthi/internal/adapter/memstore"
	"edusaarthi/internal/domain"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestService(repo domain.EntitlementRepository) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGetStatusUnknownUserIsFree(t *testing.T) {
	svc := newTestService(memstore.New())
	ent, err := svc.GetStatus(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if ent.IsPremium || ent.Plan != domain.PlanNone || ent.ExpiresAt != nil {
		t.Fatalf("unexpected entitlement %+v", ent)
	}
}

func TestGetStatusRequiresUser(t *testing.T) {
	svc := newTestService(memstore.New())
	if _, err := svc.GetStatus(context.Background(), "  "); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetStatusDowngradesExpired(t *testing.T) {
	db := memstore.New()
	past := fixedNow.Add(-time.Minute)
	if err := db.Save(context.Background(), domain.Entitlement{UserID: "u1", IsPremium: true, Plan: domain.PlanMonthly, ExpiresAt: &past}); err != nil {
		t.Fatal(err)
	}
	svc := newTestService(db)

	ent, err := svc.GetStatus(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if ent.IsPremium {
		t.Fatal("expired entitlement still premium")
	}
	stored, err := db.Get(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.IsPremium {
		t.Fatal("downgrade was not persisted")
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(past) {
		t.Fatalf("expiry should be kept for history, got %v", stored.ExpiresAt)
	}

	// a second read is a no-op
	if _, err := svc.GetStatus(context.Background(), "u1"); err != nil {
		t.Fatalf("second GetStatus: %v", err)
	}
}

func TestGetStatusExpiryAtExactInstant(t *testing.T) {
	db := memstore.New()
	at := fixedNow
	_ = db.Save(context.Background(), domain.Entitlement{UserID: "u1", IsPremium: true, Plan: domain.PlanAnnual, ExpiresAt: &at})
	premium, err := newTestService(db).IsPremium(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if premium {
		t.Fatal("expiresAt == now must read as expired")
	}
}

func TestGetStatusWithoutExpiryNeverLapses(t *testing.T) {
	db := memstore.New()
	_ = db.Save(context.Background(), domain.Entitlement{UserID: "admin", IsPremium: true, Plan: domain.PlanAnnual})
	premium, err := newTestService(db).IsPremium(context.Background(), "admin")
	if err != nil || !premium {
		t.Fatalf("premium=%v err=%v", premium, err)
	}
}

func TestUpgrade(t *testing.T) {
	tests := []struct {
		plan domain.Plan
		want time.Time
	}{
		{domain.PlanMonthly, fixedNow.AddDate(0, 1, 0)},
		{domain.PlanAnnual, fixedNow.AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			db := memstore.New()
			svc := newTestService(db)
			ent, err := svc.Upgrade(context.Background(), "u1", tt.plan)
			if err != nil {
				t.Fatalf("Upgrade: %v", err)
			}
			if !ent.IsPremium || ent.Plan != tt.plan || !ent.ExpiresAt.Equal(tt.want) {
				t.Fatalf("unexpected entitlement %+v", ent)
			}
			premium, _ := svc.IsPremium(context.Background(), "u1")
			if !premium {
				t.Fatal("upgraded user is not premium")
			}
		})
	}
}

func TestUpgradeRestartsTermFromNow(t *testing.T) {
	db := memstore.New()
	far := fixedNow.AddDate(0, 6, 0)
	_ = db.Save(context.Background(), domain.Entitlement{UserID: "u1", IsPremium: true, Plan: domain.PlanAnnual, ExpiresAt: &far})
	ent, err := newTestService(db).Upgrade(context.Background(), "u1", domain.PlanMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if want := fixedNow.AddDate(0, 1, 0); !ent.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", ent.ExpiresAt, want)
	}
}

func TestUpgradeRejectsPlan(t *testing.T) {
	_, err := newTestService(memstore.New()).Upgrade(context.Background(), "u1", domain.PlanNone)
	if !errors.Is(err, domain.ErrUnsupportedPlan) {
		t.Fatalf("expected ErrUnsupportedPlan, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	db := memstore.New()
	svc := newTestService(db)

	res, err := svc.Cancel(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.IsPremium || res.EffectiveUntil != nil {
		t.Fatalf("free user cancel = %+v", res)
	}

	ent, _ := svc.Upgrade(context.Background(), "u1", domain.PlanMonthly)
	res, err = svc.Cancel(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsPremium || res.EffectiveUntil == nil || !res.EffectiveUntil.Equal(*ent.ExpiresAt) {
		t.Fatalf("premium cancel = %+v", res)
	}
	// premium stays until the end of the paid period
	if premium, _ := svc.IsPremium(context.Background(), "u1"); !premium {
		t.Fatal("cancel revoked premium early")
	}
}

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) (domain.Entitlement, error) {
	return domain.Entitlement{}, f.err
}
func (f failingRepo) Save(context.Context, domain.Entitlement) error { return f.err }
func (f failingRepo) DowngradeExpired(context.Context, string, time.Time) error {
	return f.err
}

func TestStoreFailurePropagates(t *testing.T) {
	svc := newTestService(failingRepo{err: domain.ErrStoreUnavailable})
	if _, err := svc.IsPremium(context.Background(), "u1"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
