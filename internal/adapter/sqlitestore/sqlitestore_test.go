package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"edusaarthi/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "edusaarthi.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEntitlementRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user err = %v", err)
	}

	expires := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	in := domain.Entitlement{UserID: "u1", IsPremium: true, Plan: domain.PlanMonthly, ExpiresAt: &expires}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsPremium || got.Plan != domain.PlanMonthly || got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("entitlement = %+v", got)
	}

	// not yet expired: no-op
	if err := s.DowngradeExpired(ctx, "u1", expires.Add(-time.Second)); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "u1"); !got.IsPremium {
		t.Fatal("downgraded before expiry")
	}

	if err := s.DowngradeExpired(ctx, "u1", expires.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "u1")
	if got.IsPremium || got.Plan != domain.PlanNone || got.ExpiresAt == nil {
		t.Fatalf("after downgrade = %+v", got)
	}
}

func TestIncrementStopsAtCapacity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := domain.CounterKey{UserID: "u1", Resource: domain.ResourceQuiz, Day: "2025-01-15"}

	if n, err := s.Count(ctx, key); err != nil || n != 0 {
		t.Fatalf("initial count=%d err=%v", n, err)
	}
	for i := 1; i <= 3; i++ {
		n, ok, err := s.Increment(ctx, key, 3)
		if err != nil || !ok || n != i {
			t.Fatalf("increment %d: n=%d ok=%v err=%v", i, n, ok, err)
		}
	}
	if _, ok, err := s.Increment(ctx, key, 3); err != nil || ok {
		t.Fatalf("over capacity ok=%v err=%v", ok, err)
	}
	if n, _ := s.Count(ctx, key); n != 3 {
		t.Fatalf("count = %d", n)
	}

	next := key
	next.Day = "2025-01-16"
	if n, ok, _ := s.Increment(ctx, next, 3); !ok || n != 1 {
		t.Fatalf("next day n=%d ok=%v", n, ok)
	}
	if n, _ := s.Count(ctx, key); n != 3 {
		t.Fatalf("previous day changed to %d", n)
	}
}

func TestConcurrentIncrement(t *testing.T) {
	const capacity, callers = 5, 25
	s := openTestStore(t)
	key := domain.CounterKey{UserID: "u1", Resource: domain.ResourceTutor, Day: "2025-01-15"}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.Increment(context.Background(), key, capacity)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != capacity {
		t.Fatalf("allowed = %d, want %d", allowed, capacity)
	}
	if n, _ := s.Count(context.Background(), key); n != capacity {
		t.Fatalf("stored count = %d", n)
	}
}

func TestProgressInsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	for i, quizID := range []string{"q1", "q2", "q3"} {
		ev := domain.ProgressEvent{
			ID:        quizID + "-ev",
			UserID:    "u1",
			QuizID:    quizID,
			Subject:   "Science",
			Result:    domain.SubmissionResult{Score: i, MaxScore: 3},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Insert(ctx, ev); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	_ = s.Insert(ctx, domain.ProgressEvent{ID: "other", UserID: "u2", QuizID: "q1", CreatedAt: base})

	events, err := s.List(ctx, "u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].QuizID != "q3" || events[1].QuizID != "q2" {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Result.Score != 2 || events[0].Result.MaxScore != 3 {
		t.Fatalf("result = %+v", events[0].Result)
	}
}

func TestPurgeBefore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, day := range []string{"2025-01-10", "2025-01-14", "2025-01-15"} {
		if _, _, err := s.Increment(ctx, domain.CounterKey{UserID: "u1", Resource: domain.ResourceQuiz, Day: day}, 5); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.PurgeBefore(ctx, "2025-01-14")
	if err != nil || n != 1 {
		t.Fatalf("purged=%d err=%v", n, err)
	}
	if c, _ := s.Count(ctx, domain.CounterKey{UserID: "u1", Resource: domain.ResourceQuiz, Day: "2025-01-14"}); c != 1 {
		t.Fatalf("kept counter = %d", c)
	}
}
