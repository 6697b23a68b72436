package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"go.uber.org/zap"
)

var errFlaky = errors.New("flaky")

func noBackoff(int) time.Duration { return 0 }

func opts() querycache.Options {
	return querycache.Options{
		ShouldRetry: func(err error) bool { return errors.Is(err, errFlaky) },
		Backoff:     noBackoff,
	}
}

func TestQuery_ServesFreshFromCache(t *testing.T) {
	c := querycache.New(zap.NewNop())
	var calls int32
	fetch := func(context.Context) ([]int, error) {
		atomic.AddInt32(&calls, 1)
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := querycache.Query(context.Background(), c, "u1-complaints", opts(), fetch)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 items, got %d", len(got))
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
}

func TestQuery_RefetchesWhenStale(t *testing.T) {
	c := querycache.New(zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	var calls int32
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "active", nil
	}
	o := opts()
	o.StaleTime = querycache.LeaseStatusStaleTime

	_, _ = querycache.Query(context.Background(), c, "leaseStatus-u1", o, fetch)
	now = now.Add(9 * time.Minute)
	_, _ = querycache.Query(context.Background(), c, "leaseStatus-u1", o, fetch)
	if calls != 1 {
		t.Fatalf("expected cached value within stale time, got %d fetches", calls)
	}

	now = now.Add(2 * time.Minute)
	_, _ = querycache.Query(context.Background(), c, "leaseStatus-u1", o, fetch)
	if calls != 2 {
		t.Errorf("expected refetch after stale time, got %d fetches", calls)
	}
}

func TestQuery_RetriesRetryableErrors(t *testing.T) {
	c := querycache.New(zap.NewNop())
	var calls int32
	fetch := func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return 0, errFlaky
		}
		return 7, nil
	}

	got, err := querycache.Query(context.Background(), c, "k", opts(), fetch)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != 7 || calls != 3 {
		t.Errorf("expected value 7 after 3 attempts, got %d after %d", got, calls)
	}
}

func TestQuery_GivesUpAfterRetries(t *testing.T) {
	c := querycache.New(zap.NewNop())
	var calls int32
	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, errFlaky
	}

	_, err := querycache.Query(context.Background(), c, "k", opts(), fetch)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected errFlaky, got %v", err)
	}
	if calls != 1+querycache.DefaultRetries {
		t.Errorf("expected %d attempts, got %d", 1+querycache.DefaultRetries, calls)
	}
	if c.Len() != 0 {
		t.Error("errors must not be cached")
	}
}

func TestQuery_DoesNotRetryFinalErrors(t *testing.T) {
	c := querycache.New(zap.NewNop())
	final := errors.New("unauthorized")
	var calls int32
	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, final
	}

	if _, err := querycache.Query(context.Background(), c, "k", opts(), fetch); !errors.Is(err, final) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestQuery_SharesInFlightFetch(t *testing.T) {
	c := querycache.New(zap.NewNop())
	release := make(chan struct{})
	var calls int32
	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := querycache.Query(context.Background(), c, "shared", opts(), fetch)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected 1 shared fetch, got %d", calls)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("result %d = %d, want 42", i, v)
		}
	}
}

func TestInvalidate_DiscardsInFlightResponse(t *testing.T) {
	c := querycache.New(zap.NewNop())
	started := make(chan struct{})
	release := make(chan struct{})
	old := func(context.Context) (string, error) {
		close(started)
		<-release
		return "before", nil
	}

	done := make(chan string)
	go func() {
		v, _ := querycache.Query(context.Background(), c, "u1-parking", opts(), old)
		done <- v
	}()

	<-started
	c.Invalidate("u1-parking")
	close(release)

	if got := <-done; got != "before" {
		t.Errorf("in-flight caller should still get its response, got %q", got)
	}
	if c.Len() != 0 {
		t.Fatal("response fetched before invalidation must not be cached")
	}

	fresh := func(context.Context) (string, error) { return "after", nil }
	got, err := querycache.Query(context.Background(), c, "u1-parking", opts(), fresh)
	if err != nil || got != "after" {
		t.Errorf("expected post-invalidation fetch, got %q, %v", got, err)
	}
}

func TestInvalidate_LeavesOtherKeys(t *testing.T) {
	c := querycache.New(zap.NewNop())
	var parkingCalls, complaintCalls int32
	parking := func(context.Context) (int, error) { atomic.AddInt32(&parkingCalls, 1); return 1, nil }
	complaints := func(context.Context) (int, error) { atomic.AddInt32(&complaintCalls, 1); return 2, nil }

	ctx := context.Background()
	_, _ = querycache.Query(ctx, c, querycache.ParkingKey("u1"), opts(), parking)
	_, _ = querycache.Query(ctx, c, querycache.ComplaintsKey("u1"), opts(), complaints)

	c.Invalidate(querycache.ComplaintsKey("u1"))

	_, _ = querycache.Query(ctx, c, querycache.ParkingKey("u1"), opts(), parking)
	_, _ = querycache.Query(ctx, c, querycache.ComplaintsKey("u1"), opts(), complaints)

	if parkingCalls != 1 {
		t.Errorf("parking should stay cached, got %d fetches", parkingCalls)
	}
	if complaintCalls != 2 {
		t.Errorf("complaints should refetch, got %d fetches", complaintCalls)
	}
}

func TestQuery_CallerCancelDoesNotCancelFetch(t *testing.T) {
	c := querycache.New(zap.NewNop())
	release := make(chan struct{})
	fetchErr := make(chan error, 1)
	fetch := func(ctx context.Context) (int, error) {
		<-release
		fetchErr <- ctx.Err()
		return 5, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() {
		_, err := querycache.Query(ctx, c, "detached", opts(), fetch)
		errc <- err
	}()

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected caller to see context.Canceled, got %v", err)
	}
	close(release)

	if err := <-fetchErr; err != nil {
		t.Errorf("fetch context should not be cancelled, got %v", err)
	}
}

func TestForgetUser(t *testing.T) {
	c := querycache.New(zap.NewNop())
	ctx := context.Background()
	one := func(context.Context) (int, error) { return 1, nil }

	for _, k := range append(querycache.UserKeys("u1"), querycache.UserKeys("u2")...) {
		_, _ = querycache.Query(ctx, c, k, opts(), one)
	}
	_, _ = querycache.Query(ctx, c, querycache.AdminLeasesKey, opts(), one)

	c.ForgetUser("u1")

	if got, want := c.Len(), len(querycache.UserKeys("u2"))+1; got != want {
		t.Errorf("expected %d entries after forgetting u1, got %d", want, got)
	}
}
