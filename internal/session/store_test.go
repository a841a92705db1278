package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/eleven-am/align-backend/internal/shared"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewStore(redisClient), mr
}

func TestStore_LiveStatusRoundtrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	status := &LiveStatus{
		SessionID:       "sess_abc",
		UserID:          "usr_123",
		StartedAt:       time.Now().UTC().Truncate(time.Second),
		LastFrameAt:     time.Now().UTC().Truncate(time.Second),
		FramesEvaluated: 42,
		GoodFrames:      30,
		CurrentKind:     "good_pose",
		LastFeedback:    "Good pose!",
	}

	if err := store.SetLiveStatus(ctx, status); err != nil {
		t.Fatalf("set error: %v", err)
	}

	got, err := store.GetLiveStatus(ctx, "sess_abc")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.UserID != "usr_123" || got.FramesEvaluated != 42 || got.CurrentKind != "good_pose" {
		t.Errorf("unexpected status: %+v", got)
	}

	if ttl := mr.TTL("live:sess_abc"); ttl != liveTTL {
		t.Errorf("expected TTL %v, got %v", liveTTL, ttl)
	}
}

func TestStore_GetLiveStatus_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.GetLiveStatus(context.Background(), "sess_missing"); err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DeleteLiveStatus(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	status := &LiveStatus{SessionID: "sess_abc", UserID: "usr_123"}
	if err := store.SetLiveStatus(ctx, status); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.DeleteLiveStatus(ctx, "sess_abc"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := store.GetLiveStatus(ctx, "sess_abc"); err != shared.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_ListLiveStatuses(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"sess_one", "sess_two"} {
		if err := store.SetLiveStatus(ctx, &LiveStatus{SessionID: id, UserID: "usr_123"}); err != nil {
			t.Fatalf("set error: %v", err)
		}
	}
	mr.Set("unrelated:key", "value")

	statuses, err := store.ListLiveStatuses(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	seen := map[string]bool{}
	for _, s := range statuses {
		seen[s.SessionID] = true
	}
	if !seen["sess_one"] || !seen["sess_two"] {
		t.Errorf("missing sessions in list: %v", seen)
	}
}

func TestStore_IncrMetrics(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := store.IncrMetrics(ctx, now, MetricDeltas{SessionsStarted: 1, FramesEvaluated: 10, GoodFrames: 4}); err != nil {
		t.Fatalf("incr error: %v", err)
	}
	if err := store.IncrMetrics(ctx, now, MetricDeltas{FramesEvaluated: 5, Utterances: 2}); err != nil {
		t.Fatalf("incr error: %v", err)
	}

	metrics, err := store.GetMetrics(ctx, 1)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 hourly bucket, got %d", len(metrics))
	}

	m := metrics[0]
	if m.SessionsStarted != 1 || m.FramesEvaluated != 15 || m.GoodFrames != 4 || m.Utterances != 2 {
		t.Errorf("unexpected metrics: %+v", m)
	}

	utc := now.UTC()
	key := MetricsRedisKey(utc.Format("2006-01-02"), utc.Hour())
	if ttl := mr.TTL(key); ttl != metricsTTL {
		t.Errorf("expected TTL %v, got %v", metricsTTL, ttl)
	}
}

func TestStore_IncrMetrics_NoDeltas(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.IncrMetrics(context.Background(), time.Now(), MetricDeltas{}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}

	metrics, err := store.GetMetrics(context.Background(), 1)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(metrics) != 0 {
		t.Errorf("expected no buckets, got %d", len(metrics))
	}
}

func TestStore_GetMetrics_Window(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-30 * time.Hour)
	if err := store.IncrMetrics(ctx, old, MetricDeltas{SessionsStarted: 3}); err != nil {
		t.Fatalf("incr error: %v", err)
	}

	within24, err := store.GetMetrics(ctx, 24)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(within24) != 0 {
		t.Errorf("expected 30h-old bucket outside 24h window, got %d buckets", len(within24))
	}

	within48, err := store.GetMetrics(ctx, 48)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(within48) != 1 || within48[0].SessionsStarted != 3 {
		t.Errorf("expected old bucket inside 48h window, got %+v", within48)
	}
}
