package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eleven-am/align-backend/internal/shared"
)

const (
	liveTTL    = 24 * time.Hour
	metricsTTL = 7 * 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) SetLiveStatus(ctx context.Context, status *LiveStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, status.RedisKey(), data, liveTTL).Err()
}

func (s *Store) GetLiveStatus(ctx context.Context, sessionID string) (*LiveStatus, error) {
	data, err := s.redis.Get(ctx, "live:"+sessionID).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var status LiveStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Store) DeleteLiveStatus(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, "live:"+sessionID).Err()
}

func (s *Store) ListLiveStatuses(ctx context.Context) ([]*LiveStatus, error) {
	iter := s.redis.Scan(ctx, 0, "live:sess_*", 100).Iterator()

	var statuses []*LiveStatus
	for iter.Next(ctx) {
		data, err := s.redis.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var status LiveStatus
		if err := json.Unmarshal(data, &status); err != nil {
			continue
		}
		statuses = append(statuses, &status)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Store) IncrMetrics(ctx context.Context, at time.Time, d MetricDeltas) error {
	at = at.UTC()
	key := MetricsRedisKey(at.Format("2006-01-02"), at.Hour())

	pipe := s.redis.Pipeline()
	if d.SessionsStarted != 0 {
		pipe.HIncrBy(ctx, key, "sessions_started", d.SessionsStarted)
	}
	if d.FramesEvaluated != 0 {
		pipe.HIncrBy(ctx, key, "frames_evaluated", d.FramesEvaluated)
	}
	if d.GoodFrames != 0 {
		pipe.HIncrBy(ctx, key, "good_frames", d.GoodFrames)
	}
	if d.Utterances != 0 {
		pipe.HIncrBy(ctx, key, "utterances", d.Utterances)
	}
	if pipe.Len() == 0 {
		return nil
	}
	pipe.Expire(ctx, key, metricsTTL)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) GetMetrics(ctx context.Context, hours int) ([]*HourlyMetrics, error) {
	now := time.Now().UTC()
	var metrics []*HourlyMetrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := MetricsRedisKey(t.Format("2006-01-02"), t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil || len(data) == 0 {
			continue
		}

		m := &HourlyMetrics{
			Date: t.Format("2006-01-02"),
			Hour: t.Hour(),
		}
		m.SessionsStarted, _ = strconv.ParseInt(data["sessions_started"], 10, 64)
		m.FramesEvaluated, _ = strconv.ParseInt(data["frames_evaluated"], 10, 64)
		m.GoodFrames, _ = strconv.ParseInt(data["good_frames"], 10, 64)
		m.Utterances, _ = strconv.ParseInt(data["utterances"], 10, 64)

		metrics = append(metrics, m)
	}

	return metrics, nil
}
