package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/ficworld/internal/sim"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// runTTL keeps finished runs around long enough to inspect without
// accumulating forever.
const runTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func runKey(id uuid.UUID) string {
	return "ficworld:run:" + id.String()
}

func transcriptKey(id uuid.UUID) string {
	return "ficworld:transcript:" + id.String()
}

func proseKey(id uuid.UUID, scene int) string {
	return fmt.Sprintf("ficworld:prose:%s:%d", id.String(), scene)
}

func (r *RedisStorage) SaveRun(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		r.logger.Error("Failed to marshal run", "uuid", run.ID, "error", err)
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := r.client.Set(ctx, runKey(run.ID), string(data), runTTL).Err(); err != nil {
		r.logger.Error("Failed to save run", "uuid", run.ID, "error", err)
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	cmd := r.client.Get(ctx, runKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Run not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load run", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run Run
	if err := json.Unmarshal([]byte(cmd.Val()), &run); err != nil {
		r.logger.Error("Failed to unmarshal run", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

func (r *RedisStorage) AppendTranscript(ctx context.Context, runID uuid.UUID, entries []world.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			r.logger.Error("Failed to marshal log entry", "uuid", runID, "error", err)
			return fmt.Errorf("failed to marshal log entry: %w", err)
		}
		values = append(values, string(data))
	}

	key := transcriptKey(runID)
	if err := r.client.RPush(ctx, key, values...).Err(); err != nil {
		r.logger.Error("Failed to append transcript", "uuid", runID, "error", err)
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	if err := r.client.Expire(ctx, key, runTTL).Err(); err != nil {
		r.logger.Warn("Failed to set transcript TTL", "uuid", runID, "error", err)
	}
	return nil
}

func (r *RedisStorage) GetTranscript(ctx context.Context, runID uuid.UUID) ([]world.LogEntry, error) {
	raw, err := r.client.LRange(ctx, transcriptKey(runID), 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to load transcript", "uuid", runID, "error", err)
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	entries := make([]world.LogEntry, 0, len(raw))
	for _, item := range raw {
		var entry world.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			r.logger.Error("Failed to unmarshal log entry", "uuid", runID, "error", err)
			return nil, fmt.Errorf("failed to unmarshal log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisStorage) SaveSceneProse(ctx context.Context, runID uuid.UUID, result sim.SceneResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal scene result", "uuid", runID, "scene", result.Scene, "error", err)
		return fmt.Errorf("failed to marshal scene result: %w", err)
	}

	if err := r.client.Set(ctx, proseKey(runID, result.Scene), string(data), runTTL).Err(); err != nil {
		r.logger.Error("Failed to save scene result", "uuid", runID, "scene", result.Scene, "error", err)
		return fmt.Errorf("failed to save scene result: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetSceneProse(ctx context.Context, runID uuid.UUID, scene int) (sim.SceneResult, error) {
	cmd := r.client.Get(ctx, proseKey(runID, scene))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return sim.SceneResult{}, fmt.Errorf("scene %d not found for run %s", scene, runID)
		}
		r.logger.Error("Failed to load scene result", "uuid", runID, "scene", scene, "error", err)
		return sim.SceneResult{}, fmt.Errorf("failed to load scene result: %w", err)
	}

	var result sim.SceneResult
	if err := json.Unmarshal([]byte(cmd.Val()), &result); err != nil {
		r.logger.Error("Failed to unmarshal scene result", "uuid", runID, "scene", scene, "error", err)
		return sim.SceneResult{}, fmt.Errorf("failed to unmarshal scene result: %w", err)
	}
	return result, nil
}
