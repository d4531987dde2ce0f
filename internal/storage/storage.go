package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/ficworld/internal/sim"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// Run is a persisted simulation run.
type Run struct {
	ID        uuid.UUID         `json:"id"`
	Preset    string            `json:"preset"`
	CreatedAt time.Time         `json:"created_at"`
	State     *world.WorldState `json:"state"`
}

// Storage defines persistence for runs, transcripts, and rendered
// prose.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveRun(ctx context.Context, run *Run) error
	LoadRun(ctx context.Context, id uuid.UUID) (*Run, error)

	AppendTranscript(ctx context.Context, runID uuid.UUID, entries []world.LogEntry) error
	GetTranscript(ctx context.Context, runID uuid.UUID) ([]world.LogEntry, error)

	SaveSceneProse(ctx context.Context, runID uuid.UUID, result sim.SceneResult) error
	GetSceneProse(ctx context.Context, runID uuid.UUID, scene int) (sim.SceneResult, error)
}
