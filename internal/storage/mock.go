package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/ficworld/internal/sim"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// MockStorage is an in-memory Storage for testing. Individual methods
// can be overridden via the Func fields.
type MockStorage struct {
	mu sync.Mutex

	runs        map[uuid.UUID]*Run
	transcripts map[uuid.UUID][]world.LogEntry
	prose       map[string]sim.SceneResult

	PingFunc    func(ctx context.Context) error
	SaveRunFunc func(ctx context.Context, run *Run) error

	SaveRunCalls int
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		runs:        make(map[uuid.UUID]*Run),
		transcripts: make(map[uuid.UUID][]world.LogEntry),
		prose:       make(map[string]sim.SceneResult),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	m.SaveRunCalls++
	m.mu.Unlock()

	if m.SaveRunFunc != nil {
		return m.SaveRunFunc(ctx, run)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *MockStorage) LoadRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id], nil
}

func (m *MockStorage) AppendTranscript(ctx context.Context, runID uuid.UUID, entries []world.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts[runID] = append(m.transcripts[runID], entries...)
	return nil
}

func (m *MockStorage) GetTranscript(ctx context.Context, runID uuid.UUID) ([]world.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]world.LogEntry, len(m.transcripts[runID]))
	copy(out, m.transcripts[runID])
	return out, nil
}

func (m *MockStorage) SaveSceneProse(ctx context.Context, runID uuid.UUID, result sim.SceneResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prose[proseMapKey(runID, result.Scene)] = result
	return nil
}

func (m *MockStorage) GetSceneProse(ctx context.Context, runID uuid.UUID, scene int) (sim.SceneResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.prose[proseMapKey(runID, scene)]
	if !ok {
		return sim.SceneResult{}, fmt.Errorf("scene %d not found for run %s", scene, runID)
	}
	return result, nil
}

func proseMapKey(runID uuid.UUID, scene int) string {
	return fmt.Sprintf("%s:%d", runID, scene)
}
