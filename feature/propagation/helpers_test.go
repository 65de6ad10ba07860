package propagation_test

import (
	"context"
	"sync"
	"testing"

	"game-catalog/core/queue"
	"game-catalog/feature/catalog"
	"game-catalog/feature/catalog/catalogtest"
	"game-catalog/feature/propagation"
	"game-catalog/feature/provider"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (q *fakeQueue) Enqueue(_ context.Context, job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) take() []queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	jobs := q.jobs
	q.jobs = nil
	return jobs
}

func (q *fakeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// drain runs queued jobs synchronously until none are left.
func (q *fakeQueue) drain(t *testing.T) {
	t.Helper()
	for {
		jobs := q.take()
		if len(jobs) == 0 {
			return
		}
		for _, job := range jobs {
			require.NoError(t, job.Handle(context.Background()))
		}
	}
}

type fakeMedia struct {
	mu    sync.Mutex
	games []uint
}

func (m *fakeMedia) EnqueueGame(_ context.Context, gameID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, gameID)
	return nil
}

type harness struct {
	db       *gorm.DB
	engine   *propagation.Engine
	recorder *propagation.Recorder
	queue    *fakeQueue
	media    *fakeMedia
	logs     *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	db := catalogtest.NewDB(t)
	q := &fakeQueue{}
	media := &fakeMedia{}
	engine := propagation.NewEngine(db, provider.NewRegistry(), q, media, logger)

	return &harness{
		db:       db,
		engine:   engine,
		recorder: propagation.NewRecorder(db, engine.Pipeline(), logger),
		queue:    q,
		media:    media,
		logs:     logs,
	}
}

func (h *harness) createSource(t *testing.T, titleID uint, providerName, externalID string, name *string) *catalog.SourceRecord {
	t.Helper()
	src := &catalog.SourceRecord{
		VideoGameTitleID: titleID,
		Provider:         providerName,
		ExternalID:       externalID,
		Name:             name,
	}
	require.NoError(t, h.recorder.Create(context.Background(), src))
	return src
}

func (h *harness) games(t *testing.T) []catalog.VideoGame {
	t.Helper()
	var games []catalog.VideoGame
	require.NoError(t, h.db.Order("id").Find(&games).Error)
	return games
}

func (h *harness) title(t *testing.T, id uint) catalog.Title {
	t.Helper()
	var title catalog.Title
	require.NoError(t, h.db.First(&title, id).Error)
	return title
}

func (h *harness) registration(t *testing.T, providerName string) catalog.VideoGameSource {
	t.Helper()
	var reg catalog.VideoGameSource
	require.NoError(t, h.db.Where("provider = ?", providerName).First(&reg).Error)
	return reg
}
