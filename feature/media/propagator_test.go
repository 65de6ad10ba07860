package media_test

import (
	"context"
	"sync"
	"testing"

	"game-catalog/core/queue"
	"game-catalog/feature/catalog"
	"game-catalog/feature/catalog/catalogtest"
	"game-catalog/feature/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

type recordingInvalidator struct {
	products []uint
}

func (r *recordingInvalidator) Invalidate(productID uint) {
	r.products = append(r.products, productID)
}

const mediaPayload = `{
	"cover": {"url": "https://images.example.com/cover.jpg", "width": 600, "height": 800},
	"screenshots": ["https://images.example.com/s1.jpg", "https://images.example.com/s2.jpg"],
	"media": [{"url": "https://images.example.com/logo.png", "role": "logo"}],
	"videos": [{"video_id": "xyz", "type": "trailer"}]
}`

func seedSource(t *testing.T, db *gorm.DB, game *catalog.VideoGame, payload string) {
	t.Helper()
	rec := catalog.SourceRecord{
		VideoGameTitleID: game.VideoGameTitleID,
		Provider:         game.Provider,
		ExternalID:       game.ExternalID,
		Payload:          datatypes.JSON(payload),
	}
	require.NoError(t, db.Create(&rec).Error)
}

func newPropagator(db *gorm.DB) (*media.Propagator, *recordingInvalidator, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	inv := &recordingInvalidator{}
	return media.NewPropagator(db, &recordingQueue{}, inv, zap.New(core)), inv, logs
}

func TestPropagate_WritesMediaRows(t *testing.T) {
	db := catalogtest.NewDB(t)
	title := catalogtest.SeedTitle(t, db, "Media Game")
	game := catalogtest.SeedGame(t, db, title.ID, "igdb", "100", "Media Game")
	seedSource(t, db, game, mediaPayload)

	p, inv, logs := newPropagator(db)
	require.NoError(t, p.Propagate(context.Background(), game.ID))

	var images []catalog.Image
	require.NoError(t, db.Find(&images).Error)
	require.Len(t, images, 1)
	assert.Equal(t, "igdb", images[0].Provider)
	assert.Equal(t, []string{
		"https://images.example.com/cover.jpg",
		"https://images.example.com/s1.jpg",
		"https://images.example.com/s2.jpg",
		"https://images.example.com/logo.png",
	}, []string(images[0].URLs))
	assert.Equal(t, media.KindCover, images[0].Details[0].Kind)

	var videos []catalog.Video
	require.NoError(t, db.Find(&videos).Error)
	require.Len(t, videos, 1)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=xyz"}, []string(videos[0].URLs))

	assert.Equal(t, []uint{title.ProductID}, inv.products)

	entries := logs.FilterMessage("Media propagation summary").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(4), fields["images"])
	assert.Equal(t, int64(1), fields["videos"])
	assert.Equal(t, int64(2), fields["screenshots"])
	assert.Equal(t, int64(1), fields["logos"])
}

func TestPropagate_Idempotent(t *testing.T) {
	db := catalogtest.NewDB(t)
	title := catalogtest.SeedTitle(t, db, "Media Game")
	game := catalogtest.SeedGame(t, db, title.ID, "igdb", "100", "Media Game")
	seedSource(t, db, game, mediaPayload)

	p, _, _ := newPropagator(db)
	require.NoError(t, p.Propagate(context.Background(), game.ID))
	require.NoError(t, p.Propagate(context.Background(), game.ID))

	var count int64
	require.NoError(t, db.Model(&catalog.Image{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&catalog.Video{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPropagate_MissingGame(t *testing.T) {
	db := catalogtest.NewDB(t)
	p, inv, logs := newPropagator(db)

	assert.NoError(t, p.Propagate(context.Background(), 404))
	assert.Empty(t, inv.products)
	assert.Equal(t, 1, logs.FilterMessage("Game not found, skipping media propagation").Len())
}

func TestPropagate_UndecodablePayloadIsPermanent(t *testing.T) {
	db := catalogtest.NewDB(t)
	title := catalogtest.SeedTitle(t, db, "Broken Game")
	game := catalogtest.SeedGame(t, db, title.ID, "rawg", "7", "Broken Game")
	seedSource(t, db, game, `["not", "an", "object"]`)

	p, _, _ := newPropagator(db)
	err := p.Propagate(context.Background(), game.ID)
	require.Error(t, err)
	assert.Equal(t, queue.OutcomePermanent, queue.Classify(err))
}

func TestPropagate_NoMediaKeepsRows(t *testing.T) {
	db := catalogtest.NewDB(t)
	title := catalogtest.SeedTitle(t, db, "Quiet Game")
	game := catalogtest.SeedGame(t, db, title.ID, "igdb", "1", "Quiet Game")
	require.NoError(t, db.Create(&catalog.Image{
		VideoGameID: game.ID,
		Provider:    "igdb",
		URLs:        []string{"https://images.example.com/old.jpg"},
	}).Error)
	seedSource(t, db, game, `{"name": "Quiet Game"}`)

	p, _, _ := newPropagator(db)
	require.NoError(t, p.Propagate(context.Background(), game.ID))

	var image catalog.Image
	require.NoError(t, db.First(&image).Error)
	assert.Equal(t, []string{"https://images.example.com/old.jpg"}, []string(image.URLs))
}

func TestEnqueueGame(t *testing.T) {
	q := &recordingQueue{}
	p := media.NewPropagator(nil, q, nil, zap.NewNop())

	require.NoError(t, p.EnqueueGame(context.Background(), 5))
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, media.JobName, job.Name())
	unique, ok := job.(queue.Unique)
	require.True(t, ok)
	assert.Equal(t, "propagate-media-5", unique.UniqueID())

	backoff, ok := job.(queue.Backoffer)
	require.True(t, ok)
	assert.Len(t, backoff.Backoff(), 3)

	retry, ok := job.(queue.Retryable)
	require.True(t, ok)
	assert.Equal(t, 3, retry.Tries())
}
