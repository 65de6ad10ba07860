package loader_test

import (
	"errors"
	"testing"

	"game-catalog/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("Skips disabled features", func(t *testing.T) {
		media := &stubFeature{name: "media", enabled: true}
		legacy := &stubFeature{name: "legacy", enabled: false}

		mgr := loader.NewManager()
		mgr.Register(media)
		mgr.Register(legacy)

		loaded, err := mgr.LoadAll(fiber.New())
		assert.NoError(t, err)
		assert.Equal(t, []string{"media"}, loaded)
		assert.True(t, media.loaded)
		assert.False(t, legacy.loaded)
		assert.Len(t, mgr.Features(), 2)
	})

	t.Run("Stops on load error", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})
		mgr.Register(&stubFeature{name: "after", enabled: true})

		loaded, err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "failed to load feature broken")
		assert.Empty(t, loaded)
	})
}
