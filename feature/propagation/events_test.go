package propagation_test

import (
	"context"
	"testing"

	"game-catalog/feature/catalog"
	"game-catalog/feature/propagation"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEvent_WatchedChanged(t *testing.T) {
	tests := []struct {
		changed []string
		want    bool
	}{
		{nil, false},
		{[]string{"external_id"}, false},
		{[]string{"payload", "rating_count"}, false},
		{[]string{"external_id", "name"}, true},
		{[]string{"release_date"}, true},
		{[]string{"platform"}, true},
	}
	for _, tt := range tests {
		ev := propagation.Event{Type: propagation.EventUpdated, Changed: tt.changed}
		assert.Equal(t, tt.want, ev.WatchedChanged(), "%v", tt.changed)
	}
}

func TestPipeline_Dispatch(t *testing.T) {
	var order []string
	record := func(name string) propagation.HandlerFunc {
		return func(context.Context, *gorm.DB, propagation.Event) error {
			order = append(order, name)
			return nil
		}
	}

	p := propagation.NewPipeline(
		propagation.Binding{Event: propagation.EventCreated, Handler: record("a")},
		propagation.Binding{Event: propagation.EventUpdated, Handler: record("b")},
		propagation.Binding{Event: propagation.EventCreated, Handler: record("c")},
	)

	assert.NoError(t, p.Dispatch(context.Background(), nil, propagation.Event{Type: propagation.EventCreated}))
	assert.Equal(t, []string{"a", "c"}, order)

	assert.NoError(t, p.Dispatch(context.Background(), nil, propagation.Event{Type: propagation.EventDeleted}))
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestEngine_Bindings(t *testing.T) {
	h := newHarness(t)
	p := h.engine.Pipeline()

	assert.True(t, p.Bound(propagation.EventCreated))
	assert.True(t, p.Bound(propagation.EventUpdated))
	assert.True(t, p.Bound(propagation.EventRestored))
	assert.False(t, p.Bound(propagation.EventDeleted))
}

func TestChangedFields(t *testing.T) {
	before := &catalog.SourceRecord{Provider: "igdb", ExternalID: "1", Name: ptr("A")}
	after := &catalog.SourceRecord{Provider: "igdb", ExternalID: "2", Name: ptr("A"), Genre: ptr("RPG")}

	assert.Equal(t, []string{"external_id", "genre"}, propagation.ChangedFields(before, after))
	assert.Empty(t, propagation.ChangedFields(before, before))
}

func ptr[T any](v T) *T { return &v }
