package propagation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit(t *testing.T) {
	t.Run("runs immediately without a collector", func(t *testing.T) {
		ran := false
		afterCommit(context.Background(), func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("defers until run", func(t *testing.T) {
		ctx, hooks := withCommitHooks(context.Background())
		var order []int
		afterCommit(ctx, func() { order = append(order, 1) })
		afterCommit(ctx, func() { order = append(order, 2) })
		assert.Empty(t, order)

		hooks.run()
		assert.Equal(t, []int{1, 2}, order)

		hooks.run()
		assert.Equal(t, []int{1, 2}, order, "hooks run once")
	})
}
