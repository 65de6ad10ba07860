package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_Unreachable(t *testing.T) {
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", TimeoutSeconds: 1})
	assert.ErrorContains(t, err, "failed to ping redis at 127.0.0.1:1")
	assert.Nil(t, client)
}
