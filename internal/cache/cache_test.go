package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Services hold a *Client that may be nil when no cache is configured; every
// operation must degrade to a miss instead of panicking.
func TestNilClientFailsSafe(t *testing.T) {
	ctx := context.Background()
	var c *Client

	data, err := c.Get(ctx, "courses:all")
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, "courses:all", []byte("{}"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "courses:all"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "courses:all", Key("courses", "all"))
	assert.Equal(t, "courses", Key("courses"))
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	ctx := context.Background()
	c := New("127.0.0.1:1", "", 0)

	data, err := c.Get(ctx, "courses:all")
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, "courses:all", []byte("{}"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "courses:all"))
}
