// internal/infrastructure/database/redis/connection_test.go
package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Client{
		Redis: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
	}, mr
}

func TestSetJSONGetJSONRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"nombre"`
		Total float64 `json:"total"`
	}

	in := payload{Name: "Café Americano", Total: 12.5}
	require.NoError(t, client.SetJSON(ctx, "ventas:resumen", in, time.Minute))

	var out payload
	require.NoError(t, client.GetJSON(ctx, "ventas:resumen", &out))
	assert.Equal(t, in, out)
}

func TestGetJSONMissingKeyReturnsNil(t *testing.T) {
	client, _ := newTestClient(t)

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), "no-such-key", &out)
	assert.ErrorIs(t, err, goredis.Nil)
}

func TestSetJSONHonorsExpiration(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "ventas:resumen", "x", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	err := client.GetJSON(ctx, "ventas:resumen", &out)
	assert.ErrorIs(t, err, goredis.Nil)
}
