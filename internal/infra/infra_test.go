package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/config"
	"github.com/congo-pay/arithguard/internal/logging"
)

func TestOpenMemoryWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg, err := config.LoadFrom(map[string]string{"REDIS_URL": "redis://" + mr.Addr()})
	require.NoError(t, err)

	b, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer b.Close(logging.Discard())

	require.Nil(t, b.DB)
	require.NotNil(t, b.Cache)
	require.NoError(t, b.Cache.Ping(context.Background()).Err())
}

func TestConstructorsRejectEmptyURL(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), "")
	require.Error(t, err)
	_, err = NewRedisClient(context.Background(), "")
	require.Error(t, err)
	_, err = NewRedisClient(context.Background(), "not-a-url")
	require.Error(t, err)
}
