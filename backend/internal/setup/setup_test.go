package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/postboard/backend/internal/storage/memory"
	"github.com/itchan-dev/postboard/shared/config"
)

func TestSetupDependencies_Memory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := &config.Config{Public: config.Public{
		Store:            config.StoreMemory,
		DefaultPageLimit: 10,
		MaxPageLimit:     50,
		CreateUserRPS:    1,
		CreateUserBurst:  1,
	}}

	deps, err := SetupDependencies(ctx, cfg)
	require.NoError(t, err)

	assert.IsType(t, &memory.Storage{}, deps.Store)
	assert.NotNil(t, deps.Handler)
	assert.True(t, deps.CreateUserLimiter.Allow("1.2.3.4"))
	assert.False(t, deps.CreateUserLimiter.Allow("1.2.3.4"))
	assert.NoError(t, deps.Store.Ping(ctx))
}

func TestNewStore_Unknown(t *testing.T) {
	_, err := NewStore(context.Background(), &config.Config{Public: config.Public{Store: "sqlite"}})
	assert.Error(t, err)
}
