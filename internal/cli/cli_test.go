package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/repository"
)

func TestNewRoot_Subcommands(t *testing.T) {
	root := NewRoot()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed", "worker"}, names)

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("migrate"))
	assert.NotNil(t, serve.Flags().Lookup("seed"))
}

func TestOpenStores_Memory(t *testing.T) {
	st, err := openStores(config.Config{StoreDriver: config.StoreMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, st.db)
	assert.IsType(t, &repository.MemoryRoomRepo{}, st.rooms)
	assert.IsType(t, &repository.MemoryReservationRepo{}, st.reservations)
	assert.NoError(t, st.Close())
}
