package warehouse_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/warepath/warehouse"
)

func TestStore_Lifecycle(t *testing.T) {
	s, err := warehouse.NewStore(openConfig(), 2)
	require.NoError(t, err)

	def, err := s.Get("")
	require.NoError(t, err)
	assert.Same(t, s.Default(), def)

	id, w, err := s.Create()
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.NotSame(t, def, w)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, warehouse.ErrUnknownSession)
	assert.ErrorIs(t, s.Delete(id), warehouse.ErrUnknownSession)
	assert.Zero(t, s.Len())
}

func TestStore_Limit(t *testing.T) {
	s, err := warehouse.NewStore(openConfig(), 1)
	require.NoError(t, err)

	_, _, err = s.Create()
	require.NoError(t, err)
	_, _, err = s.Create()
	assert.ErrorIs(t, err, warehouse.ErrTooManySessions)
}

func TestStore_UnknownIDs(t *testing.T) {
	s, err := warehouse.NewStore(openConfig(), 0)
	require.NoError(t, err)

	for _, id := range []string{"not-a-uuid", uuid.NewString()} {
		_, err := s.Get(id)
		assert.ErrorIs(t, err, warehouse.ErrUnknownSession, id)
		assert.ErrorIs(t, s.Delete(id), warehouse.ErrUnknownSession, id)
	}
}
