package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryBuilderDefaultsAreValid(t *testing.T) {
	today := model.DateOf(Now)
	for _, e := range append(SampleEntries(), NewEntry("x").Build()) {
		assert.NoError(t, e.Validate(today), e.ID)
	}
}

func TestTestStore(t *testing.T) {
	s := SetupTestStore(t).WithEntries(MetroCard())
	assert.Len(t, s.Reload(), 1)
	assert.Equal(t, 1, s.Writes())

	s.FailWrites(true)
	err := s.SaveEntries(context.Background(), nil)
	require.ErrorIs(t, err, ErrInjected)
	assert.Len(t, s.Reload(), 1)

	s.FailWrites(false)
	require.NoError(t, s.SaveEntries(context.Background(), nil))
	assert.Empty(t, s.Reload())
}
