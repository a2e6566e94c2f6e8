package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaultsUpdatedByToCreatedBy(t *testing.T) {
	creator := uuid.New()

	info := NewBuilder().WithCreatedBy(creator).Build()

	require.NotNil(t, info.CreatedBy)
	require.NotNil(t, info.UpdatedBy)
	assert.Equal(t, creator, *info.CreatedBy)
	assert.Equal(t, creator, *info.UpdatedBy)
	assert.Equal(t, int64(1), info.Version)
	assert.Nil(t, info.DeletedAt)
}

func TestBuilderExplicitUpdatedByWins(t *testing.T) {
	creator := uuid.New()
	updater := uuid.New()

	info := NewBuilder().WithCreatedBy(creator).WithUpdatedBy(updater).Build()

	assert.Equal(t, creator, *info.CreatedBy)
	assert.Equal(t, updater, *info.UpdatedBy)
}

func TestBuilderBuildIsIdempotent(t *testing.T) {
	creator := uuid.New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	b := NewBuilder().WithCreatedBy(creator).WithTimestamp(at)

	first := b.Build()
	second := b.Build()

	assert.Equal(t, first, second)
	assert.Equal(t, at, first.CreatedAt)
	assert.Equal(t, at, first.UpdatedAt)
}

func TestTouchBumpsVersionAndActor(t *testing.T) {
	creator := uuid.New()
	updater := uuid.New()
	info := NewBuilder().WithCreatedBy(creator).Build()

	info.Touch(&updater)

	assert.Equal(t, int64(2), info.Version)
	assert.Equal(t, updater, *info.UpdatedBy)
	assert.Equal(t, creator, *info.CreatedBy)
}

func TestMarkDeletedIsSticky(t *testing.T) {
	actor := uuid.New()
	info := NewBuilder().WithCreatedBy(actor).Build()

	info.MarkDeleted(&actor)
	require.True(t, info.IsDeleted())
	firstStamp := *info.DeletedAt
	firstVersion := info.Version

	info.MarkDeleted(&actor)
	assert.Equal(t, firstStamp, *info.DeletedAt)
	assert.Equal(t, firstVersion, info.Version)
}

func TestRestoreClearsDeletion(t *testing.T) {
	actor := uuid.New()
	info := NewBuilder().WithCreatedBy(actor).Build()

	info.MarkDeleted(&actor)
	info.Restore(&actor)

	assert.False(t, info.IsDeleted())
	assert.Nil(t, info.DeletedBy)
	assert.Equal(t, int64(3), info.Version)
}
