package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raficate/missions/backend/models"
)

func sampleDoc() models.UserDoc {
	state := models.NewEmptyMissionState()
	state.LastAssignedDate = "2024-01-01"
	state.LastMissionID = "m2"
	state.SeenMissionIDs = []string{"m2"}
	return models.UserDoc{
		UserProfile:  models.UserProfile{DisplayName: "Test", Email: "t@example.com"},
		MissionState: state,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	got, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := st.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.Create(ctx, "u1", sampleDoc()))

	exists, err = st.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err = st.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m2", got.MissionState.LastMissionID)
	assert.Equal(t, "Test", got.DisplayName)
}

func TestMemoryStoreCopiesDocuments(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Create(ctx, "u1", sampleDoc()))

	got, err := st.Get(ctx, "u1")
	require.NoError(t, err)

	// Mutating what Get returned must not touch the stored copy
	got.MissionState.SeenMissionIDs[0] = "hacked"
	got.MissionState.Completed["m9"] = models.CompletionRecord{CompletedAt: time.Now()}

	again, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, again.MissionState.SeenMissionIDs)
	assert.Empty(t, again.MissionState.Completed)
}

func TestMemoryStorePartialUpdates(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Create(ctx, "u1", sampleDoc()))

	fresh := models.NewEmptyMissionState()
	require.NoError(t, st.UpdateState(ctx, "u1", fresh))

	got, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.MissionState.LastMissionID)
	// Profile untouched by a state update
	assert.Equal(t, "Test", got.DisplayName)

	require.NoError(t, st.UpdateProfile(ctx, "u1", models.UserProfile{DisplayName: "Renamed"}))
	got, err = st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.DisplayName)
	assert.Empty(t, got.MissionState.LastMissionID)
}

func TestMemoryStoreMissingDocument(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	err := st.UpdateState(ctx, "ghost", models.NewEmptyMissionState())
	assert.ErrorIs(t, err, ErrUnavailable)

	err = st.UpdateProfile(ctx, "ghost", models.UserProfile{})
	assert.ErrorIs(t, err, ErrUnavailable)

	require.NoError(t, st.Create(ctx, "u1", sampleDoc()))
	err = st.Create(ctx, "u1", sampleDoc())
	assert.ErrorIs(t, err, ErrUnavailable)
}
