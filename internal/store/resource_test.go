package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veto/internal/booking"
)

// TestResource_RoundTrip tests create and read back.
func TestResource_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateResource(ctx, booking.Resource{
		ID: "res-1", Name: "Projector", Type: booking.ResourceEquipment,
		Capacity: 2, Active: true,
	}))

	res, err := s.Resource(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, "Projector", res.Name)
	assert.Equal(t, booking.ResourceEquipment, res.Type)
	assert.Equal(t, int64(2), res.Capacity)
	assert.True(t, res.Active)
}

// TestResource_NotFound tests the sentinel wrapping.
func TestResource_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Resource(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

// TestResource_NameTaken tests unique-name mapping, including NFC
// normalization catching visually identical names.
func TestResource_NameTaken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateResource(ctx, booking.Resource{
		ID: "res-1", Name: "Caf\u00e9 Room", Type: booking.ResourceRoom,
		Capacity: 1, Active: true,
	}))

	// Decomposed form of the same name collides after normalization.
	err := s.CreateResource(ctx, booking.Resource{
		ID: "res-2", Name: "Cafe\u0301 Room", Type: booking.ResourceRoom,
		Capacity: 1, Active: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameTaken)
}

// TestResource_ByName tests lookup over the normalized name.
func TestResource_ByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateResource(ctx, booking.Resource{
		ID: "res-1", Name: "Projector", Type: booking.ResourceEquipment,
		Capacity: 2, Active: true,
	}))

	res, err := s.ResourceByName(ctx, "Projector")
	require.NoError(t, err)
	assert.Equal(t, "res-1", res.ID)

	_, err = s.ResourceByName(ctx, "Microphone")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestResource_InvalidInputs tests insert validation.
func TestResource_InvalidInputs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		resource booking.Resource
		wantErr  string
	}{
		{
			name:     "missing id",
			resource: booking.Resource{Name: "X", Type: booking.ResourceRoom, Capacity: 1},
			wantErr:  "resource id is required",
		},
		{
			name:     "zero capacity",
			resource: booking.Resource{ID: "r", Name: "X", Type: booking.ResourceRoom, Capacity: 0},
			wantErr:  "capacity must be >= 1",
		},
		{
			name:     "bad type",
			resource: booking.Resource{ID: "r", Name: "X", Type: booking.ResourceType("starship"), Capacity: 1},
			wantErr:  "invalid type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateResource(ctx, tt.resource)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestListResources_Order tests deterministic name ordering and the
// empty-slice convention.
func TestListResources_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.ListResources(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	addResource(t, s, "zoom-room", 1)
	addResource(t, s, "amp", 1)
	addResource(t, s, "microphone", 4)

	resources, err := s.ListResources(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 3)
	assert.Equal(t, "amp", resources[0].Name)
	assert.Equal(t, "microphone", resources[1].Name)
	assert.Equal(t, "zoom-room", resources[2].Name)
}

// TestResource_UpdateCapacity tests capacity updates and not-found.
func TestResource_UpdateCapacity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)

	require.NoError(t, s.UpdateResourceCapacity(ctx, "projector", 5))
	res, err := s.Resource(ctx, "projector")
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Capacity)

	err = s.UpdateResourceCapacity(ctx, "projector", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity must be >= 1")

	assert.ErrorIs(t, s.UpdateResourceCapacity(ctx, "ghost", 3), ErrNotFound)
}

// TestResource_SetActive tests the activation toggle.
func TestResource_SetActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)

	require.NoError(t, s.SetResourceActive(ctx, "projector", false))
	res, err := s.Resource(ctx, "projector")
	require.NoError(t, err)
	assert.False(t, res.Active)

	require.NoError(t, s.SetResourceActive(ctx, "projector", true))
	res, err = s.Resource(ctx, "projector")
	require.NoError(t, err)
	assert.True(t, res.Active)

	assert.ErrorIs(t, s.SetResourceActive(ctx, "ghost", true), ErrNotFound)
}
