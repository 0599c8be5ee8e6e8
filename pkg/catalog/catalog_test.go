package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-saga/pkg/models"
)

func TestByGender(t *testing.T) {
	t.Run("Male", func(t *testing.T) {
		services, err := ByGender(models.Male)
		require.NoError(t, err)
		assert.Len(t, services, 6)
		assert.Equal(t, "m1", services[0].ID)
	})

	t.Run("Female", func(t *testing.T) {
		services, err := ByGender(models.Female)
		require.NoError(t, err)
		assert.Len(t, services, 7)
		assert.Equal(t, "f7", services[6].ID)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ByGender("other")
		assert.Error(t, err)
	})
}

func TestByIDs(t *testing.T) {
	t.Run("Resolves In Request Order", func(t *testing.T) {
		services, err := ByIDs(models.Female, []string{"f2", "f1"})
		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Equal(t, "f2", services[0].ID)
		assert.Equal(t, "f1", services[1].ID)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		_, err := ByIDs(models.Male, []string{"m1", "f1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "service not found: f1")
	})
}

func TestBasePrice(t *testing.T) {
	services, err := ByIDs(models.Female, []string{"f1", "f2"})
	require.NoError(t, err)

	assert.Equal(t, 1200.0, BasePrice(services))
	assert.Equal(t, 0.0, BasePrice(nil))
}
