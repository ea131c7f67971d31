package commands_test

import (
	"testing"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateCheckoutCommand_Valid(t *testing.T) {
	id := kernel.NewUUID()
	patch := map[string]any{"payment_source": "card-42"}

	cmd, err := commands.NewUpdateCheckoutCommand(id, patch)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.OrderID().IsEqual(id))
	assert.Equal(t, patch, cmd.Patch())
}

func TestNewUpdateCheckoutCommand_EmptyPatch(t *testing.T) {
	_, err := commands.NewUpdateCheckoutCommand(kernel.NewUUID(), map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "patch")
}

func TestNewUpdateCheckoutCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewUpdateCheckoutCommand(kernel.UUID{}, map[string]any{"payment_source": "x"})

	require.Error(t, err)
}

func TestUpdateCheckoutCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.UpdateCheckoutCommand{}

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrUpdateCheckoutCommandIsNotConstructed)
}
