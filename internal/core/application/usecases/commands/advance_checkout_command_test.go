package commands_test

import (
	"testing"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceCheckoutCommand_Valid(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewAdvanceCheckoutCommand(id, true)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.OrderID().IsEqual(id))
	assert.True(t, cmd.ToEnd())
}

func TestNewAdvanceCheckoutCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewAdvanceCheckoutCommand(kernel.UUID{}, false)

	require.Error(t, err)
}

func TestAdvanceCheckoutCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.AdvanceCheckoutCommand{}

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrAdvanceCheckoutCommandIsNotConstructed)
}
