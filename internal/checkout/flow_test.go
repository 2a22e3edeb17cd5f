package checkout

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowCODPath(t *testing.T) {
	f := NewFlow(285, 0)
	assert.Equal(t, StateSelection, f.State())

	// Cash on delivery goes straight to confirmation, never qr
	require.NoError(t, f.ChooseMethod("cod"))
	assert.Equal(t, StateConfirmation, f.State())

	result, err := f.Confirm("")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, "Cash on Delivery", result.Method)
	assert.Equal(t, 285.0, result.Amount)
	assert.True(t, strings.HasPrefix(result.Reference, "COD-"))
}

func TestFlowGCashPath(t *testing.T) {
	f := NewFlow(150, 0)

	// GCash always visits qr before any terminal success
	require.NoError(t, f.ChooseMethod("gcash"))
	assert.Equal(t, StateQR, f.State())
	assert.True(t, strings.HasPrefix(f.Reference(), "GC-"))

	result, err := f.Confirm("09171234567")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, "GCash", result.Method)
	assert.Equal(t, "09171234567", result.Originator)
	assert.Equal(t, f.Reference(), result.Reference)
}

func TestFlowGCashRequiresOriginator(t *testing.T) {
	f := NewFlow(150, 0)
	require.NoError(t, f.ChooseMethod("gcash"))

	result, err := f.Confirm("")
	assert.ErrorIs(t, err, ErrOriginatorRequired)
	assert.Nil(t, result)

	// Flow stays in qr and no success event was emitted
	assert.Equal(t, StateQR, f.State())
	assert.Nil(t, f.Result())

	// Supplying the number afterwards still works
	_, err = f.Confirm("09171234567")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, f.State())
}

func TestFlowBack(t *testing.T) {
	f := NewFlow(150, 0)
	require.NoError(t, f.ChooseMethod("gcash"))
	require.Equal(t, StateQR, f.State())

	require.NoError(t, f.Back())
	assert.Equal(t, StateSelection, f.State())
	assert.Empty(t, f.Reference())

	// Switching methods after going back is allowed
	require.NoError(t, f.ChooseMethod("cod"))
	assert.Equal(t, StateConfirmation, f.State())
}

// While the simulated processor round-trip is running, nothing may
// interrupt the flow: no back, no method change, no second confirm.
func TestFlowProcessingIsNonInterruptible(t *testing.T) {
	f := NewFlow(150, 50*time.Millisecond)
	require.NoError(t, f.ChooseMethod("cod"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.Confirm("")
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return f.State() == StateProcessing },
		time.Second, time.Millisecond)

	assert.ErrorIs(t, f.Back(), ErrProcessing)
	assert.ErrorIs(t, f.ChooseMethod("gcash"), ErrProcessing)
	_, err := f.Confirm("")
	assert.ErrorIs(t, err, ErrProcessing)

	<-done
	assert.Equal(t, StateSuccess, f.State())
}

func TestFlowReopenAfterSuccess(t *testing.T) {
	f := NewFlow(150, 0)
	require.NoError(t, f.ChooseMethod("gcash"))
	reference := f.Reference()

	_, err := f.Confirm("09171234567")
	require.NoError(t, err)
	require.Equal(t, StateSuccess, f.State())

	// A failed order write sends the flow back to its confirm step,
	// keeping the method and reference so the retry matches the receipt
	f.Reopen()
	assert.Equal(t, StateQR, f.State())
	assert.Nil(t, f.Result())
	assert.Equal(t, reference, f.Reference())

	result, err := f.Confirm("09171234567")
	require.NoError(t, err)
	assert.Equal(t, reference, result.Reference)

	// Reopen on a non-terminal flow is a no-op
	g := NewFlow(100, 0)
	require.NoError(t, g.ChooseMethod("cod"))
	g.Reopen()
	assert.Equal(t, StateConfirmation, g.State())
}

func TestFlowInvalidTransitions(t *testing.T) {
	f := NewFlow(100, 0)

	// Confirm before choosing a method
	_, err := f.Confirm("")
	assert.ErrorIs(t, err, ErrNothingToConfirm)

	assert.ErrorIs(t, f.ChooseMethod("card-swipe"), ErrUnknownMethod)

	require.NoError(t, f.ChooseMethod("cod"))
	assert.ErrorIs(t, f.ChooseMethod("gcash"), ErrNotInSelection)

	_, err = f.Confirm("")
	require.NoError(t, err)

	// Terminal state: no going back, no double payment
	assert.ErrorIs(t, f.Back(), ErrAlreadyPaid)
	_, err = f.Confirm("")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}
