package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvoip/configure/internal/errors"
)

func TestLabelBounds(t *testing.T) {
	for name, table := range Tables {
		t.Run(name, func(t *testing.T) {
			label, ok, err := table.Label(0)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, table[0], label)

			last := len(table) - 1
			label, ok, err = table.Label(last)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, table[last], label)

			label, ok, err = table.Label(len(table))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, label)

			_, ok, err = table.Label(-1)
			assert.False(t, ok)
			assert.True(t, errors.IsError(err, ErrNegativeCode))
		})
	}
}

func TestKnownLabels(t *testing.T) {
	assert.Len(t, CallEndReason, 31)
	assert.Len(t, SendUserInputMode, 6)

	label, _, _ := CallEndReason.Label(3)
	assert.Equal(t, "EndedByRemoteUser", label)
	label, _, _ = CallEndReason.Label(30)
	assert.Equal(t, "EndedByGkAdmissionFailed", label)
	label, _, _ = SendUserInputMode.Label(3)
	assert.Equal(t, "SendUserInputAsRFC2833", label)
}

func TestLookup(t *testing.T) {
	label, ok, err := Lookup("userinput", 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SendUserInputAsProtocolDefault", label)

	_, _, err = Lookup("q931", 0)
	assert.Error(t, err)
}
