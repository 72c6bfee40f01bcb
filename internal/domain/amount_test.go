package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(100)
	b := NewAmount(42)

	assert.Equal(t, "142", a.Add(b).String())

	diff, ok := a.Sub(b)
	require.True(t, ok)
	assert.Equal(t, "58", diff.String())

	_, ok = b.Sub(a)
	assert.False(t, ok, "subtracting a larger amount must report underflow")

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(NewAmount(100)))
	assert.True(t, Amount{}.IsZero())
}

func TestAmountFromString(t *testing.T) {
	// Larger than uint64 to make sure nothing truncates.
	a, err := AmountFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Cmp(MaxAmount()))

	_, err = AmountFromString("not a number")
	assert.Error(t, err)

	_, err = AmountFromString("-5")
	assert.Error(t, err)
}

func TestAmountJSON(t *testing.T) {
	out, err := json.Marshal(NewAmount(1000000))
	require.NoError(t, err)
	assert.Equal(t, `"1000000"`, string(out))

	var quoted Amount
	require.NoError(t, json.Unmarshal([]byte(`"25000000000000000000"`), &quoted))
	assert.Equal(t, "25000000000000000000", quoted.String())

	var bare Amount
	require.NoError(t, json.Unmarshal([]byte(`42`), &bare))
	assert.Equal(t, "42", bare.String())
}

func TestAmountScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan("123"))
	assert.Equal(t, "123", a.String())

	require.NoError(t, a.Scan([]byte("456")))
	assert.Equal(t, "456", a.String())

	require.NoError(t, a.Scan(int64(789)))
	assert.Equal(t, "789", a.String())

	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())

	assert.Error(t, a.Scan(int64(-1)))
	assert.Error(t, a.Scan(3.14))
}
