package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_PreservesDocumentOrder(t *testing.T) {
	var m OrderedMap[int]
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`), &m))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":2,"mid":3}`, string(out))
}

func TestOrderedMap_RoundTripNested(t *testing.T) {
	src := `{"b":{"y":[1,2],"x":[]},"a":{}}`
	var m OrderedMap[OrderedMap[[]int]]
	require.NoError(t, json.Unmarshal([]byte(src), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var again OrderedMap[OrderedMap[[]int]]
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, m, again)

	inner, _ := again.Get("b")
	assert.Equal(t, []string{"y", "x"}, inner.Keys())
}

func TestOrderedMap_SetKeepsPositionAndDelete(t *testing.T) {
	m := NewOrderedMap[string]()
	m.Set("one", "1")
	m.Set("two", "2")
	m.Set("one", "uno")
	assert.Equal(t, []string{"one", "two"}, m.Keys())

	m.Delete("one")
	assert.Equal(t, []string{"two"}, m.Keys())
	assert.False(t, m.Has("one"))
	assert.Equal(t, 1, m.Len())
}

func TestOrderedMap_RejectsNonObject(t *testing.T) {
	var m OrderedMap[int]
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
}

func TestOrderedMap_Null(t *testing.T) {
	var m OrderedMap[int]
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, 0, m.Len())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "Rs. 1,234,567.50", Money{Amount: mustDecimal(t, "1234567.5")}.String())
	assert.Equal(t, "Rs. 70.00", Money{Amount: mustDecimal(t, "70")}.String())
	assert.Equal(t, "-1,000.00", GroupThousands("-1000.00"))
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
