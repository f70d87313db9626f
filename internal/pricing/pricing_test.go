package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"number", 1250.0, 1250},
		{"int", 100, 100},
		{"plain string", "899.99", 899.99},
		{"grouped string", "1,250", 1250},
		{"grouped thousands", "12,345,678.5", 12345678.5},
		{"padded string", "  450 ", 450},
		{"garbage", "sold out", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,250", Format(1250))
	assert.Equal(t, "999", Format(999))
	assert.Equal(t, "12,345,678.5", Format(12345678.5))
	assert.Equal(t, "0", Format(0))
	assert.Equal(t, "-1,200", Format(-1200))
}

func TestValueRoundTrip(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`"1,250"`), &v))
	assert.Equal(t, 1250.0, v.Float64())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"1,250"`, string(out), "string prices keep their shape")

	require.NoError(t, json.Unmarshal([]byte(`899.5`), &v))
	assert.Equal(t, 899.5, v.Float64())
	out, err = json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `899.5`, string(out))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 1250.0, Parse(NewStringValue("1,250")))
	assert.Equal(t, 75.0, Parse(NewValue(75)))
}
