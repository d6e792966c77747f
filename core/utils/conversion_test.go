package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int64", int64(2750405), 2750405},
		{"int32", int32(-5), -5},
		{"uint8", uint8(7), 7},
		{"float", 12.9, 12},
		{"string", " 6295630 ", 6295630},
		{"float string", "741000000.0", 741000000},
		{"bytes", []byte("42"), 42},
		{"nil", nil, 0},
		{"garbage", "n/a", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt64(tt.in))
		})
	}
}

func TestToUint64(t *testing.T) {
	assert.Equal(t, uint64(100), ToUint64("100"))
	assert.Equal(t, uint64(0), ToUint64(int64(-3)))
	assert.Equal(t, uint64(1<<63+1), ToUint64(uint64(1<<63+1)))
	assert.Equal(t, uint64(0), ToUint64(nil))
}

func TestToFloat64(t *testing.T) {
	assert.InDelta(t, 52.37403, ToFloat64("52.37403"), 1e-9)
	assert.InDelta(t, 4.88969, ToFloat64([]byte("4.88969")), 1e-9)
	assert.InDelta(t, 3.0, ToFloat64(int64(3)), 1e-9)
	assert.InDelta(t, 1.5, ToFloat64(float32(1.5)), 1e-9)
	assert.Zero(t, ToFloat64(nil))
	assert.Zero(t, ToFloat64("north"))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "Amsterdam", ToString("Amsterdam"))
	assert.Equal(t, "Amsterdam", ToString([]byte("Amsterdam")))
	assert.Equal(t, "12", ToString(12))
	assert.Equal(t, "", ToString(nil))
	assert.True(t, IsNull(nil))
	assert.False(t, IsNull(""))
}
