package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Total(tt.count), "count=%d", tt.count)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 20, Offset(3))
	assert.Equal(t, 0, Offset(0), "page below 1 is clamped")
	assert.Equal(t, 0, Offset(-4))
}
