package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New(21, 2, 10)
	assert.Equal(t, int64(3), p.TotalPages)

	p = New(0, 1, 10)
	assert.Equal(t, int64(0), p.TotalPages)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name              string
		page, limit       int64
		wantPage, wantLim int64
	}{
		{"defaults", 0, 0, 1, DefaultLimit},
		{"negative", -3, -1, 1, DefaultLimit},
		{"capped", 4, 500, 4, MaxLimit},
		{"untouched", 2, 25, 2, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := Normalize(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLim, limit)
		})
	}

	assert.Equal(t, 20, Offset(3, 10))
}
