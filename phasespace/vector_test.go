package phasespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2, 3, 4, 5, 6}
	b := Vector{6, 5, 4, 3, 2, 1}

	assert.Equal(t, Vector{7, 7, 7, 7, 7, 7}, a.Add(b))
	assert.Equal(t, Vector{-5, -3, -1, 1, 3, 5}, a.Sub(b))
	assert.Equal(t, Vector{2, 4, 6, 8, 10, 12}, a.Scale(2))

	// Value semantics: a is unchanged by the above.
	assert.Equal(t, Vector{1, 2, 3, 4, 5, 6}, a)
}

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
	}{
		{"Zero", Vector{}, Vector{1, 1, 1, 1, 1, 1}, 0},
		{"Unit", Vector{1, 0, 0, 0, 0, 0}, Vector{1, 0, 0, 0, 0, 0}, 1},
		{"Mixed", Vector{1, -1, 2, 0, 0, 0}, Vector{1, 1, -2, 0, 0, 0}, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-15)
		})
	}
}

func TestMatrixIdentity(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5, 6}
	assert.Equal(t, v, Identity().MulVec(v))
}

func TestMatrixMulVec(t *testing.T) {
	// A drift of length 2: x += 2x', y += 2y'.
	m := Identity()
	m[X][XP] = 2
	m[Y][YP] = 2

	v := Vector{1, 0.5, -1, 0.25, 0, 0.1}
	got := m.MulVec(v)

	assert.InDelta(t, 2.0, got[X], 1e-15)
	assert.InDelta(t, 0.5, got[XP], 1e-15)
	assert.InDelta(t, -0.5, got[Y], 1e-15)
	assert.InDelta(t, 0.25, got[YP], 1e-15)
	assert.InDelta(t, 0.1, got[DP], 1e-15)
}

func TestMatrixMul(t *testing.T) {
	// Two drifts compose into one of the combined length.
	d1 := Identity()
	d1[X][XP] = 1.5
	d2 := Identity()
	d2[X][XP] = 0.5

	got := d2.Mul(d1)
	assert.InDelta(t, 2.0, got[X][XP], 1e-15)
	assert.InDelta(t, 1.0, got[X][X], 1e-15)
}
