package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Float_SqrDistance(t *testing.T) {
	a := Vec2Float{X: 1, Y: 2}
	b := Vec2Float{X: 4, Y: 6}

	assert.Equal(t, 25.0, a.SqrDistanceTo(b))
	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, a.SqrDistanceTo(b), b.SqrDistanceTo(a), "расстояние симметрично")
}

func TestVec2Float_ToVec2Truncates(t *testing.T) {
	assert.Equal(t, Vec2{X: 5, Y: 3}, Vec2Float{X: 5.9, Y: 3.1}.ToVec2())
	assert.Equal(t, Vec2{X: 0, Y: 0}, Vec2Float{X: 0.99, Y: 0.01}.ToVec2())
}

func TestVec2Float_AddSubIsZero(t *testing.T) {
	a := Vec2Float{X: 10, Y: 5}
	b := Vec2Float{X: 5, Y: 5}

	assert.Equal(t, Vec2Float{X: 5, Y: 0}, a.Sub(b))
	assert.Equal(t, Vec2Float{X: 15, Y: 10}, a.Add(b))
	assert.True(t, a.Sub(a).IsZero())
	assert.False(t, a.IsZero())
}

func TestVec2Float_String(t *testing.T) {
	assert.Equal(t, "{10, 5.5}", Vec2Float{X: 10, Y: 5.5}.String())
}
