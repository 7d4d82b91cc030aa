package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocator(t *testing.T) {
	ids := NewIDAllocator(5)
	assert.Equal(t, uint32(5), ids.NextID())
	assert.Equal(t, uint32(6), ids.NextID())
	assert.Equal(t, uint32(7), ids.NextID())
}

func TestRegistriesNumberIndependently(t *testing.T) {
	a := NewRegistry(nil)
	b := NewRegistry(nil)

	assert.Equal(t, uint32(0), a.Create().ID)
	assert.Equal(t, uint32(1), a.Create().ID)
	assert.Equal(t, uint32(0), b.Create().ID)
	assert.Len(t, a.Objects, 2)
	assert.Len(t, b.Objects, 1)
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry(NewIDAllocator(10))
	obj := r.Create()
	assert.Equal(t, uint32(10), obj.ID)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Transform.Scale)
	assert.Nil(t, obj.PointLight)
	assert.Same(t, obj, r.Objects[10])
}

func TestRegistryCreatePointLight(t *testing.T) {
	r := NewRegistry(nil)
	light := r.CreatePointLight(0.2, 0.1, mgl32.Vec3{1, 0, 0})
	require.NotNil(t, light.PointLight)
	assert.Equal(t, float32(0.2), light.PointLight.LightIntensity)
	assert.Equal(t, float32(0.1), light.Transform.Scale.X())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, light.Color)
}

func TestRegistryRemoveAndSorted(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < 5; i++ {
		r.Create()
	}
	r.Remove(2)
	r.Remove(42)

	var ids []uint32
	for _, obj := range r.Objects.Sorted() {
		ids = append(ids, obj.ID)
	}
	assert.Equal(t, []uint32{0, 1, 3, 4}, ids)
}
