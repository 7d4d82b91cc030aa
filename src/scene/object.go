package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// IDAllocator hands out game object IDs. Each registry owns its own
// allocator, so IDs are only unique within that registry.
type IDAllocator struct {
	next uint32
}

func NewIDAllocator(start uint32) *IDAllocator {
	return &IDAllocator{next: start}
}

func (a *IDAllocator) NextID() uint32 {
	id := a.next
	a.next++
	return id
}

type PointLightComponent struct {
	LightIntensity float32
}

type GameObject struct {
	ID         uint32
	Color      mgl32.Vec3
	Transform  Transform
	PointLight *PointLightComponent
}

// Map indexes game objects by ID.
type Map map[uint32]*GameObject

// Sorted returns the objects ordered by ID.
func (m Map) Sorted() []*GameObject {
	out := make([]*GameObject, 0, len(m))
	for _, obj := range m {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Registry creates game objects and keeps them by ID.
type Registry struct {
	ids     *IDAllocator
	Objects Map
}

// NewRegistry uses ids to number objects, a nil allocator starts at 0.
func NewRegistry(ids *IDAllocator) *Registry {
	if ids == nil {
		ids = NewIDAllocator(0)
	}
	return &Registry{ids: ids, Objects: Map{}}
}

func (r *Registry) Create() *GameObject {
	obj := &GameObject{
		ID:        r.ids.NextID(),
		Transform: NewTransform(),
	}
	r.Objects[obj.ID] = obj
	return obj
}

// CreatePointLight creates a light whose billboard radius is stored in the
// transform's X scale.
func (r *Registry) CreatePointLight(intensity, radius float32, color mgl32.Vec3) *GameObject {
	obj := r.Create()
	obj.Color = color
	obj.Transform.Scale[0] = radius
	obj.PointLight = &PointLightComponent{LightIntensity: intensity}
	return obj
}

func (r *Registry) Remove(id uint32) {
	delete(r.Objects, id)
}
