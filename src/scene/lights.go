package scene

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// Lights returns the point lights in objs ordered by ID.
func Lights(objs Map) []*GameObject {
	var out []*GameObject
	for _, obj := range objs.Sorted() {
		if obj.PointLight != nil {
			out = append(out, obj)
		}
	}
	return out
}

// RotateLights orbits every point light around the world up axis by dt
// radians.
func RotateLights(objs Map, dt float32) {
	rotation := mgl32.HomogRotate3D(dt, DefaultUp)
	for _, obj := range objs {
		if obj.PointLight == nil {
			continue
		}
		obj.Transform.Translation = rotation.Mul4x1(obj.Transform.Translation.Vec4(1)).Vec3()
	}
}

// UpdateLights copies the point lights in objs into ubo.
func UpdateLights(objs Map, ubo *GlobalUbo) error {
	lights := Lights(objs)
	if len(lights) > MaxLights {
		return errors.Newf("scene: %d point lights exceed the maximum of %d", len(lights), MaxLights)
	}
	for i, obj := range lights {
		ubo.PointLights[i] = PointLight{
			Position: obj.Transform.Translation.Vec4(1),
			Color:    obj.Color.Vec4(obj.PointLight.LightIntensity),
		}
	}
	ubo.NumLights = int32(len(lights))
	return nil
}

// SortLightsByDistance orders the point lights in objs from farthest to
// nearest to the camera, so blended billboards draw back to front.
func SortLightsByDistance(objs Map, camera mgl32.Vec3) []*GameObject {
	lights := Lights(objs)
	dist := make(map[uint32]float32, len(lights))
	for _, obj := range lights {
		d := camera.Sub(obj.Transform.Translation)
		dist[obj.ID] = d.Dot(d)
	}
	sort.SliceStable(lights, func(i, j int) bool {
		return dist[lights[i].ID] > dist[lights[j].ID]
	})
	return lights
}
