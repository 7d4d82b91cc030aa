package scene

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultUp points along -Y, Vulkan's clip space has Y pointing down.
var DefaultUp = mgl32.Vec3{0, -1, 0}

const epsilon = 1.1920929e-07

// Camera holds a projection and a view matrix. Projections map into Vulkan's
// canonical view volume: x and y in [-1, 1], z in [0, 1].
type Camera struct {
	projection  mgl32.Mat4
	view        mgl32.Mat4
	inverseView mgl32.Mat4
}

func NewCamera() *Camera {
	return &Camera{
		projection:  mgl32.Ident4(),
		view:        mgl32.Ident4(),
		inverseView: mgl32.Ident4(),
	}
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

func (c *Camera) InverseView() mgl32.Mat4 {
	return c.inverseView
}

// Position is the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.inverseView.Col(3).Vec3()
}

func (c *Camera) SetOrthographicProjection(left, right, top, bottom, near, far float32) {
	m := mgl32.Ident4()
	m.Set(0, 0, 2/(right-left))
	m.Set(1, 1, 2/(bottom-top))
	m.Set(2, 2, 1/(far-near))
	m.Set(0, 3, -(right+left)/(right-left))
	m.Set(1, 3, -(bottom+top)/(bottom-top))
	m.Set(2, 3, -near/(far-near))
	c.projection = m
}

// SetPerspectiveProjection takes the vertical field of view in radians.
func (c *Camera) SetPerspectiveProjection(fovy, aspect, near, far float32) error {
	if float32(math.Abs(float64(aspect))) <= epsilon {
		return errors.AssertionFailedf("camera: degenerate aspect ratio %v", aspect)
	}
	tanHalfFovy := float32(math.Tan(float64(fovy / 2)))
	var m mgl32.Mat4
	m.Set(0, 0, 1/(aspect*tanHalfFovy))
	m.Set(1, 1, 1/tanHalfFovy)
	m.Set(2, 2, far/(far-near))
	m.Set(3, 2, 1)
	m.Set(2, 3, -(far*near)/(far-near))
	c.projection = m
	return nil
}

// setBasis stores the view for the orthonormal camera basis u, v, w at
// position, together with its inverse.
func (c *Camera) setBasis(position, u, v, w mgl32.Vec3) {
	view := mgl32.Ident4()
	view.SetRow(0, u.Vec4(-u.Dot(position)))
	view.SetRow(1, v.Vec4(-v.Dot(position)))
	view.SetRow(2, w.Vec4(-w.Dot(position)))
	c.view = view

	inv := mgl32.Ident4()
	inv.SetCol(0, u.Vec4(0))
	inv.SetCol(1, v.Vec4(0))
	inv.SetCol(2, w.Vec4(0))
	inv.SetCol(3, position.Vec4(1))
	c.inverseView = inv
}

// SetViewDirection looks from position along dir. dir must be non-zero and
// not parallel to up.
func (c *Camera) SetViewDirection(position, dir, up mgl32.Vec3) error {
	if dir.Dot(dir) <= epsilon {
		return errors.AssertionFailedf("camera: view direction is the zero vector")
	}
	w := dir.Normalize()
	side := w.Cross(up)
	if side.Dot(side) <= epsilon {
		return errors.AssertionFailedf("camera: view direction %v is parallel to up %v", dir, up)
	}
	u := side.Normalize()
	v := w.Cross(u)
	c.setBasis(position, u, v, w)
	return nil
}

func (c *Camera) SetViewTarget(position, target, up mgl32.Vec3) error {
	return c.SetViewDirection(position, target.Sub(position), up)
}

// SetViewYXZ orients the camera with the same Y, X, Z rotation order used
// by TransformMat4.
func (c *Camera) SetViewYXZ(position, rotation mgl32.Vec3) {
	s3, c3 := sincos(rotation.Z())
	s2, c2 := sincos(rotation.X())
	s1, c1 := sincos(rotation.Y())
	u := mgl32.Vec3{c1*c3 + s1*s2*s3, c2 * s3, c1*s2*s3 - c3*s1}
	v := mgl32.Vec3{c3*s1*s2 - c1*s3, c2 * c3, c1*c3*s2 + s1*s3}
	w := mgl32.Vec3{c2 * s1, -s2, c1 * c2}
	c.setBasis(position, u, v, w)
}
