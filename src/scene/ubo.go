package scene

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const MaxLights = 10

// PointLight is the std140 layout of one light. The w of Position is unused
// and the w of Color carries the intensity.
type PointLight struct {
	Position mgl32.Vec4
	Color    mgl32.Vec4
}

// GlobalUbo is the per-frame uniform block shared by all pipelines.
type GlobalUbo struct {
	Projection        mgl32.Mat4
	View              mgl32.Mat4
	InverseView       mgl32.Mat4
	AmbientLightColor mgl32.Vec4
	PointLights       [MaxLights]PointLight
	NumLights         int32
}

const (
	mat4Size       = 64
	vec4Size       = 16
	pointLightSize = 2 * vec4Size

	// GlobalUboSize is the std140 size of GlobalUbo, with the trailing int
	// padded to a 16 byte boundary.
	GlobalUboSize = 3*mat4Size + vec4Size + MaxLights*pointLightSize + 16
)

// NewGlobalUbo returns a block with a dim white ambient light.
func NewGlobalUbo() GlobalUbo {
	return GlobalUbo{
		Projection:        mgl32.Ident4(),
		View:              mgl32.Ident4(),
		InverseView:       mgl32.Ident4(),
		AmbientLightColor: mgl32.Vec4{1, 1, 1, 0.02},
	}
}

type packer struct {
	buf []byte
	off int
}

func (p *packer) floats(v ...float32) {
	for _, f := range v {
		binary.LittleEndian.PutUint32(p.buf[p.off:], math.Float32bits(f))
		p.off += 4
	}
}

// Bytes packs u in the std140 layout the shaders expect.
func (u *GlobalUbo) Bytes() []byte {
	p := packer{buf: make([]byte, GlobalUboSize)}
	p.floats(u.Projection[:]...)
	p.floats(u.View[:]...)
	p.floats(u.InverseView[:]...)
	p.floats(u.AmbientLightColor[:]...)
	for i := range u.PointLights {
		p.floats(u.PointLights[i].Position[:]...)
		p.floats(u.PointLights[i].Color[:]...)
	}
	binary.LittleEndian.PutUint32(p.buf[p.off:], uint32(u.NumLights))
	return p.buf
}

// PushConstants is the per-object block pushed before each draw.
type PushConstants struct {
	Model  mgl32.Mat4
	Normal mgl32.Mat4
}

const PushConstantsSize = 2 * mat4Size

func NewPushConstants(t Transform) PushConstants {
	return PushConstants{
		Model:  TransformMat4(t),
		Normal: NormalMatrix(t).Mat4(),
	}
}

func (c *PushConstants) Bytes() []byte {
	p := packer{buf: make([]byte, PushConstantsSize)}
	p.floats(c.Model[:]...)
	p.floats(c.Normal[:]...)
	return p.buf
}
