package scene

import "ritis/src/render"

// FrameInfo is what a render system needs to record one frame.
type FrameInfo struct {
	FrameIndex          int
	FrameTime           float32
	CommandBuffer       *render.RecordingTarget
	Camera              *Camera
	GlobalDescriptorSet render.Handle
	GameObjects         Map
}
