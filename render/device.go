// Package render uploads built vertex arrays to the GPU and prepares the
// shader and layout state for per-sample range draws.
//
// The package never creates a GPU device: the host application provides
// one through DeviceHandle and the hal device/queue pair. Vertex arrays
// come from the mark package; each attribute becomes its own planar
// vertex buffer with a layout derived from the attribute's component
// count.
package render

import "github.com/gogpu/gpucontext"

// DeviceHandle provides GPU device access from the host application.
//
// The host implements gpucontext.DeviceProvider and passes it in; the
// library receives the device, it does not create one. The alias keeps
// full compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider
