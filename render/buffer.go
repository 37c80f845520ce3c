package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minBufferSize keeps zero-length uploads valid: HAL rejects empty
// buffers.
const minBufferSize = 4

// floatBytes packs data as little-endian bytes, the SPIR-V and buffer
// byte order.
func floatBytes(data []float32) []byte {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// createVertexBuffer creates a vertex buffer and uploads data through the
// queue. The size is always a multiple of four bytes and never zero.
func createVertexBuffer(device hal.Device, queue hal.Queue, label string, data []float32) (hal.Buffer, error) {
	bytes := floatBytes(data)
	size := uint64(len(bytes))
	if size < minBufferSize {
		size = minBufferSize
	}

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if len(bytes) > 0 {
		queue.WriteBuffer(buf, 0, bytes)
	}
	return buf, nil
}
