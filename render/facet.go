package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/genomevis/gv/facet"
)

// facetUniformFloats is the FacetUniform size in the mark shaders: the
// transition vec4, the offset, and three pad floats for 16-byte uniform
// alignment.
const facetUniformFloats = 8

// FacetUniformData packs a sample's facet state and transition offset
// into the layout the mark shaders' FacetUniform expects.
func FacetUniformData(f facet.Facet, offset float32) []float32 {
	return []float32{
		f.LeftPos, f.LeftHeight, f.RightPos, f.RightHeight,
		offset, 0, 0, 0,
	}
}

// CreateFacetBuffer creates the uniform buffer for a sample's facet state.
// WriteFacetBuffer updates it per frame while the sample is in transit.
func CreateFacetBuffer(device hal.Device, queue hal.Queue, label string, f facet.Facet, offset float32) (hal.Buffer, error) {
	data := floatBytes(FacetUniformData(f, offset))
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// WriteFacetBuffer re-uploads the facet state into an existing uniform
// buffer.
func WriteFacetBuffer(queue hal.Queue, buf hal.Buffer, f facet.Facet, offset float32) {
	queue.WriteBuffer(buf, 0, floatBytes(FacetUniformData(f, offset)))
}
