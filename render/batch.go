package render

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/genomevis/gv/mark"
)

// MarkBatch is one mark's uploaded GPU state: a planar vertex buffer per
// variable attribute, the matching layouts, and the range map for
// per-sample draws.
type MarkBatch struct {
	// Buffers maps attribute names to their vertex buffers. Constant
	// attributes are not uploaded; Constants carries their values for
	// uniform or pipeline-constant binding by the host.
	Buffers map[string]hal.Buffer

	// Layouts holds one vertex buffer layout per uploaded attribute, in
	// the same sorted-name order the shaders assign locations in.
	Layouts []gputypes.VertexBufferLayout

	// Constants maps constant attribute names to their single values.
	Constants map[string][]float32

	// VertexCount is the total vertex (or instance) count.
	VertexCount int

	// Ranges maps batch keys to contiguous vertex ranges.
	Ranges map[string]mark.Range

	// Instanced marks per-instance buffers: the layouts step per
	// instance and Ranges count instances.
	Instanced bool

	device hal.Device
}

// vertexFormat maps an attribute's component count to its format.
func vertexFormat(components int) (gputypes.VertexFormat, error) {
	switch components {
	case 1:
		return gputypes.VertexFormatFloat32, nil
	case 2:
		return gputypes.VertexFormatFloat32x2, nil
	case 3:
		return gputypes.VertexFormatFloat32x3, nil
	case 4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("render: unsupported component count %d", components)
	}
}

// variableNames returns the names of the non-constant attributes in
// sorted order. Shader locations follow this order.
func variableNames(arrays *mark.Arrays) []string {
	names := make([]string, 0, len(arrays.Arrays))
	for name, a := range arrays.Arrays {
		if !a.Constant {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// batchLayouts derives the planar vertex buffer layouts for arrays, one
// per variable attribute, locations assigned in sorted-name order.
func batchLayouts(arrays *mark.Arrays) ([]gputypes.VertexBufferLayout, error) {
	stepMode := gputypes.VertexStepModeVertex
	if arrays.Instanced {
		stepMode = gputypes.VertexStepModeInstance
	}

	names := variableNames(arrays)
	layouts := make([]gputypes.VertexBufferLayout, 0, len(names))
	for i, name := range names {
		a := arrays.Arrays[name]
		format, err := vertexFormat(a.Components)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: uint64(a.Components) * 4,
			StepMode:    stepMode,
			Attributes: []gputypes.VertexAttribute{
				{Format: format, Offset: 0, ShaderLocation: uint32(i)},
			},
		})
	}
	return layouts, nil
}

// UploadMarkBatch uploads a mark's built arrays to the device. Constant
// attributes stay on the CPU side for uniform binding; everything else
// becomes a labeled vertex buffer.
func UploadMarkBatch(device hal.Device, queue hal.Queue, label string, arrays *mark.Arrays) (*MarkBatch, error) {
	layouts, err := batchLayouts(arrays)
	if err != nil {
		return nil, err
	}

	batch := &MarkBatch{
		Buffers:     make(map[string]hal.Buffer),
		Layouts:     layouts,
		Constants:   make(map[string][]float32),
		VertexCount: arrays.VertexCount,
		Ranges:      arrays.RangeMap,
		Instanced:   arrays.Instanced,
		device:      device,
	}

	for name, a := range arrays.Arrays {
		if a.Constant {
			batch.Constants[name] = a.Data
			continue
		}
		buf, err := createVertexBuffer(device, queue, label+"/"+name, a.Data)
		if err != nil {
			batch.Destroy()
			return nil, err
		}
		batch.Buffers[name] = buf
	}
	return batch, nil
}

// ConstantsData packs the constant channels into the MarkConstants
// uniform layout the generated shaders declare: one padded vec4 slot per
// constant channel, in sorted-name order. Empty when every channel is
// variable.
func ConstantsData(arrays *mark.Arrays) []float32 {
	names := make([]string, 0, len(arrays.Arrays))
	for name, a := range arrays.Arrays {
		if a.Constant {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	data := make([]float32, 0, len(names)*4)
	for _, name := range names {
		var slot [4]float32
		copy(slot[:], arrays.Arrays[name].Data)
		data = append(data, slot[:]...)
	}
	return data
}

// CreateConstantsBuffer creates and fills the MarkConstants uniform
// buffer. Returns nil without error when the batch has no constant
// channels.
func CreateConstantsBuffer(device hal.Device, queue hal.Queue, label string, arrays *mark.Arrays) (hal.Buffer, error) {
	data := ConstantsData(arrays)
	if len(data) == 0 {
		return nil, nil
	}
	bytes := floatBytes(data)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(bytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, bytes)
	return buf, nil
}

// Range returns the vertex range for a batch key.
func (b *MarkBatch) Range(key string) (mark.Range, bool) {
	r, found := b.Ranges[key]
	return r, found
}

// Destroy releases the batch's GPU buffers. Safe to call more than once.
func (b *MarkBatch) Destroy() {
	for name, buf := range b.Buffers {
		b.device.DestroyBuffer(buf)
		delete(b.Buffers, name)
	}
}
