// Package gpumem tracks the device-local and host-coherent buffer ranges
// the GPU compute pipeline needs, the way world_vk.c's CreateSimPipeline
// carves its uniform/storage/transfer buffers out of two VkDeviceMemory
// allocations. WebGPU has no separate device-memory-allocation step the
// way Vulkan does — wgpu.Device.CreateBuffer already carves a
// device-local or host-mapped buffer directly — so Region here is a bump
// allocator over a logical byte budget, used for capacity accounting and
// carved into independent *wgpu.Buffer objects at CarveBuffer time.
package gpumem

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Kind distinguishes the two memory regions the original Vulkan backend
// allocated separately.
type Kind int

const (
	// DeviceLocal is fast GPU-only memory: uniform and storage buffers.
	DeviceLocal Kind = iota
	// HostCoherent is host-visible staging memory: transfer buffers used
	// to move data across the CPU/GPU boundary.
	HostCoherent
)

// Region is a bump allocator over a logical byte budget of one Kind.
// It does not itself own GPU memory; CarveBuffer realizes a sub-range as
// an actual wgpu.Buffer.
type Region struct {
	device *wgpu.Device
	kind   Kind
	offset uint64 // next free logical byte
	cap    uint64
}

// NewRegion creates a Region that can carve up to capacity bytes.
func NewRegion(device *wgpu.Device, kind Kind, capacity uint64) *Region {
	return &Region{device: device, kind: kind, cap: capacity}
}

// Used reports how many logical bytes have been carved so far.
func (r *Region) Used() uint64 { return r.offset }

// Buffer wraps a *wgpu.Buffer with the logical offset it was carved from,
// for diagnostics and for the Barrier no-op below.
type Buffer struct {
	*wgpu.Buffer
	Offset uint64
	Size   uint64
}

// CarveBuffer allocates a size-byte wgpu.Buffer with the given usage out
// of r, advancing the bump pointer. Failure to allocate device memory is
// a resource-exhaustion condition per the error policy: it returns an
// error rather than retrying or degrading.
func (r *Region) CarveBuffer(label string, size uint64, usage wgpu.BufferUsage) (*Buffer, error) {
	if r.offset+size > r.cap {
		return nil, fmt.Errorf("gpumem: region %s out of capacity: need %d, have %d free",
			label, size, r.cap-r.offset)
	}

	desc := &wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	}
	buf, err := r.device.CreateBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("gpumem: create buffer %s: %w", label, err)
	}

	b := &Buffer{Buffer: buf, Offset: r.offset, Size: size}
	r.offset += size
	return b, nil
}

// maxMapPollIterations bounds CopyFrom's MapAsync readback poll loop.
// WebGPU has no blocking map call; this is the fatal-abort backstop for a
// device that never completes the map, a device API failure that is not
// retried.
const maxMapPollIterations = 100000

// CopyInto uploads data to the buffer at byte offset 0 via the queue,
// the host->device path (e.g. transfer_buf -> storage in the original).
func (b *Buffer) CopyInto(queue *wgpu.Queue, data []byte) {
	queue.WriteBuffer(b.Buffer, 0, data)
}

// CopyFrom reads b back to the host: maps it for reading, polls device
// until the map completes, copies the mapped bytes out, and unmaps. It
// is CopyInto's inverse and requires a host-coherent (mapped) buffer.
func (b *Buffer) CopyFrom(device *wgpu.Device) ([]byte, error) {
	mapped := false
	var mapErr error
	b.MapAsync(wgpu.MapModeRead, 0, b.Size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("gpumem: buffer map failed with status %d", status)
		}
		mapped = true
	})

	for i := 0; i < maxMapPollIterations && !mapped; i++ {
		device.Poll(true, nil)
	}
	if !mapped {
		return nil, fmt.Errorf("gpumem: buffer map did not complete after %d polls", maxMapPollIterations)
	}
	if mapErr != nil {
		return nil, mapErr
	}

	view := b.GetMappedRange(0, uint(b.Size))
	out := make([]byte, len(view))
	copy(out, view)
	b.Unmap()
	return out, nil
}

// EnqueueCopy records a device-to-device buffer copy (dst <- b) on
// encoder, the ping-pong "copy storage[1] into storage[0]" step of
// world_vk.c's PerformSimUpdate.
func (b *Buffer) EnqueueCopy(encoder *wgpu.CommandEncoder, dst *Buffer) {
	encoder.CopyBufferToBuffer(b.Buffer, 0, dst.Buffer, 0, b.Size)
}

// Barrier is a documented no-op. WebGPU serializes passes within a queue
// submission automatically, so there is no explicit memory-barrier call
// the way world_vk.c issues vkCmdPipelineBarrier between its copy and
// dispatch steps. It exists to preserve the spec's write_read_barrier
// call shape, and as the extension point for a backend that needs one.
func (b *Buffer) Barrier() {}
