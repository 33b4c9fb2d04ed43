package grm

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/grm/memutils"
	"golang.org/x/exp/slog"
)

// Box is a region of a resource. Right, Bottom and Back are exclusive
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
	Front  int
	Back   int
}

// MapDesc is the result of a successful map. Data begins at the origin of the requested
// region and runs to the end of the mapped memory
type MapDesc struct {
	Data       []byte
	RowPitch   int
	SlicePitch int
}

// SanitizeMapFlags drops contradictory or meaningless flag combinations, returning the flags
// that Map will actually honor
func (r *Resource) SanitizeMapFlags(flags MapFlags) MapFlags {
	if flags&MapReadOnly != 0 {
		if flags&MapDiscard != 0 {
			r.logger.Warn("Resource::SanitizeMapFlags MapReadOnly combined with MapDiscard, ignoring flags")
			return 0
		}
		if flags&MapNoOverwrite != 0 {
			r.logger.Warn("Resource::SanitizeMapFlags MapReadOnly combined with MapNoOverwrite, ignoring flags")
			return 0
		}
	} else if flags&(MapDiscard|MapNoOverwrite) == MapDiscard|MapNoOverwrite {
		r.logger.Warn("Resource::SanitizeMapFlags MapDiscard and MapNoOverwrite used together, ignoring")
		return 0
	} else if flags&(MapDiscard|MapNoOverwrite) != 0 && r.usage&UsageDynamic == 0 {
		r.logger.Warn("Resource::SanitizeMapFlags MapDiscard or MapNoOverwrite map on non-dynamic resource, ignoring")
		return 0
	}

	return flags
}

// Pitch returns the row and slice pitch of the resource's linear layout
func (r *Resource) Pitch() (rowPitch, slicePitch int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.pitch()
}

func (r *Resource) pitch() (rowPitch, slicePitch int) {
	if r.customRowPitch != 0 {
		return r.customRowPitch, r.customSlicePitch
	}

	if r.format.HasBlocks() {
		rowBlockCount := memutils.DivideRoundingUp(r.width, r.format.BlockWidth)
		sliceBlockCount := memutils.DivideRoundingUp(r.height, r.format.BlockHeight)
		rowPitch = rowBlockCount * r.format.BlockByteCount
		return rowPitch, rowPitch * sliceBlockCount
	}

	memutils.DebugCheckPow2(r.device.surfaceAlignment, "surface alignment")
	rowPitch = memutils.AlignUp(r.format.ByteCount*r.width, uint(r.device.surfaceAlignment))
	return rowPitch, rowPitch * r.height
}

// mapPitch is the pitch reported by Map, which differs from pitch for formats with broken
// pitch reporting
func (r *Resource) mapPitch() (rowPitch, slicePitch int) {
	if r.format.Flags&FormatBrokenPitch != 0 {
		rowPitch = r.width * r.format.ByteCount
		return rowPitch, rowPitch * r.height
	}

	return r.pitch()
}

// CheckBlockAlign returns true if box can be mapped on this resource's format
func (r *Resource) CheckBlockAlign(box *Box) bool {
	if box == nil {
		return true
	}

	return r.format.CheckBlockAlign(r.width, r.height, *box)
}

func (r *Resource) checkBox(box *Box) error {
	if box == nil {
		return nil
	}

	depth := r.depth
	if depth == 0 {
		depth = 1
	}

	if box.Left < 0 || box.Top < 0 || box.Front < 0 ||
		box.Left > box.Right || box.Top > box.Bottom || box.Front > box.Back ||
		box.Right > r.width || box.Bottom > r.height || box.Back > depth {
		return wrapResultf(ResultInvalidCall, "box %+v is outside of resource bounds %dx%dx%d",
			*box, r.width, r.height, depth)
	}

	if !r.format.CheckBlockAlign(r.width, r.height, *box) {
		return wrapResultf(ResultInvalidCall, "box %+v is not aligned to the %dx%d blocks of format %s",
			*box, r.format.BlockWidth, r.format.BlockHeight, r.format.ID)
	}

	return nil
}

func (r *Resource) boxOffset(box *Box, rowPitch, slicePitch int) int {
	if box == nil {
		return 0
	}

	if r.format.Flags&(FormatBlocks|FormatBrokenPitch) == FormatBlocks {
		return box.Front*slicePitch +
			(box.Top/r.format.BlockHeight)*rowPitch +
			(box.Left/r.format.BlockWidth)*r.format.BlockByteCount
	}

	return box.Front*slicePitch + box.Top*rowPitch + box.Left*r.format.ByteCount
}

// Map gives the caller access to the data of the resource, or of the region described by box
// when it is non-nil. Only one map may be outstanding at a time.
func (r *Resource) Map(box *Box, flags MapFlags) (MapDesc, Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::Map", slog.String("Flags", flags.String()), slog.Any("Box", box))

	if r.mapCount != 0 {
		r.logger.Warn("Resource::Map resource is already mapped")
		return MapDesc{}, ResultInvalidCall, wrapResultf(ResultInvalidCall, "resource %s is already mapped", r.id)
	}

	err := r.checkBox(box)
	if err != nil {
		return MapDesc{}, ResultInvalidCall, err
	}

	flags = r.SanitizeMapFlags(flags)

	baseMemory, err := r.device.stream.EmitResourceMap(r, flags)
	if err != nil {
		r.logger.Warn("Resource::Map map failed", slog.Any("error", err))
		res := resultFromError(err)
		if !errors.Is(err, res.ToError()) {
			err = errors.Mark(err, res.ToError())
		}
		return MapDesc{}, res, err
	}

	rowPitch, slicePitch := r.mapPitch()
	offset := r.boxOffset(box, rowPitch, slicePitch)
	if offset > len(baseMemory) {
		unmapErr := r.unmapInternal()
		if unmapErr != nil {
			r.logger.Error("Resource::Map failed to release mapping", slog.Any("error", unmapErr))
		}
		return MapDesc{}, ResultInvalidCall, wrapResultf(ResultInvalidCall,
			"box offset %d lies past the %d bytes of mapped memory", offset, len(baseMemory))
	}

	if flags&(MapNoDirtyUpdate|MapReadOnly) == 0 {
		r.invalidateLocation(^r.mapBinding & LocationsAll)
	}

	r.mapCount++

	r.logger.Debug("Resource::Map returning memory",
		slog.Int("Offset", offset), slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	return MapDesc{
		Data:       baseMemory[offset:],
		RowPitch:   rowPitch,
		SlicePitch: slicePitch,
	}, ResultOK, nil
}

// Unmap ends the outstanding map of the resource
func (r *Resource) Unmap() (Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::Unmap")

	if r.mapCount == 0 {
		r.logger.Warn("Resource::Unmap trying to unmap an unmapped resource")
		return ResultNotLocked, wrapResultf(ResultNotLocked, "resource %s is not mapped", r.id)
	}

	err := r.device.stream.EmitResourceUnmap(r)
	r.mapCount--

	if err != nil {
		return ResultInvalidCall, errors.Mark(err, ErrInvalidCall)
	}

	return ResultOK, nil
}

// mapInternal runs on the command stream on behalf of Map
func (r *Resource) mapInternal(flags MapFlags) ([]byte, error) {
	context := r.device.acquireContext(r)
	if context != nil {
		defer context.Release()
	}

	err := r.prepareLocation(context, r.mapBinding)
	if err != nil {
		r.logger.Warn("Resource::mapInternal out of memory", slog.Any("error", err))
		return nil, err
	}

	if flags&MapDiscard != 0 {
		r.validateLocation(r.mapBinding)
	} else {
		err = r.loadLocation(context, r.mapBinding)
		if err != nil {
			return nil, err
		}
	}

	return r.mapBytes(context, flags)
}

func (r *Resource) mapBytes(context GraphicsContext, flags MapFlags) ([]byte, error) {
	if r.mapBinding != LocationBuffer {
		data := r.cpuLocationBytes(r.mapBinding)
		if data == nil {
			r.logger.Error("Resource::mapBytes unexpected map binding", slog.String("MapBinding", r.mapBinding.String()))
			return nil, errors.AssertionFailedf("map binding %s of resource %s has no memory", r.mapBinding, r.id)
		}
		return data, nil
	}

	if context == nil {
		r.logger.Error("Resource::mapBytes a context is required to map the buffer object")
		return nil, errors.AssertionFailedf("mapping the buffer object of resource %s requires a context", r.id)
	}

	backend := context.Backend()
	if backend.Caps().MapBufferRange {
		data, err := backend.MapBuffer(r.bufferObject, 0, r.size, bufferAccessFromMapFlags(flags))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map buffer object of resource %s", r.id)
		}
		return data, nil
	}

	data, err := backend.MapBuffer(r.bufferObject, 0, -1, legacyBufferAccess(flags))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map buffer object of resource %s", r.id)
	}
	return data, nil
}

func legacyBufferAccess(flags MapFlags) BufferAccess {
	if flags&MapReadOnly != 0 {
		return BufferAccessRead
	}
	if flags&(MapDiscard|MapNoOverwrite) != 0 {
		return BufferAccessWrite
	}
	return BufferAccessRead | BufferAccessWrite
}

// unmapInternal runs on the command stream on behalf of Unmap
func (r *Resource) unmapInternal() error {
	if r.mapBinding != LocationBuffer {
		return nil
	}

	context := r.device.acquireContext(r)
	if context == nil {
		r.logger.Error("Resource::unmapInternal a context is required to unmap the buffer object")
		return errors.AssertionFailedf("unmapping the buffer object of resource %s requires a context", r.id)
	}
	defer context.Release()

	err := context.Backend().UnmapBuffer(r.bufferObject)
	if err != nil {
		return errors.Wrapf(err, "failed to unmap buffer object of resource %s", r.id)
	}

	return nil
}
