package grm

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/grm/grm/internal/utils"
	"golang.org/x/exp/slog"
	"sync/atomic"
)

// ParentOps is supplied by the client object that wraps a Resource
type ParentOps struct {
	// Destroyed is called with the resource's parent once the resource has been torn down
	Destroyed func(parent any)
}

// ResourceDesc is the public description of a Resource
type ResourceDesc struct {
	Type               ResourceType
	Format             FormatID
	MultisampleType    MultisampleType
	MultisampleQuality int
	Usage              UsageFlags
	Pool               Pool
	Width              int
	Height             int
	Depth              int
	Size               int
}

// Resource is a single allocatable graphics object whose data may be valid in several
// locations at once. Resources are created with Device.CreateResource and destroyed once
// their reference count drops to zero.
type Resource struct {
	id     uuid.UUID
	ref    int32
	device *Device
	logger *slog.Logger
	mutex  utils.OptionalMutex

	resourceType       ResourceType
	format             Format
	multisampleType    MultisampleType
	multisampleQuality int
	usage              UsageFlags
	pool               Pool
	accessFlags        AccessFlags
	width              int
	height             int
	depth              int
	size               int
	priority           uint32

	locations  Location
	mapBinding Location
	mapCount   int

	heapMemory       []byte
	systemMemory     []byte
	userMemory       []byte
	bitmapData       []byte
	bufferObject     BufferObject
	customRowPitch   int
	customSlicePitch int

	parent    any
	parentOps ParentOps
	ops       ResourceOps
	destroyed bool
}

func (r *Resource) ID() uuid.UUID            { return r.id }
func (r *Resource) Device() *Device          { return r.device }
func (r *Resource) Type() ResourceType       { return r.resourceType }
func (r *Resource) Format() Format           { return r.format }
func (r *Resource) Usage() UsageFlags        { return r.usage }
func (r *Resource) Pool() Pool               { return r.pool }
func (r *Resource) AccessFlags() AccessFlags { return r.accessFlags }
func (r *Resource) Size() int                { return r.size }
func (r *Resource) Ops() ResourceOps         { return r.ops }
func (r *Resource) Parent() any              { return r.parent }
func (r *Resource) SetParent(parent any)     { r.parent = parent }
func (r *Resource) Dimensions() (int, int, int) {
	return r.width, r.height, r.depth
}

// Desc returns the public descriptor of the resource
func (r *Resource) Desc() ResourceDesc {
	return ResourceDesc{
		Type:               r.resourceType,
		Format:             r.format.ID,
		MultisampleType:    r.multisampleType,
		MultisampleQuality: r.multisampleQuality,
		Usage:              r.usage,
		Pool:               r.pool,
		Width:              r.width,
		Height:             r.height,
		Depth:              r.depth,
		Size:               r.size,
	}
}

func (r *Resource) Locations() Location {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.locations
}

func (r *Resource) MapBinding() Location {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.mapBinding
}

func (r *Resource) MapCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.mapCount
}

// SetPriority sets the advisory eviction priority and returns the previous one
func (r *Resource) SetPriority(priority uint32) uint32 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::SetPriority", slog.Int("Priority", int(priority)))

	prev := r.priority
	r.priority = priority
	return prev
}

func (r *Resource) Priority() uint32 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.priority
}

// IncRef adds a reference to the resource and returns the new count
func (r *Resource) IncRef() int {
	refCount := atomic.AddInt32(&r.ref, 1)
	r.logger.Debug("Resource::IncRef", slog.Int("RefCount", int(refCount)))
	return int(refCount)
}

// DecRef releases a reference. The release that drops the count to zero submits the
// resource's destruction to the device command stream.
func (r *Resource) DecRef() int {
	refCount := atomic.AddInt32(&r.ref, -1)
	r.logger.Debug("Resource::DecRef", slog.Int("RefCount", int(refCount)))

	if refCount < 0 {
		panic(fmt.Sprintf("resource %s was released more times than it was referenced", r.id))
	}

	if refCount == 0 {
		r.device.stream.EmitResourceDestroy(r)
	}

	return int(refCount)
}

// RefCount returns the current reference count
func (r *Resource) RefCount() int {
	return int(atomic.LoadInt32(&r.ref))
}

// SetUserMemory binds caller-owned memory as the map binding of the resource. A non-zero
// rowPitch overrides the pitch the resource would otherwise report.
func (r *Resource) SetUserMemory(memory []byte, rowPitch, slicePitch int) (Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::SetUserMemory",
		slog.Int("Length", len(memory)), slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	res, err := r.checkExternalMemory(memory)
	if err != nil {
		return res, err
	}

	r.userMemory = memory
	r.customRowPitch = rowPitch
	r.customSlicePitch = slicePitch
	r.rebindExternal(LocationUserMemory, memory == nil)

	return ResultOK, nil
}

// SetBitmapData binds a device-independent bitmap as the map binding of the resource
func (r *Resource) SetBitmapData(bitmap []byte) (Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::SetBitmapData", slog.Int("Length", len(bitmap)))

	res, err := r.checkExternalMemory(bitmap)
	if err != nil {
		return res, err
	}

	r.bitmapData = bitmap
	r.rebindExternal(LocationDIB, bitmap == nil)

	return ResultOK, nil
}

// SetMapBinding selects the simple location that Map hands out
func (r *Resource) SetMapBinding(location Location) (Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.logger.Debug("Resource::SetMapBinding", slog.String("Location", location.String()))

	if r.mapCount > 0 {
		return ResultInvalidCall, wrapResultf(ResultInvalidCall, "resource %s cannot change map binding while mapped", r.id)
	}
	if !location.IsSimple() || location&(location-1) != 0 {
		return ResultInvalidCall, wrapResultf(ResultInvalidCall, "map binding %s is not a single simple location", location)
	}

	r.mapBinding = location
	return ResultOK, nil
}

func (r *Resource) checkExternalMemory(memory []byte) (Result, error) {
	if r.mapCount > 0 {
		return ResultInvalidCall, wrapResultf(ResultInvalidCall, "resource %s cannot change memory while mapped", r.id)
	}
	if memory != nil && len(memory) < r.size {
		return ResultInvalidCall, wrapResultf(ResultInvalidCall,
			"external memory of %d bytes is smaller than resource size %d", len(memory), r.size)
	}

	return ResultOK, nil
}

// rebindExternal makes location the map binding and its memory the sole valid copy. Clearing
// the external memory moves the binding back to system memory.
func (r *Resource) rebindExternal(location Location, cleared bool) {
	if cleared {
		if r.mapBinding == location {
			r.mapBinding = LocationSystemMemory
			r.customRowPitch = 0
			r.customSlicePitch = 0
		}
		r.invalidateLocation(location)
		if r.locations == 0 {
			r.validateLocation(LocationDiscarded)
		}
		return
	}

	r.mapBinding = location
	r.validateLocation(location)
	r.invalidateLocation(^location & LocationsAll)
}

func (r *Resource) printParameters(json *jwriter.ObjectState) {
	json.Name("ID").String(r.id.String())
	json.Name("Type").String(r.resourceType.String())
	json.Name("Format").String(r.format.ID.String())
	json.Name("Usage").String(r.usage.String())
	json.Name("Pool").String(r.pool.String())
	json.Name("Size").Int(r.size)
	json.Name("Width").Int(r.width)
	json.Name("Height").Int(r.height)
	json.Name("Depth").Int(r.depth)
	json.Name("Locations").String(r.locations.String())
	json.Name("MapBinding").String(r.mapBinding.String())
	json.Name("MapCount").Int(r.mapCount)
	json.Name("Priority").Int(int(r.priority))
	json.Name("RefCount").Int(int(atomic.LoadInt32(&r.ref)))
}
