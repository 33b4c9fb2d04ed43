package grm

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/grm/grm/internal/utils"
	"github.com/vkngwrapper/grm/memutils"
	"golang.org/x/exp/slog"
)

// ResourceCreateInfo describes a resource to create with Device.CreateResource
type ResourceCreateInfo struct {
	Type               ResourceType
	Format             FormatID
	MultisampleType    MultisampleType
	MultisampleQuality int
	Usage              UsageFlags
	Pool               Pool
	Width              int
	Height             int
	Depth              int
	// Size is the size of the resource's linear backing store in bytes. Zero-sized resources
	// are metadata-only placeholders and receive no system memory
	Size     int
	Priority uint32

	// MapBinding is the location Map hands out. It defaults to LocationSystemMemory
	MapBinding Location
	// Ops overrides the subtype behavior chosen from Type
	Ops ResourceOps

	Parent    any
	ParentOps ParentOps
}

func (d *Device) checkResourceCapabilities(format *Format, usage UsageFlags, pool Pool) error {
	if pool == PoolScratch {
		return nil
	}

	if usage&UsageRenderTarget != 0 && !format.SupportsRenderTarget() {
		d.logger.Warn("Device::CreateResource format cannot be used as a render target", slog.String("Format", format.ID.String()))
		return wrapResultf(ResultInvalidCall, "format %s cannot be used as a render target", format.ID)
	}
	if usage&UsageDepthStencil != 0 && !format.SupportsDepthStencil() {
		d.logger.Warn("Device::CreateResource format cannot be used as a depth/stencil buffer", slog.String("Format", format.ID.String()))
		return wrapResultf(ResultInvalidCall, "format %s cannot be used as a depth/stencil buffer", format.ID)
	}
	if usage&UsageTextureSampling != 0 && !format.SupportsTexture() {
		d.logger.Warn("Device::CreateResource format cannot be sampled", slog.String("Format", format.ID.String()))
		return wrapResultf(ResultInvalidCall, "format %s cannot be used as a texture", format.ID)
	}

	return nil
}

// CreateResource creates and registers a new resource with a reference count of one. No
// backend calls are made until the resource is first used.
func (d *Device) CreateResource(createInfo ResourceCreateInfo) (*Resource, Result, error) {
	d.logger.Debug("Device::CreateResource",
		slog.String("Type", createInfo.Type.String()),
		slog.String("Format", createInfo.Format.String()),
		slog.String("Usage", createInfo.Usage.String()),
		slog.String("Pool", createInfo.Pool.String()),
		slog.Int("Size", createInfo.Size))

	if createInfo.Usage&^usageHandled != 0 {
		d.logger.Warn("Device::CreateResource unhandled usage flags", slog.Int("Usage", int(createInfo.Usage&^usageHandled)))
	}

	format, ok := LookupFormat(createInfo.Format)
	if !ok {
		return nil, ResultInvalidCall, wrapResultf(ResultInvalidCall, "unknown format %s", createInfo.Format)
	}

	if createInfo.Size < 0 || createInfo.Width < 0 || createInfo.Height < 0 || createInfo.Depth < 0 {
		return nil, ResultInvalidCall, wrapResultf(ResultInvalidCall, "resource dimensions cannot be negative")
	}

	err := d.checkResourceCapabilities(&format, createInfo.Usage, createInfo.Pool)
	if err != nil {
		return nil, ResultInvalidCall, err
	}

	mapBinding := createInfo.MapBinding
	if mapBinding == 0 {
		mapBinding = LocationSystemMemory
	}
	if !mapBinding.IsSimple() || mapBinding&(mapBinding-1) != 0 {
		return nil, ResultInvalidCall, wrapResultf(ResultInvalidCall, "map binding %s is not a single simple location", mapBinding)
	}

	ops := createInfo.Ops
	if ops == nil {
		ops = DefaultResourceOps(createInfo.Type)
	}

	resource := &Resource{
		id:     uuid.New(),
		ref:    1,
		device: d,
		mutex:  utils.OptionalMutex{UseMutex: d.useMutex},

		resourceType:       createInfo.Type,
		format:             format,
		multisampleType:    createInfo.MultisampleType,
		multisampleQuality: createInfo.MultisampleQuality,
		usage:              createInfo.Usage,
		pool:               createInfo.Pool,
		width:              createInfo.Width,
		height:             createInfo.Height,
		depth:              createInfo.Depth,
		size:               createInfo.Size,
		priority:           createInfo.Priority,

		locations:  LocationDiscarded,
		mapBinding: mapBinding,

		parent:    createInfo.Parent,
		parentOps: createInfo.ParentOps,
		ops:       ops,
	}
	resource.logger = d.logger.With(slog.String("Resource", resource.id.String()))

	if resource.resourceType == ResourceTypeBuffer {
		resource.format, _ = LookupFormat(FormatUnknown)
		resource.width = resource.size
		resource.height = 1
		resource.depth = 1
	}

	resource.accessFlags = resource.pool.AccessFlags()
	if resource.usage&UsageDynamic != 0 {
		resource.accessFlags |= AccessCPU
	}

	if resource.size > 0 {
		err = resource.allocateSystemMemory()
		if err != nil {
			d.logger.Error("Device::CreateResource failed to allocate system memory", slog.Any("error", err))
			return nil, ResultOutOfMemory, err
		}
	}

	if resource.pool == PoolDefault && d.budget != nil && !d.budget.ReserveMemory(resource.size) {
		available := d.budget.AvailableMemory()
		d.logger.Error("Device::CreateResource out of adapter memory",
			slog.Int("Size", resource.size), slog.Int("Available", available))
		resource.freeSystemMemory()
		return nil, ResultOutOfVideoMemory, wrapResultf(ResultOutOfVideoMemory,
			"resource of %d bytes exceeds the %d bytes of available video memory", resource.size, available)
	}

	d.resources.Register(resource)
	memutils.DebugValidate(d)

	return resource, ResultOK, nil
}

// allocateSystemMemory allocates the aligned system memory backing store of the resource
func (r *Resource) allocateSystemMemory() error {
	err := r.device.hostMemory.Add(r.size)
	if err != nil {
		return errors.Mark(err, ErrOutOfMemory)
	}

	heapMemory, err := memutils.AllocateAligned(r.size+memutils.DebugMargin, uint(r.device.resourceAlignment))
	if err != nil {
		r.device.hostMemory.Remove(r.size)
		return errors.Mark(err, ErrOutOfMemory)
	}

	memutils.WriteMagicValue(heapMemory, r.size)

	r.heapMemory = heapMemory
	r.systemMemory = heapMemory[:r.size:r.size]
	return nil
}

func (r *Resource) freeSystemMemory() {
	if r.heapMemory == nil {
		return
	}

	if !memutils.ValidateMagicValue(r.heapMemory, r.size) {
		panic("memory corruption detected past the end of resource system memory")
	}

	r.device.hostMemory.Remove(r.size)
	r.heapMemory = nil
	r.systemMemory = nil
	r.locations &^= LocationSystemMemory
}

// Unload drops the GPU-side state of the resource, keeping its metadata, its system memory and
// its registration with the device. Data held only on the GPU is first copied to system memory.
func (r *Resource) Unload() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	context := r.device.acquireContext(r)
	if context != nil {
		defer context.Release()
	}

	r.unload(context)
}

func (r *Resource) unload(context GraphicsContext) {
	r.logger.Debug("Resource::unload")

	if r.mapCount > 0 {
		r.logger.Error("Resource::unload resource is mapped", slog.Int("MapCount", r.mapCount))
	}

	if r.size > 0 && r.locations&(LocationsCPU|LocationDiscarded) == 0 && r.locations != 0 {
		err := r.loadLocation(context, LocationSystemMemory)
		if err != nil {
			r.logger.Error("Resource::unload failed to preserve contents in system memory", slog.Any("error", err))
		}
	}

	r.freeBufferObject(context)
	r.ops.Unload(r, context)

	if r.locations == 0 {
		r.locations = LocationDiscarded
	}
}

func (r *Resource) freeBufferObject(context GraphicsContext) {
	if r.bufferObject == nil {
		return
	}

	if context != nil {
		context.Backend().DeleteBuffer(r.bufferObject)
	}

	r.device.bufferObjects.Remove(r.size)
	r.bufferObject = nil
	r.invalidateLocation(LocationBuffer)
}

// cleanup releases everything the resource owns. It is safe to call more than once
func (r *Resource) cleanup() {
	if r.destroyed {
		return
	}

	r.logger.Debug("Resource::cleanup")

	if r.pool == PoolDefault && r.device.budget != nil {
		r.device.budget.AdjustMemory(-r.size)
	}

	context := r.device.acquireContext(r)
	r.freeBufferObject(context)
	r.ops.Unload(r, context)
	if context != nil {
		context.Release()
	}

	r.freeSystemMemory()
	r.device.resources.Unregister(r)
	r.destroyed = true
	memutils.DebugValidate(r.device)
}

// destroyInternal runs on the command stream once the last reference has been released
func (r *Resource) destroyInternal() {
	r.mutex.Lock()
	r.cleanup()
	r.mutex.Unlock()

	if r.parentOps.Destroyed != nil {
		r.parentOps.Destroyed(r.parent)
	}
}
