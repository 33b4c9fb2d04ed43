package grm

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/grm/grm/internal/vidmem"
	"github.com/vkngwrapper/grm/memutils"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific device behaviors to activate or deactivate
type CreateFlags int32

var deviceCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	deviceCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return deviceCreateFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized ensures that this device and all resources created from it
	// will not be synchronized internally. The consumer must guarantee that each resource is used from
	// only one goroutine at a time, for instance by funneling all calls through one command thread.
	DeviceCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
}

const (
	defaultSurfaceAlignment  int = 4
	defaultResourceAlignment int = 16
)

// CreateOptions contains optional settings when creating a device
type CreateOptions struct {
	// Flags indicates specific device behaviors to activate or deactivate
	Flags CreateFlags

	// SurfaceAlignment is the row pitch alignment of uncompressed formats. It must be a power
	// of two and defaults to 4
	SurfaceAlignment int
	// ResourceAlignment is the alignment of resource system memory. It must be a power of two
	// and defaults to 16
	ResourceAlignment int

	// VideoMemoryBudget is charged for every PoolDefault resource. Leaving it nil disables
	// video memory accounting
	VideoMemoryBudget MemoryBudget
	// HostMemoryLimit is the maximum number of bytes of resource system memory that may be
	// allocated at once, or 0 for no limit
	HostMemoryLimit int

	// CommandStream serializes map, unmap and destroy requests. It defaults to a stream that
	// executes them immediately on the calling goroutine
	CommandStream CommandStream
}

// Device owns the resources created from it along with the budgets they are charged against
type Device struct {
	useMutex bool
	logger   *slog.Logger
	contexts ContextProvider
	stream   CommandStream

	createFlags       CreateFlags
	surfaceAlignment  int
	resourceAlignment int

	budget        MemoryBudget
	hostMemory    *vidmem.Counter
	bufferObjects *vidmem.Counter

	resources resourceRegistry
}

// New creates a new Device
//
// logger - Receives trace output and warnings about client misuse
//
// contexts - Acquires graphics contexts for resource operations. It may be nil, in which case
// resources are restricted to host memory locations
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, contexts ContextProvider, options CreateOptions) (*Device, error) {
	useMutex := options.Flags&DeviceCreateExternallySynchronized == 0

	device := &Device{
		useMutex: useMutex,
		logger:   logger,
		contexts: contexts,
		stream:   options.CommandStream,

		createFlags:       options.Flags,
		surfaceAlignment:  options.SurfaceAlignment,
		resourceAlignment: options.ResourceAlignment,

		budget:        options.VideoMemoryBudget,
		hostMemory:    vidmem.NewCounter(options.HostMemoryLimit),
		bufferObjects: vidmem.NewCounter(0),
	}

	if device.surfaceAlignment == 0 {
		device.surfaceAlignment = defaultSurfaceAlignment
	}
	if device.resourceAlignment == 0 {
		device.resourceAlignment = defaultResourceAlignment
	}

	err := memutils.CheckPow2(device.surfaceAlignment, "CreateOptions.SurfaceAlignment")
	if err != nil {
		return nil, err
	}
	err = memutils.CheckPow2(device.resourceAlignment, "CreateOptions.ResourceAlignment")
	if err != nil {
		return nil, err
	}

	if options.HostMemoryLimit < 0 {
		return nil, errors.Newf("CreateOptions.HostMemoryLimit cannot be negative: %d", options.HostMemoryLimit)
	}

	if device.stream == nil {
		device.stream = NewImmediateCommandStream()
	}

	device.resources.Init(useMutex)

	logger.Debug("Device::New",
		slog.String("Flags", options.Flags.String()),
		slog.Int("SurfaceAlignment", device.surfaceAlignment),
		slog.Int("ResourceAlignment", device.resourceAlignment),
		slog.Bool("VideoMemoryAccounting", device.budget != nil))

	return device, nil
}

func (d *Device) Logger() *slog.Logger            { return d.logger }
func (d *Device) SurfaceAlignment() int           { return d.surfaceAlignment }
func (d *Device) ResourceAlignment() int          { return d.resourceAlignment }
func (d *Device) CommandStream() CommandStream    { return d.stream }
func (d *Device) VideoMemoryBudget() MemoryBudget { return d.budget }

func (d *Device) acquireContext(hint *Resource) GraphicsContext {
	if d.contexts == nil {
		return nil
	}

	return d.contexts.AcquireContext(hint)
}

// Resource looks up a live resource by id
func (d *Device) Resource(id uuid.UUID) (*Resource, bool) {
	return d.resources.Get(id)
}

// Resources returns every live resource, ordered by id
func (d *Device) Resources() []*Resource {
	return d.resources.Snapshot()
}

func (d *Device) ResourceCount() int {
	return d.resources.Count()
}

// AvailableVideoMemory returns the remaining video memory budget, or -1 when the device
// does not track one
func (d *Device) AvailableVideoMemory() int {
	if d.budget == nil {
		return -1
	}

	return d.budget.AvailableMemory()
}

// UnloadAll unloads every live resource, as is needed when the device is lost
func (d *Device) UnloadAll() {
	d.logger.Debug("Device::UnloadAll")

	context := d.acquireContext(nil)
	if context != nil {
		defer context.Release()
	}

	for _, resource := range d.resources.Snapshot() {
		resource.mutex.Lock()
		resource.unload(context)
		resource.mutex.Unlock()
	}
}

// CalculateStatistics totals the memory held by every live resource
func (d *Device) CalculateStatistics(stats *memutils.DetailedStatistics) {
	stats.Clear()
	d.resources.AddDetailedStatistics(stats)
}

// BuildStatsString returns a JSON document describing the device's memory usage. When detailed
// is true, every live resource is listed.
func (d *Device) BuildStatsString(detailed bool) string {
	var stats memutils.DetailedStatistics
	d.CalculateStatistics(&stats)

	writer := jwriter.NewWriter()
	obj := writer.Object()

	total := obj.Name("Total").Object()
	total.Name("ResourceCount").Int(stats.ResourceCount)
	total.Name("EmptyResourceCount").Int(stats.EmptyResourceCount)
	total.Name("MappedCount").Int(stats.MappedCount)
	total.Name("SystemMemoryBytes").Int(stats.SystemMemoryBytes)
	total.Name("BufferObjectCount").Int(stats.BufferObjectCount)
	total.Name("BufferObjectBytes").Int(stats.BufferObjectBytes)
	total.Name("VideoMemoryBytes").Int(stats.VideoMemoryBytes)
	if stats.ResourceCount > 0 {
		total.Name("ResourceSizeMin").Int(stats.ResourceSizeMin)
		total.Name("ResourceSizeMax").Int(stats.ResourceSizeMax)
	}
	total.End()

	budget := obj.Name("Budget").Object()
	budget.Name("Tracked").Bool(d.budget != nil)
	if d.budget != nil {
		budget.Name("AvailableBytes").Int(d.budget.AvailableMemory())
	}
	budget.Name("HostMemoryBytes").Int(d.hostMemory.Bytes())
	budget.Name("HostMemoryLimit").Int(d.hostMemory.Limit())
	budget.End()

	if detailed {
		obj.Name("Resources")
		d.resources.BuildStatsString(&writer)
	}

	obj.End()

	return string(writer.Bytes())
}

// Validate checks the consistency of the device's bookkeeping
func (d *Device) Validate() error {
	err := d.resources.Validate()
	if err != nil {
		return err
	}

	if d.bufferObjects.Bytes() < 0 || d.hostMemory.Bytes() < 0 {
		return errors.AssertionFailedf("device memory counters went negative")
	}

	return nil
}

// Close waits for outstanding command stream work and shuts the stream down. Resources that
// are still alive are left registered.
func (d *Device) Close() error {
	d.logger.Debug("Device::Close")

	d.stream.Finish()
	err := d.stream.Close()

	count := d.resources.Count()
	if count > 0 {
		d.logger.Warn("Device::Close resources are still alive", slog.Int("ResourceCount", count))
	}

	return err
}
