// Package vulkan implements grm.GraphicsBackend on top of vkngwrapper. Buffer objects and native
// objects are both linear host-visible allocations, so every transfer is a copy through mapped
// memory.
package vulkan

import (
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"github.com/vkngwrapper/extensions/v2/ext_memory_priority"
	"github.com/vkngwrapper/grm/grm"
	"github.com/vkngwrapper/grm/grm/internal/utils"
	"golang.org/x/exp/slog"
)

const hostMemoryProperties = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

// wholeSize maps from offset to the end of a buffer object
const wholeSize = -1

type bufferObject struct {
	buffer core1_0.Buffer
	memory core1_0.DeviceMemory
	size   int
	mapped bool
}

type nativeObject struct {
	desc              grm.NativeDesc
	storage           *bufferObject
	mipmapGenerations int
}

// Backend implements grm.GraphicsBackend with a vkngwrapper device
type Backend struct {
	logger    *slog.Logger
	mutex     utils.OptionalMutex
	device    core1_0.Device
	callbacks *driver.AllocationCallbacks

	memoryProperties  *core1_0.PhysicalDeviceMemoryProperties
	useMemoryPriority bool
	maxAnisotropy     int
}

var _ grm.GraphicsBackend = &Backend{}

// NewBackend creates a Backend for device. Priorities passed to CreateBuffer are forwarded to the
// driver when ext_memory_priority is active.
func NewBackend(logger *slog.Logger, physicalDevice core1_0.PhysicalDevice, device core1_0.Device, callbacks *driver.AllocationCallbacks, useMutex bool) (*Backend, error) {
	properties, err := physicalDevice.Properties()
	if err != nil {
		return nil, err
	}

	return &Backend{
		logger:    logger,
		mutex:     utils.OptionalMutex{UseMutex: useMutex},
		device:    device,
		callbacks: callbacks,

		memoryProperties:  physicalDevice.MemoryProperties(),
		useMemoryPriority: device.IsDeviceExtensionActive(ext_memory_priority.ExtensionName),
		maxAnisotropy:     int(properties.Limits.MaxSamplerAnisotropy),
	}, nil
}

func (b *Backend) Caps() grm.BackendCaps {
	return grm.BackendCaps{
		MapBufferRange: true,
		MaxAnisotropy:  b.maxAnisotropy,
	}
}

// memoryPriority maps the full uint32 priority range onto the [0,1] range vulkan expects
func memoryPriority(priority uint32) float32 {
	return float32(float64(priority) / math.MaxUint32)
}

func (b *Backend) allocate(size int, priority uint32) (*bufferObject, error) {
	buffer, _, err := b.device.CreateBuffer(b.callbacks, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       core1_0.BufferUsageTransferSrc | core1_0.BufferUsageTransferDst,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, err
	}

	requirements := buffer.MemoryRequirements()
	typeIndex, err := FindMemoryTypeIndex(b.memoryProperties, requirements.MemoryTypeBits,
		hostMemoryProperties, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		buffer.Destroy(b.callbacks)
		return nil, err
	}

	var allocInfo core1_0.MemoryAllocateInfo
	allocInfo.AllocationSize = requirements.Size
	allocInfo.MemoryTypeIndex = typeIndex

	if b.useMemoryPriority {
		priorityInfo := ext_memory_priority.MemoryPriorityAllocateInfo{
			Priority: memoryPriority(priority),
		}
		priorityInfo.Next = allocInfo.Next
		allocInfo.Next = priorityInfo
	}

	memory, _, err := b.device.AllocateMemory(b.callbacks, allocInfo)
	if err != nil {
		buffer.Destroy(b.callbacks)
		return nil, err
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	if err != nil {
		memory.Free(b.callbacks)
		buffer.Destroy(b.callbacks)
		return nil, err
	}

	return &bufferObject{
		buffer: buffer,
		memory: memory,
		size:   size,
	}, nil
}

func (b *Backend) release(object *bufferObject) {
	if object.mapped {
		object.memory.Unmap()
	}
	object.buffer.Destroy(b.callbacks)
	object.memory.Free(b.callbacks)
}

func (b *Backend) mapObject(object *bufferObject, offset, size int) ([]byte, error) {
	if object.mapped {
		return nil, errors.New("buffer object is already mapped")
	}

	if size < 0 {
		size = object.size - offset
	}
	if offset < 0 || offset+size > object.size {
		return nil, errors.Newf("range %d+%d is outside of the %d byte buffer object", offset, size, object.size)
	}

	ptr, _, err := object.memory.Map(offset, size, 0)
	if err != nil {
		return nil, err
	}

	object.mapped = true
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (b *Backend) unmapObject(object *bufferObject) error {
	if !object.mapped {
		return errors.New("buffer object is not mapped")
	}

	object.memory.Unmap()
	object.mapped = false
	return nil
}

func asBuffer(object grm.BufferObject) (*bufferObject, error) {
	buffer, ok := object.(*bufferObject)
	if !ok || buffer == nil {
		return nil, errors.Newf("%T is not a vulkan buffer object", object)
	}
	return buffer, nil
}

func asNative(object grm.NativeObject) (*nativeObject, error) {
	native, ok := object.(*nativeObject)
	if !ok || native == nil {
		return nil, errors.Newf("%T is not a vulkan native object", object)
	}
	return native, nil
}

func (b *Backend) CreateBuffer(size int, priority uint32) (grm.BufferObject, error) {
	b.logger.Debug("Backend::CreateBuffer", slog.Int("Size", size), slog.Int("Priority", int(priority)))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	object, err := b.allocate(size, priority)
	if err != nil {
		return nil, err
	}

	return object, nil
}

func (b *Backend) MapBuffer(object grm.BufferObject, offset, size int, access grm.BufferAccess) ([]byte, error) {
	b.logger.Debug("Backend::MapBuffer",
		slog.Int("Offset", offset), slog.Int("Size", size), slog.String("Access", access.String()))

	buffer, err := asBuffer(object)
	if err != nil {
		return nil, err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.mapObject(buffer, offset, size)
}

func (b *Backend) UnmapBuffer(object grm.BufferObject) error {
	b.logger.Debug("Backend::UnmapBuffer")

	buffer, err := asBuffer(object)
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.unmapObject(buffer)
}

func (b *Backend) DeleteBuffer(object grm.BufferObject) {
	b.logger.Debug("Backend::DeleteBuffer")

	buffer, err := asBuffer(object)
	if err != nil {
		b.logger.Error("Backend::DeleteBuffer", slog.Any("error", err))
		return
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.release(buffer)
}

func (b *Backend) CreateNative(desc grm.NativeDesc) (grm.NativeObject, error) {
	b.logger.Debug("Backend::CreateNative", slog.Int("Kind", int(desc.Kind)),
		slog.Int("Width", desc.Width), slog.Int("Height", desc.Height))

	return &nativeObject{desc: desc}, nil
}

// ensureStorage sizes the native object's storage to hold size bytes
func (b *Backend) ensureStorage(native *nativeObject, size int) error {
	if native.storage != nil && native.storage.size == size {
		return nil
	}

	if native.storage != nil {
		b.release(native.storage)
		native.storage = nil
	}

	storage, err := b.allocate(size, 0)
	if err != nil {
		return err
	}

	native.storage = storage
	return nil
}

func (b *Backend) copyInto(dst *bufferObject, src []byte) error {
	data, err := b.mapObject(dst, 0, len(src))
	if err != nil {
		return err
	}

	copy(data, src)
	return b.unmapObject(dst)
}

func (b *Backend) UploadNative(object grm.NativeObject, src []byte, rowPitch, slicePitch int) error {
	b.logger.Debug("Backend::UploadNative", slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	native, err := asNative(object)
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	err = b.ensureStorage(native, len(src))
	if err != nil {
		return err
	}

	return b.copyInto(native.storage, src)
}

func (b *Backend) DownloadNative(object grm.NativeObject, dst []byte, rowPitch, slicePitch int) error {
	b.logger.Debug("Backend::DownloadNative", slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	native, err := asNative(object)
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if native.storage == nil || native.storage.size < len(dst) {
		return errors.New("native object does not hold enough data to download")
	}

	data, err := b.mapObject(native.storage, 0, len(dst))
	if err != nil {
		return err
	}

	copy(dst, data)
	return b.unmapObject(native.storage)
}

func (b *Backend) BlitNative(dstObject, srcObject grm.NativeObject) error {
	b.logger.Debug("Backend::BlitNative")

	dst, err := asNative(dstObject)
	if err != nil {
		return err
	}
	src, err := asNative(srcObject)
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if src.storage == nil {
		return errors.New("blit source holds no data")
	}

	data, err := b.mapObject(src.storage, 0, wholeSize)
	if err != nil {
		return err
	}

	err = b.ensureStorage(dst, src.storage.size)
	if err == nil {
		err = b.copyInto(dst.storage, data)
	}

	unmapErr := b.unmapObject(src.storage)
	if unmapErr != nil {
		b.logger.Error("Backend::BlitNative failed to unmap blit source", slog.Any("error", unmapErr))
		if err == nil {
			err = unmapErr
		}
	}

	return err
}

func (b *Backend) GenerateMipmaps(object grm.NativeObject) error {
	native, err := asNative(object)
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	native.mipmapGenerations++
	return nil
}

func (b *Backend) DeleteNative(object grm.NativeObject) {
	b.logger.Debug("Backend::DeleteNative")

	native, err := asNative(object)
	if err != nil {
		b.logger.Error("Backend::DeleteNative", slog.Any("error", err))
		return
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if native.storage != nil {
		b.release(native.storage)
		native.storage = nil
	}
}
