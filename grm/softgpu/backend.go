// Package softgpu is a GraphicsBackend that keeps every buffer object and native object in
// host memory. It backs headless devices and tests.
package softgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/grm/grm"
	"golang.org/x/exp/slog"
	"sync"
)

// Buffer is a buffer object created by Backend
type Buffer struct {
	Data     []byte
	Priority uint32

	mapped  bool
	deleted bool
}

func (b *Buffer) Mapped() bool { return b.mapped }

// Native is a texture, drawable or renderbuffer created by Backend
type Native struct {
	Desc grm.NativeDesc
	Data []byte

	MipmapGenerations int
	deleted           bool
}

// CallCounts records how many times each backend entry point has been called
type CallCounts struct {
	CreateBuffer    int
	MapBuffer       int
	UnmapBuffer     int
	DeleteBuffer    int
	CreateNative    int
	UploadNative    int
	DownloadNative  int
	BlitNative      int
	GenerateMipmaps int
	DeleteNative    int
}

// Backend implements grm.GraphicsBackend in host memory
type Backend struct {
	logger *slog.Logger
	caps   grm.BackendCaps

	mutex   sync.Mutex
	calls   CallCounts
	buffers int
	natives int
}

var _ grm.GraphicsBackend = &Backend{}

func NewBackend(logger *slog.Logger, caps grm.BackendCaps) *Backend {
	return &Backend{
		logger: logger,
		caps:   caps,
	}
}

func (b *Backend) Caps() grm.BackendCaps {
	return b.caps
}

// Calls returns a copy of the call counters
func (b *Backend) Calls() CallCounts {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.calls
}

// LiveBuffers returns the number of buffer objects that have been created and not deleted
func (b *Backend) LiveBuffers() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.buffers
}

func (b *Backend) LiveNatives() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.natives
}

func (b *Backend) CreateBuffer(size int, priority uint32) (grm.BufferObject, error) {
	b.logger.Debug("Backend::CreateBuffer", slog.Int("Size", size), slog.Int("Priority", int(priority)))

	if size < 0 {
		return nil, errors.Newf("cannot create a buffer of %d bytes", size)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.CreateBuffer++
	b.buffers++

	return &Buffer{
		Data:     make([]byte, size),
		Priority: priority,
	}, nil
}

func (b *Backend) buffer(object grm.BufferObject) (*Buffer, error) {
	buffer, ok := object.(*Buffer)
	if !ok || buffer == nil {
		return nil, errors.Newf("%T is not a softgpu buffer", object)
	}
	if buffer.deleted {
		return nil, errors.New("buffer has been deleted")
	}

	return buffer, nil
}

func (b *Backend) MapBuffer(object grm.BufferObject, offset, size int, access grm.BufferAccess) ([]byte, error) {
	b.logger.Debug("Backend::MapBuffer",
		slog.Int("Offset", offset), slog.Int("Size", size), slog.String("Access", access.String()))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.MapBuffer++

	buffer, err := b.buffer(object)
	if err != nil {
		return nil, err
	}

	if buffer.mapped {
		return nil, errors.New("buffer is already mapped")
	}

	if size == -1 {
		size = len(buffer.Data) - offset
	} else if !b.caps.MapBufferRange {
		return nil, errors.New("range mapping is not supported")
	}

	if offset < 0 || size < 0 || offset+size > len(buffer.Data) {
		return nil, errors.Newf("range %d+%d is outside of the %d byte buffer", offset, size, len(buffer.Data))
	}

	if access&grm.BufferAccessInvalidate != 0 {
		clear(buffer.Data[offset : offset+size])
	}

	buffer.mapped = true
	return buffer.Data[offset : offset+size : offset+size], nil
}

func (b *Backend) UnmapBuffer(object grm.BufferObject) error {
	b.logger.Debug("Backend::UnmapBuffer")

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.UnmapBuffer++

	buffer, err := b.buffer(object)
	if err != nil {
		return err
	}

	if !buffer.mapped {
		return errors.New("buffer is not mapped")
	}

	buffer.mapped = false
	return nil
}

func (b *Backend) DeleteBuffer(object grm.BufferObject) {
	b.logger.Debug("Backend::DeleteBuffer")

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.DeleteBuffer++

	buffer, err := b.buffer(object)
	if err != nil {
		b.logger.Error("Backend::DeleteBuffer", slog.Any("error", err))
		return
	}

	buffer.deleted = true
	buffer.Data = nil
	b.buffers--
}

func (b *Backend) CreateNative(desc grm.NativeDesc) (grm.NativeObject, error) {
	b.logger.Debug("Backend::CreateNative", slog.Int("Kind", int(desc.Kind)),
		slog.Int("Width", desc.Width), slog.Int("Height", desc.Height))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.CreateNative++
	b.natives++

	return &Native{Desc: desc}, nil
}

func (b *Backend) native(object grm.NativeObject) (*Native, error) {
	native, ok := object.(*Native)
	if !ok || native == nil {
		return nil, errors.Newf("%T is not a softgpu native object", object)
	}
	if native.deleted {
		return nil, errors.New("native object has been deleted")
	}

	return native, nil
}

func (b *Backend) UploadNative(object grm.NativeObject, src []byte, rowPitch, slicePitch int) error {
	b.logger.Debug("Backend::UploadNative", slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.UploadNative++

	native, err := b.native(object)
	if err != nil {
		return err
	}

	native.Data = append(native.Data[:0], src...)
	return nil
}

func (b *Backend) DownloadNative(object grm.NativeObject, dst []byte, rowPitch, slicePitch int) error {
	b.logger.Debug("Backend::DownloadNative", slog.Int("RowPitch", rowPitch), slog.Int("SlicePitch", slicePitch))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.DownloadNative++

	native, err := b.native(object)
	if err != nil {
		return err
	}

	if len(native.Data) < len(dst) {
		return errors.Newf("native object holds %d bytes but %d were requested", len(native.Data), len(dst))
	}

	copy(dst, native.Data)
	return nil
}

func (b *Backend) BlitNative(dstObject, srcObject grm.NativeObject) error {
	b.logger.Debug("Backend::BlitNative")

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.BlitNative++

	dst, err := b.native(dstObject)
	if err != nil {
		return err
	}
	src, err := b.native(srcObject)
	if err != nil {
		return err
	}

	dst.Data = append(dst.Data[:0], src.Data...)
	return nil
}

func (b *Backend) GenerateMipmaps(object grm.NativeObject) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.GenerateMipmaps++

	native, err := b.native(object)
	if err != nil {
		return err
	}

	native.MipmapGenerations++
	return nil
}

func (b *Backend) DeleteNative(object grm.NativeObject) {
	b.logger.Debug("Backend::DeleteNative")

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.DeleteNative++

	native, err := b.native(object)
	if err != nil {
		b.logger.Error("Backend::DeleteNative", slog.Any("error", err))
		return
	}

	native.deleted = true
	native.Data = nil
	b.natives--
}
