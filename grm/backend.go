package grm

//go:generate mockgen -source backend.go -destination ./mocks/backend.go

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/grm/grm/internal/vidmem"
)

// BackendCaps is the capability table exposed by a GraphicsBackend
type BackendCaps struct {
	// MapBufferRange indicates that MapBuffer honors offset and size. Backends without it
	// are always asked to map the whole buffer
	MapBufferRange bool
	// SRGBDecode indicates that TextureRGB and TextureSRGB can be converted into each other
	// with a blit instead of a round trip through system memory
	SRGBDecode    bool
	MaxAnisotropy int
}

// BufferAccess describes how a mapped buffer range will be used
type BufferAccess int32

var bufferAccessMapping = common.NewFlagStringMapping[BufferAccess]()

func (a BufferAccess) Register(str string) {
	bufferAccessMapping.Register(a, str)
}
func (a BufferAccess) String() string {
	return bufferAccessMapping.FlagsToString(a)
}

const (
	BufferAccessRead BufferAccess = 1 << iota
	BufferAccessWrite
	BufferAccessInvalidate
	BufferAccessUnsynchronized
)

func init() {
	BufferAccessRead.Register("BufferAccessRead")
	BufferAccessWrite.Register("BufferAccessWrite")
	BufferAccessInvalidate.Register("BufferAccessInvalidate")
	BufferAccessUnsynchronized.Register("BufferAccessUnsynchronized")
}

func bufferAccessFromMapFlags(flags MapFlags) BufferAccess {
	var access BufferAccess

	if flags&MapReadOnly == 0 {
		access |= BufferAccessWrite
	}
	if flags&(MapDiscard|MapNoOverwrite) == 0 {
		access |= BufferAccessRead
	}
	if flags&MapDiscard != 0 {
		access |= BufferAccessInvalidate
	}
	if flags&MapNoOverwrite != 0 {
		access |= BufferAccessUnsynchronized
	}

	return access
}

// BufferObject is an opaque backend buffer handle
type BufferObject any

// NativeObject is an opaque backend texture, drawable or renderbuffer handle
type NativeObject any

type NativeKind int32

const (
	NativeTexture NativeKind = iota
	NativeTextureSRGB
	NativeDrawable
	NativeRenderbufferMultisample
	NativeRenderbuffer
)

// NativeDesc describes a native object a backend should create for a resource
type NativeDesc struct {
	Kind               NativeKind
	Format             Format
	Width              int
	Height             int
	Depth              int
	MultisampleType    MultisampleType
	MultisampleQuality int
}

// GraphicsBackend performs the driver calls on behalf of resources. It is only reached
// through an acquired GraphicsContext
type GraphicsBackend interface {
	Caps() BackendCaps

	CreateBuffer(size int, priority uint32) (BufferObject, error)
	// MapBuffer maps size bytes at offset. A size of -1 maps the whole buffer
	MapBuffer(buffer BufferObject, offset, size int, access BufferAccess) ([]byte, error)
	UnmapBuffer(buffer BufferObject) error
	DeleteBuffer(buffer BufferObject)

	CreateNative(desc NativeDesc) (NativeObject, error)
	UploadNative(native NativeObject, src []byte, rowPitch, slicePitch int) error
	DownloadNative(native NativeObject, dst []byte, rowPitch, slicePitch int) error
	// BlitNative copies dst from src, resolving multisampled sources
	BlitNative(dst, src NativeObject) error
	GenerateMipmaps(native NativeObject) error
	DeleteNative(native NativeObject)
}

// GraphicsContext is an acquired rendering context. Release must be called once the
// caller is done issuing backend calls
type GraphicsContext interface {
	Backend() GraphicsBackend
	Release()
}

// ContextProvider acquires contexts for resource operations. AcquireContext returns nil
// when no context is available, as is the case after device loss
type ContextProvider interface {
	AcquireContext(hint *Resource) GraphicsContext
}

// MemoryBudget tracks the video memory available to PoolDefault resources
type MemoryBudget interface {
	AvailableMemory() int
	// AdjustMemory applies delta to the used memory and returns the new used total
	AdjustMemory(delta int) int
	// ReserveMemory debits size bytes only if they fit in the memory still available. The
	// check and the debit happen as one step.
	ReserveMemory(size int) bool
}

// NewMemoryBudget creates a MemoryBudget with totalBytes of video memory
func NewMemoryBudget(totalBytes int) MemoryBudget {
	return vidmem.NewAccounting(totalBytes)
}
