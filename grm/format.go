package grm

import (
	"fmt"

	"github.com/vkngwrapper/core/v2/common"
)

type FormatID int32

const (
	FormatUnknown FormatID = iota
	FormatA8R8G8B8
	FormatX8R8G8B8
	FormatR5G6B5
	FormatL8
	FormatR32F
	FormatD16
	FormatD24S8
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatATI2N
)

var formatIDMapping = make(map[FormatID]string)

func (f FormatID) String() string {
	str, ok := formatIDMapping[f]
	if !ok {
		return fmt.Sprintf("FormatID(%d)", int32(f))
	}
	return str
}

func init() {
	formatIDMapping[FormatUnknown] = "FormatUnknown"
	formatIDMapping[FormatA8R8G8B8] = "FormatA8R8G8B8"
	formatIDMapping[FormatX8R8G8B8] = "FormatX8R8G8B8"
	formatIDMapping[FormatR5G6B5] = "FormatR5G6B5"
	formatIDMapping[FormatL8] = "FormatL8"
	formatIDMapping[FormatR32F] = "FormatR32F"
	formatIDMapping[FormatD16] = "FormatD16"
	formatIDMapping[FormatD24S8] = "FormatD24S8"
	formatIDMapping[FormatDXT1] = "FormatDXT1"
	formatIDMapping[FormatDXT3] = "FormatDXT3"
	formatIDMapping[FormatDXT5] = "FormatDXT5"
	formatIDMapping[FormatATI2N] = "FormatATI2N"
}

// FormatFlags are the capabilities and layout quirks of a Format
type FormatFlags int32

var formatFlagsMapping = common.NewFlagStringMapping[FormatFlags]()

func (f FormatFlags) Register(str string) {
	formatFlagsMapping.Register(f, str)
}
func (f FormatFlags) String() string {
	return formatFlagsMapping.FlagsToString(f)
}

const (
	FormatRenderTarget FormatFlags = 1 << iota
	FormatDepth
	FormatStencil
	FormatTexture
	// FormatBlocks indicates that the smallest addressable unit is a BlockWidth x BlockHeight block
	FormatBlocks
	// FormatBrokenPitch formats report a row pitch of Width*ByteCount regardless of blocks or alignment
	FormatBrokenPitch
)

func init() {
	FormatRenderTarget.Register("FormatRenderTarget")
	FormatDepth.Register("FormatDepth")
	FormatStencil.Register("FormatStencil")
	FormatTexture.Register("FormatTexture")
	FormatBlocks.Register("FormatBlocks")
	FormatBrokenPitch.Register("FormatBrokenPitch")
}

// Format describes the memory layout of one pixel format
type Format struct {
	ID FormatID
	// ByteCount is the size of a single pixel. For block formats this is only meaningful
	// for FormatBrokenPitch formats
	ByteCount      int
	BlockWidth     int
	BlockHeight    int
	BlockByteCount int
	Flags          FormatFlags
}

// HasBlocks returns true for block-compressed formats
func (f *Format) HasBlocks() bool {
	return f.Flags&FormatBlocks != 0
}

// SupportsRenderTarget is true when the format can be bound as a color target
func (f *Format) SupportsRenderTarget() bool {
	return f.Flags&FormatRenderTarget != 0
}

// SupportsDepthStencil is true when the format carries depth or stencil data
func (f *Format) SupportsDepthStencil() bool {
	return f.Flags&(FormatDepth|FormatStencil) != 0
}

func (f *Format) SupportsTexture() bool {
	return f.Flags&FormatTexture != 0
}

// CheckBlockAlign verifies that the box lies on block boundaries. The right and bottom edges
// may instead coincide with the full width and height of the level.
func (f *Format) CheckBlockAlign(width, height int, box Box) bool {
	if !f.HasBlocks() {
		return true
	}

	if box.Left%f.BlockWidth != 0 || box.Top%f.BlockHeight != 0 {
		return false
	}

	if box.Right%f.BlockWidth != 0 && box.Right != width {
		return false
	}

	if box.Bottom%f.BlockHeight != 0 && box.Bottom != height {
		return false
	}

	return true
}

var formatTable = map[FormatID]Format{
	FormatUnknown: {
		ID: FormatUnknown, ByteCount: 1, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 1,
	},
	FormatA8R8G8B8: {
		ID: FormatA8R8G8B8, ByteCount: 4, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 4,
		Flags: FormatRenderTarget | FormatTexture,
	},
	FormatX8R8G8B8: {
		ID: FormatX8R8G8B8, ByteCount: 4, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 4,
		Flags: FormatRenderTarget | FormatTexture,
	},
	FormatR5G6B5: {
		ID: FormatR5G6B5, ByteCount: 2, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 2,
		Flags: FormatRenderTarget | FormatTexture,
	},
	FormatL8: {
		ID: FormatL8, ByteCount: 1, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 1,
		Flags: FormatTexture,
	},
	FormatR32F: {
		ID: FormatR32F, ByteCount: 4, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 4,
		Flags: FormatRenderTarget | FormatTexture,
	},
	FormatD16: {
		ID: FormatD16, ByteCount: 2, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 2,
		Flags: FormatDepth | FormatTexture,
	},
	FormatD24S8: {
		ID: FormatD24S8, ByteCount: 4, BlockWidth: 1, BlockHeight: 1, BlockByteCount: 4,
		Flags: FormatDepth | FormatStencil,
	},
	FormatDXT1: {
		ID: FormatDXT1, ByteCount: 1, BlockWidth: 4, BlockHeight: 4, BlockByteCount: 8,
		Flags: FormatTexture | FormatBlocks,
	},
	FormatDXT3: {
		ID: FormatDXT3, ByteCount: 1, BlockWidth: 4, BlockHeight: 4, BlockByteCount: 16,
		Flags: FormatTexture | FormatBlocks,
	},
	FormatDXT5: {
		ID: FormatDXT5, ByteCount: 1, BlockWidth: 4, BlockHeight: 4, BlockByteCount: 16,
		Flags: FormatTexture | FormatBlocks,
	},
	FormatATI2N: {
		ID: FormatATI2N, ByteCount: 1, BlockWidth: 4, BlockHeight: 4, BlockByteCount: 16,
		Flags: FormatTexture | FormatBlocks | FormatBrokenPitch,
	},
}

// LookupFormat returns the descriptor for a well-known format
func LookupFormat(id FormatID) (Format, bool) {
	format, ok := formatTable[id]
	return format, ok
}
