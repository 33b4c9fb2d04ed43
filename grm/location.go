package grm

import (
	"github.com/vkngwrapper/core/v2/common"
)

// Location is a bitset of the physical places a resource's data may currently be valid in
type Location uint32

var locationMapping = common.NewFlagStringMapping[Location]()

func (l Location) Register(str string) {
	locationMapping.Register(l, str)
}
func (l Location) String() string {
	return locationMapping.FlagsToString(l)
}

const (
	// LocationDiscarded marks a resource whose contents need not be preserved
	LocationDiscarded Location = 1 << iota
	LocationSystemMemory
	LocationUserMemory
	LocationBuffer
	LocationTextureRGB
	LocationTextureSRGB
	LocationDrawable
	LocationMultisampleRenderbuffer
	LocationResolvedRenderbuffer
	LocationDIB

	// LocationsSimple are the CPU-addressable locations that can be copied between as flat bytes
	LocationsSimple = LocationSystemMemory | LocationUserMemory | LocationDIB | LocationBuffer
	// LocationsCPU are the simple locations backed by host memory
	LocationsCPU     = LocationSystemMemory | LocationUserMemory | LocationDIB
	LocationsTexture = LocationTextureRGB | LocationTextureSRGB
	LocationsAll     Location = LocationDiscarded | LocationSystemMemory | LocationUserMemory | LocationBuffer |
		LocationTextureRGB | LocationTextureSRGB | LocationDrawable | LocationMultisampleRenderbuffer |
		LocationResolvedRenderbuffer | LocationDIB
)

func init() {
	LocationDiscarded.Register("LocationDiscarded")
	LocationSystemMemory.Register("LocationSystemMemory")
	LocationUserMemory.Register("LocationUserMemory")
	LocationBuffer.Register("LocationBuffer")
	LocationTextureRGB.Register("LocationTextureRGB")
	LocationTextureSRGB.Register("LocationTextureSRGB")
	LocationDrawable.Register("LocationDrawable")
	LocationMultisampleRenderbuffer.Register("LocationMultisampleRenderbuffer")
	LocationResolvedRenderbuffer.Register("LocationResolvedRenderbuffer")
	LocationDIB.Register("LocationDIB")
}

// IsSimple returns true if every bit in l is a CPU-addressable location
func (l Location) IsSimple() bool {
	return l != 0 && l&^LocationsSimple == 0
}

// AccessFromLocation returns the access a resource needs in order to hold data in the
// requested location
func AccessFromLocation(l Location) AccessFlags {
	switch l {
	case LocationDiscarded:
		return 0
	case LocationSystemMemory, LocationUserMemory, LocationDIB:
		return AccessCPU
	case LocationBuffer, LocationTextureRGB, LocationTextureSRGB, LocationDrawable,
		LocationMultisampleRenderbuffer, LocationResolvedRenderbuffer:
		return AccessGPU
	}

	return 0
}

// lowestLocation returns the lowest set bit of l
func lowestLocation(l Location) Location {
	return l & -l
}
