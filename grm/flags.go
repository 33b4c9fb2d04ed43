package grm

import (
	"fmt"

	"github.com/vkngwrapper/core/v2/common"
)

// UsageFlags describe how the client intends to use a resource
type UsageFlags int32

var usageFlagsMapping = common.NewFlagStringMapping[UsageFlags]()

func (f UsageFlags) Register(str string) {
	usageFlagsMapping.Register(f, str)
}
func (f UsageFlags) String() string {
	return usageFlagsMapping.FlagsToString(f)
}

const (
	UsageRenderTarget UsageFlags = 1 << iota
	UsageDepthStencil
	// UsageDynamic resources are always CPU-accessible and accept Discard and NoOverwrite maps
	UsageDynamic
	UsageAutoGenMipmap
	UsageStaticDecl
	UsageOverlay
	UsageTextureSampling

	usageHandled = UsageRenderTarget | UsageDepthStencil | UsageDynamic | UsageAutoGenMipmap |
		UsageStaticDecl | UsageOverlay | UsageTextureSampling
)

func init() {
	UsageRenderTarget.Register("UsageRenderTarget")
	UsageDepthStencil.Register("UsageDepthStencil")
	UsageDynamic.Register("UsageDynamic")
	UsageAutoGenMipmap.Register("UsageAutoGenMipmap")
	UsageStaticDecl.Register("UsageStaticDecl")
	UsageOverlay.Register("UsageOverlay")
	UsageTextureSampling.Register("UsageTextureSampling")
}

// MapFlags modify the behavior of Resource.Map
type MapFlags int32

var mapFlagsMapping = common.NewFlagStringMapping[MapFlags]()

func (f MapFlags) Register(str string) {
	mapFlagsMapping.Register(f, str)
}
func (f MapFlags) String() string {
	return mapFlagsMapping.FlagsToString(f)
}

const (
	MapReadOnly MapFlags = 1 << iota
	// MapDiscard is the caller's promise to overwrite the entire resource, so the current
	// contents are not copied into the mapped location
	MapDiscard
	MapNoOverwrite
	// MapNoDirtyUpdate keeps the other locations valid after the map
	MapNoDirtyUpdate
)

func init() {
	MapReadOnly.Register("MapReadOnly")
	MapDiscard.Register("MapDiscard")
	MapNoOverwrite.Register("MapNoOverwrite")
	MapNoDirtyUpdate.Register("MapNoDirtyUpdate")
}

// AccessFlags indicate which processors may touch a resource's memory
type AccessFlags int32

var accessFlagsMapping = common.NewFlagStringMapping[AccessFlags]()

func (f AccessFlags) Register(str string) {
	accessFlagsMapping.Register(f, str)
}
func (f AccessFlags) String() string {
	return accessFlagsMapping.FlagsToString(f)
}

const (
	AccessGPU AccessFlags = 1 << iota
	AccessCPU
)

func init() {
	AccessGPU.Register("AccessGPU")
	AccessCPU.Register("AccessCPU")
}

// Pool is the placement category of a resource
type Pool int32

const (
	PoolDefault Pool = iota
	PoolManaged
	PoolSystemMemory
	PoolScratch
)

var poolMapping = make(map[Pool]string)

func (p Pool) String() string {
	str, ok := poolMapping[p]
	if !ok {
		return fmt.Sprintf("Pool(%d)", int32(p))
	}
	return str
}

func init() {
	poolMapping[PoolDefault] = "PoolDefault"
	poolMapping[PoolManaged] = "PoolManaged"
	poolMapping[PoolSystemMemory] = "PoolSystemMemory"
	poolMapping[PoolScratch] = "PoolScratch"
}

// AccessFlags returns the fixed access capabilities of the pool
func (p Pool) AccessFlags() AccessFlags {
	switch p {
	case PoolDefault:
		return AccessGPU
	case PoolManaged:
		return AccessGPU | AccessCPU
	case PoolScratch, PoolSystemMemory:
		return AccessCPU
	}

	return 0
}

type ResourceType int32

const (
	ResourceTypeBuffer ResourceType = iota
	ResourceTypeTexture1D
	ResourceTypeTexture2D
	ResourceTypeTexture3D
	ResourceTypeSurface
)

var resourceTypeMapping = make(map[ResourceType]string)

func (t ResourceType) String() string {
	str, ok := resourceTypeMapping[t]
	if !ok {
		return fmt.Sprintf("ResourceType(%d)", int32(t))
	}
	return str
}

func init() {
	resourceTypeMapping[ResourceTypeBuffer] = "ResourceTypeBuffer"
	resourceTypeMapping[ResourceTypeTexture1D] = "ResourceTypeTexture1D"
	resourceTypeMapping[ResourceTypeTexture2D] = "ResourceTypeTexture2D"
	resourceTypeMapping[ResourceTypeTexture3D] = "ResourceTypeTexture3D"
	resourceTypeMapping[ResourceTypeSurface] = "ResourceTypeSurface"
}

// MultisampleType is the number of samples per pixel, or MultisampleNone
type MultisampleType int32

const (
	MultisampleNone        MultisampleType = 0
	MultisampleNonMaskable MultisampleType = 1
)
