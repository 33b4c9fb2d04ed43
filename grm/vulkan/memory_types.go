package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/grm/grm"
	"math/bits"
)

// FindMemoryTypeIndex returns the first memory type allowed by memoryTypeBits that carries every
// flag in required, preferring types that also carry the flags in preferred
func FindMemoryTypeIndex(
	properties *core1_0.PhysicalDeviceMemoryProperties,
	memoryTypeBits uint32,
	required core1_0.MemoryPropertyFlags,
	preferred core1_0.MemoryPropertyFlags,
) (int, error) {
	best := -1
	bestScore := -1

	for typeIndex, memoryType := range properties.MemoryTypes {
		if memoryTypeBits&(1<<typeIndex) == 0 {
			continue
		}

		if memoryType.PropertyFlags&required != required {
			continue
		}

		score := bits.OnesCount32(uint32(memoryType.PropertyFlags & preferred))
		if score > bestScore {
			best = typeIndex
			bestScore = score
		}
	}

	if best < 0 {
		return -1, errors.Newf("no memory type in bits %#x has properties %s", memoryTypeBits, required)
	}

	return best, nil
}

// DeviceLocalBudget returns the number of bytes PoolDefault resources may use: 80% of the size
// of every device-local heap
func DeviceLocalBudget(properties *core1_0.PhysicalDeviceMemoryProperties) int {
	var total int
	for _, heap := range properties.MemoryHeaps {
		if heap.Flags&core1_0.MemoryHeapDeviceLocal != 0 {
			total += heap.Size * 8 / 10
		}
	}

	return total
}

// NewMemoryBudget creates a grm.MemoryBudget sized from the physical device's device-local heaps
func NewMemoryBudget(physicalDevice core1_0.PhysicalDevice) grm.MemoryBudget {
	return grm.NewMemoryBudget(DeviceLocalBudget(physicalDevice.MemoryProperties()))
}
