package memutils

import "math"

type Statistics struct {
	ResourceCount     int
	MappedCount       int
	SystemMemoryBytes int
	BufferObjectCount int
	BufferObjectBytes int
	VideoMemoryBytes  int
}

func (s *Statistics) Clear() {
	s.ResourceCount = 0
	s.MappedCount = 0
	s.SystemMemoryBytes = 0
	s.BufferObjectCount = 0
	s.BufferObjectBytes = 0
	s.VideoMemoryBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.ResourceCount += other.ResourceCount
	s.MappedCount += other.MappedCount
	s.SystemMemoryBytes += other.SystemMemoryBytes
	s.BufferObjectCount += other.BufferObjectCount
	s.BufferObjectBytes += other.BufferObjectBytes
	s.VideoMemoryBytes += other.VideoMemoryBytes
}

type DetailedStatistics struct {
	Statistics
	EmptyResourceCount int
	ResourceSizeMin    int
	ResourceSizeMax    int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.EmptyResourceCount = 0
	s.ResourceSizeMin = math.MaxInt
	s.ResourceSizeMax = 0
}

func (s *DetailedStatistics) AddResource(size int) {
	s.ResourceCount++

	if size == 0 {
		s.EmptyResourceCount++
	}

	if size < s.ResourceSizeMin {
		s.ResourceSizeMin = size
	}

	if size > s.ResourceSizeMax {
		s.ResourceSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.EmptyResourceCount += other.EmptyResourceCount

	if other.ResourceSizeMin < s.ResourceSizeMin {
		s.ResourceSizeMin = other.ResourceSizeMin
	}

	if other.ResourceSizeMax > s.ResourceSizeMax {
		s.ResourceSizeMax = other.ResourceSizeMax
	}
}
