package grm

import (
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/grm/grm/internal/utils"
	"github.com/vkngwrapper/grm/memutils"
	"golang.org/x/exp/slices"
)

// resourceRegistry is the device's non-owning set of live resources, used for enumeration
// and forced unloads
type resourceRegistry struct {
	mutex utils.OptionalRWMutex

	resources *swiss.Map[uuid.UUID, *Resource]
}

func (l *resourceRegistry) Init(useMutex bool) {
	l.mutex = utils.OptionalRWMutex{UseMutex: useMutex}
	l.resources = swiss.NewMap[uuid.UUID, *Resource](16)
}

func (l *resourceRegistry) Validate() error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	var err error
	l.resources.Iter(func(id uuid.UUID, resource *Resource) bool {
		if resource.id != id {
			err = errors.Errorf("resource %s is registered under the id %s", resource.id, id)
			return true
		}
		if resource.destroyed {
			err = errors.Errorf("resource %s is registered but has been destroyed", id)
			return true
		}
		return false
	})

	return err
}

func (l *resourceRegistry) Register(resource *Resource) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.resources.Put(resource.id, resource)
}

func (l *resourceRegistry) Unregister(resource *Resource) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.resources.Delete(resource.id)
}

func (l *resourceRegistry) Get(id uuid.UUID) (*Resource, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.resources.Get(id)
}

func (l *resourceRegistry) Count() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.resources.Count()
}

// Snapshot returns the registered resources ordered by id
func (l *resourceRegistry) Snapshot() []*Resource {
	l.mutex.RLock()
	resources := make([]*Resource, 0, l.resources.Count())
	l.resources.Iter(func(_ uuid.UUID, resource *Resource) bool {
		resources = append(resources, resource)
		return false
	})
	l.mutex.RUnlock()

	slices.SortFunc(resources, func(left, right *Resource) int {
		return slices.Compare(left.id[:], right.id[:])
	})

	return resources
}

func (l *resourceRegistry) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for _, resource := range l.Snapshot() {
		resource.mutex.Lock()
		stats.AddResource(resource.size)
		stats.Statistics.SystemMemoryBytes += len(resource.systemMemory)
		if resource.mapCount > 0 {
			stats.Statistics.MappedCount++
		}
		if resource.pool == PoolDefault {
			stats.Statistics.VideoMemoryBytes += resource.size
		}
		if resource.bufferObject != nil {
			stats.Statistics.BufferObjectCount++
			stats.Statistics.BufferObjectBytes += resource.size
		}
		resource.mutex.Unlock()
	}
}

func (l *resourceRegistry) BuildStatsString(writer *jwriter.Writer) {
	s := writer.Array()
	defer s.End()

	for _, resource := range l.Snapshot() {
		o := s.Object()
		resource.mutex.Lock()
		resource.printParameters(&o)
		resource.mutex.Unlock()
		o.End()
	}
}
