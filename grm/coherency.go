package grm

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// ValidateLocation marks location as holding current data
func (r *Resource) ValidateLocation(location Location) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.validateLocation(location)
}

// InvalidateLocation marks location as stale and notifies the resource's ResourceOps
func (r *Resource) InvalidateLocation(location Location) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.invalidateLocation(location)
}

// LoadLocation makes location hold current data, copying from another valid location when
// needed. context may be nil when only host memory is involved.
func (r *Resource) LoadLocation(context GraphicsContext, location Location) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.loadLocation(context, location)
}

func (r *Resource) validateLocation(location Location) {
	r.logger.Debug("Resource::validateLocation", slog.String("Location", location.String()))
	r.locations |= location
	r.logger.Debug("Resource::validateLocation", slog.String("Locations", r.locations.String()))
}

func (r *Resource) invalidateLocation(location Location) {
	r.logger.Debug("Resource::invalidateLocation", slog.String("Location", location.String()))
	r.locations &^= location
	r.logger.Debug("Resource::invalidateLocation", slog.String("Locations", r.locations.String()))

	r.ops.LocationInvalidated(r, location)
}

func (r *Resource) loadLocation(context GraphicsContext, location Location) error {
	if r.locations&location == location {
		r.logger.Debug("Resource::loadLocation location already up to date", slog.String("Location", location.String()))
		return nil
	}

	if r.locations == 0 {
		r.logger.Warn("Resource::loadLocation resource has no valid locations, treating contents as discarded")
		r.locations = LocationDiscarded
	}

	if location&(location-1) != 0 {
		for remaining := location &^ r.locations; remaining != 0; {
			next := lowestLocation(remaining)
			remaining &^= next

			err := r.loadLocation(context, next)
			if err != nil {
				return err
			}
		}
		return nil
	}

	requiredAccess := AccessFromLocation(location)
	if r.accessFlags&requiredAccess != requiredAccess {
		r.logger.Warn("Resource::loadLocation operation requires access the resource does not have",
			slog.String("RequiredAccess", requiredAccess.String()),
			slog.String("AccessFlags", r.accessFlags.String()))
	}

	if location&LocationsSimple != 0 {
		if r.locations&LocationDiscarded != 0 {
			r.logger.Debug("Resource::loadLocation resource was discarded, nothing to do")
			err := r.prepareSimpleLocations(context, location&LocationsSimple)
			if err != nil {
				return err
			}

			r.locations |= location
			r.locations &^= LocationDiscarded
			return nil
		}

		if r.locations&LocationsSimple != 0 {
			err := r.copySimpleLocation(context, location)
			if err != nil {
				return err
			}

			r.locations |= location
			return nil
		}
	}

	if context == nil {
		r.logger.Error("Resource::loadLocation a context is required for non-sysmem operation",
			slog.String("Location", location.String()))
		return errors.AssertionFailedf("loading location %s requires a context", location)
	}

	return r.ops.LoadLocation(r, context, location)
}

// simpleSource picks the location to copy from among the valid simple locations, preferring
// the buffer object and falling back to system memory last
func (r *Resource) simpleSource(exclude Location) Location {
	valid := r.locations & LocationsSimple &^ exclude
	for _, location := range []Location{LocationBuffer, LocationUserMemory, LocationDIB, LocationSystemMemory} {
		if valid&location != 0 {
			return location
		}
	}

	return 0
}

func (r *Resource) copySimpleLocation(context GraphicsContext, location Location) error {
	source := r.simpleSource(location)
	if source == 0 {
		return errors.AssertionFailedf("no valid simple location to copy %s from", location)
	}

	r.logger.Debug("Resource::copySimpleLocation",
		slog.String("Source", source.String()), slog.String("Destination", location.String()))

	err := r.prepareSimpleLocations(context, location)
	if err != nil {
		return err
	}

	return r.withLocationBytes(context, source, BufferAccessRead, func(src []byte) error {
		return r.withLocationBytes(context, location, BufferAccessWrite|BufferAccessInvalidate, func(dst []byte) error {
			copy(dst[:r.size], src[:r.size])
			return nil
		})
	})
}

func (r *Resource) prepareSimpleLocations(context GraphicsContext, locations Location) error {
	for locations != 0 {
		location := lowestLocation(locations)
		locations &^= location

		err := r.prepareLocation(context, location)
		if err != nil {
			return err
		}
	}

	return nil
}

// prepareLocation makes sure the memory backing a simple location exists
func (r *Resource) prepareLocation(context GraphicsContext, location Location) error {
	switch location {
	case LocationSystemMemory:
		return r.prepareSystemMemory()
	case LocationBuffer:
		return r.prepareBufferObject(context)
	case LocationUserMemory:
		if r.userMemory == nil {
			r.logger.Error("Resource::prepareLocation user memory location has no user memory")
			return errors.AssertionFailedf("resource %s has no user memory", r.id)
		}
		return nil
	case LocationDIB:
		if r.bitmapData == nil {
			r.logger.Error("Resource::prepareLocation DIB location has no bitmap data")
			return errors.AssertionFailedf("resource %s has no bitmap data", r.id)
		}
		return nil
	}

	return errors.AssertionFailedf("unexpected simple location %s", location)
}

func (r *Resource) prepareSystemMemory() error {
	if r.heapMemory != nil {
		return nil
	}

	err := r.allocateSystemMemory()
	if err != nil {
		r.logger.Error("Resource::prepareSystemMemory failed to allocate system memory", slog.Any("error", err))
		return err
	}

	return nil
}

func (r *Resource) prepareBufferObject(context GraphicsContext) error {
	if r.bufferObject != nil {
		return nil
	}

	if context == nil {
		r.logger.Error("Resource::prepareBufferObject a context is required to create a buffer object")
		return errors.AssertionFailedf("creating a buffer object for resource %s requires a context", r.id)
	}

	buffer, err := context.Backend().CreateBuffer(r.size, r.priority)
	if err != nil {
		return errors.Wrapf(err, "failed to create buffer object for resource %s", r.id)
	}

	r.bufferObject = buffer
	r.device.bufferObjects.Add(r.size)
	r.logger.Debug("Resource::prepareBufferObject created buffer object", slog.Int("Size", r.size))

	return nil
}

// cpuLocationBytes returns the host memory behind a CPU location, or nil if it has none
func (r *Resource) cpuLocationBytes(location Location) []byte {
	switch location {
	case LocationSystemMemory:
		return r.systemMemory
	case LocationUserMemory:
		return r.userMemory
	case LocationDIB:
		return r.bitmapData
	}

	return nil
}

// withLocationBytes runs fn against the bytes of a simple location, mapping the buffer object
// for the duration of the call when location is LocationBuffer
func (r *Resource) withLocationBytes(context GraphicsContext, location Location, access BufferAccess, fn func(data []byte) error) error {
	if location != LocationBuffer {
		data := r.cpuLocationBytes(location)
		if data == nil {
			return errors.AssertionFailedf("location %s of resource %s has no memory", location, r.id)
		}

		return fn(data)
	}

	if context == nil {
		r.logger.Error("Resource::withLocationBytes a context is required to access the buffer object")
		return errors.AssertionFailedf("accessing the buffer object of resource %s requires a context", r.id)
	}

	backend := context.Backend()
	size := r.size
	if !backend.Caps().MapBufferRange {
		size = -1
	}

	data, err := backend.MapBuffer(r.bufferObject, 0, size, access)
	if err != nil {
		return errors.Wrapf(err, "failed to map buffer object of resource %s", r.id)
	}

	fnErr := fn(data)
	err = backend.UnmapBuffer(r.bufferObject)
	if fnErr != nil {
		return fnErr
	}

	return err
}
