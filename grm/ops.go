package grm

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// ResourceOps carries the behavior that differs between buffers, textures and surfaces.
// Hooks are called with the resource already locked and must not call its public methods.
type ResourceOps interface {
	// LoadLocation makes a location that the generic coherency engine cannot handle valid.
	// It must validate location itself on success
	LoadLocation(r *Resource, context GraphicsContext, location Location) error
	LocationInvalidated(r *Resource, location Location)
	// Unload drops native objects that are not modeled by the simple locations. context
	// may be nil, in which case native objects are abandoned
	Unload(r *Resource, context GraphicsContext)
}

// DefaultResourceOps returns the ResourceOps used for resources of type t when the creator
// does not supply one
func DefaultResourceOps(t ResourceType) ResourceOps {
	switch t {
	case ResourceTypeTexture1D, ResourceTypeTexture2D, ResourceTypeTexture3D:
		return NewTextureOps()
	case ResourceTypeSurface:
		return NewSurfaceOps()
	}

	return BufferOps{}
}

// BufferOps is used for buffers, which only ever live in simple locations
type BufferOps struct{}

var _ ResourceOps = BufferOps{}

func (BufferOps) LoadLocation(r *Resource, context GraphicsContext, location Location) error {
	r.logger.Error("BufferOps::LoadLocation unsupported location", slog.String("Location", location.String()))
	return errors.AssertionFailedf("buffers cannot be loaded into location %s", location)
}

func (BufferOps) LocationInvalidated(r *Resource, location Location) {}

func (BufferOps) Unload(r *Resource, context GraphicsContext) {}

// TextureOps keeps native RGB and sRGB textures coherent with the simple locations
type TextureOps struct {
	supported Location
	natives   map[Location]NativeObject
	mipsDirty bool
}

var _ ResourceOps = &TextureOps{}

func NewTextureOps() *TextureOps {
	return &TextureOps{
		supported: LocationsTexture,
		natives:   make(map[Location]NativeObject),
		mipsDirty: true,
	}
}

// Native returns the native object backing location, if it has been created
func (o *TextureOps) Native(location Location) (NativeObject, bool) {
	native, ok := o.natives[location]
	return native, ok
}

func nativeKind(location Location) NativeKind {
	switch location {
	case LocationTextureSRGB:
		return NativeTextureSRGB
	case LocationDrawable:
		return NativeDrawable
	case LocationMultisampleRenderbuffer:
		return NativeRenderbufferMultisample
	case LocationResolvedRenderbuffer:
		return NativeRenderbuffer
	}

	return NativeTexture
}

func (o *TextureOps) prepareNative(r *Resource, backend GraphicsBackend, location Location) (NativeObject, error) {
	native, ok := o.natives[location]
	if ok {
		return native, nil
	}

	desc := NativeDesc{
		Kind:   nativeKind(location),
		Format: r.format,
		Width:  r.width,
		Height: r.height,
		Depth:  r.depth,
	}
	if location == LocationMultisampleRenderbuffer {
		desc.MultisampleType = r.multisampleType
		desc.MultisampleQuality = r.multisampleQuality
	}

	native, err := backend.CreateNative(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create native object for %s", location)
	}

	o.natives[location] = native
	return native, nil
}

func (o *TextureOps) LoadLocation(r *Resource, context GraphicsContext, location Location) error {
	if location.IsSimple() {
		return o.download(r, context, location)
	}

	if location&^o.supported != 0 {
		r.logger.Error("TextureOps::LoadLocation unsupported location", slog.String("Location", location.String()))
		return errors.AssertionFailedf("location %s is not supported by resource type %s", location, r.resourceType)
	}

	return o.upload(r, context, location)
}

func (o *TextureOps) upload(r *Resource, context GraphicsContext, location Location) error {
	backend := context.Backend()
	native, err := o.prepareNative(r, backend, location)
	if err != nil {
		return err
	}

	if r.locations&LocationDiscarded != 0 {
		r.logger.Debug("TextureOps::upload resource was discarded, nothing to do")
		r.locations |= location
		r.locations &^= LocationDiscarded
		return nil
	}

	if location&LocationsTexture != 0 && backend.Caps().SRGBDecode {
		other := LocationsTexture &^ location
		src, ok := o.natives[other]
		if ok && r.locations&other != 0 {
			err = backend.BlitNative(native, src)
			if err != nil {
				return errors.Wrapf(err, "failed to convert %s to %s", other, location)
			}

			r.validateLocation(location)
			return nil
		}
	}

	if r.locations&LocationsSimple == 0 {
		err = r.loadLocation(context, LocationSystemMemory)
		if err != nil {
			return err
		}
	}

	source := r.simpleSource(0)
	rowPitch, slicePitch := r.pitch()
	err = r.withLocationBytes(context, source, BufferAccessRead, func(data []byte) error {
		return backend.UploadNative(native, data[:r.size], rowPitch, slicePitch)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to upload %s to %s", source, location)
	}

	r.validateLocation(location)

	if location&LocationsTexture != 0 && r.usage&UsageAutoGenMipmap != 0 && o.mipsDirty {
		err = backend.GenerateMipmaps(native)
		if err != nil {
			return errors.Wrap(err, "failed to generate mipmaps")
		}
		o.mipsDirty = false
	}

	return nil
}

var downloadSources = []Location{LocationTextureRGB, LocationTextureSRGB, LocationDrawable, LocationResolvedRenderbuffer}

func (o *TextureOps) download(r *Resource, context GraphicsContext, location Location) error {
	var source Location
	for _, candidate := range downloadSources {
		if r.locations&o.supported&candidate != 0 {
			source = candidate
			break
		}
	}

	native, ok := o.natives[source]
	if source == 0 || !ok {
		r.logger.Error("TextureOps::download no valid location to load from",
			slog.String("Locations", r.locations.String()))
		return errors.AssertionFailedf("no valid location of resource %s can be loaded into %s", r.id, location)
	}

	err := r.prepareSimpleLocations(context, location)
	if err != nil {
		return err
	}

	backend := context.Backend()
	rowPitch, slicePitch := r.pitch()
	err = r.withLocationBytes(context, location, BufferAccessWrite, func(data []byte) error {
		return backend.DownloadNative(native, data[:r.size], rowPitch, slicePitch)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to download %s to %s", source, location)
	}

	r.validateLocation(location)
	return nil
}

func (o *TextureOps) LocationInvalidated(r *Resource, location Location) {
	if location&LocationsTexture != 0 {
		o.mipsDirty = true
	}
}

func (o *TextureOps) Unload(r *Resource, context GraphicsContext) {
	for location, native := range o.natives {
		if context != nil {
			context.Backend().DeleteNative(native)
		}
		delete(o.natives, location)
	}

	if r.locations&o.supported != 0 {
		r.invalidateLocation(o.supported)
	}
	o.mipsDirty = true
}

// SurfaceOps extends TextureOps with drawables and renderbuffers
type SurfaceOps struct {
	*TextureOps
}

var _ ResourceOps = SurfaceOps{}

func NewSurfaceOps() SurfaceOps {
	textureOps := NewTextureOps()
	textureOps.supported = LocationsTexture | LocationDrawable | LocationMultisampleRenderbuffer | LocationResolvedRenderbuffer

	return SurfaceOps{TextureOps: textureOps}
}

func (o SurfaceOps) resolvable(r *Resource) bool {
	return r.locations&LocationMultisampleRenderbuffer != 0 && r.locations&LocationDiscarded == 0
}

func (o SurfaceOps) LoadLocation(r *Resource, context GraphicsContext, location Location) error {
	switch {
	case location == LocationResolvedRenderbuffer && o.resolvable(r):
		return o.resolve(r, context)
	case location.IsSimple() && o.resolvable(r) &&
		r.locations&o.supported&^LocationMultisampleRenderbuffer == 0:
		err := o.resolve(r, context)
		if err != nil {
			return err
		}
	}

	return o.TextureOps.LoadLocation(r, context, location)
}

func (o SurfaceOps) resolve(r *Resource, context GraphicsContext) error {
	backend := context.Backend()
	resolved, err := o.prepareNative(r, backend, LocationResolvedRenderbuffer)
	if err != nil {
		return err
	}

	multisample, ok := o.natives[LocationMultisampleRenderbuffer]
	if !ok {
		return errors.AssertionFailedf("resource %s has no multisample renderbuffer to resolve", r.id)
	}

	err = backend.BlitNative(resolved, multisample)
	if err != nil {
		return errors.Wrap(err, "failed to resolve multisample renderbuffer")
	}

	r.validateLocation(LocationResolvedRenderbuffer)
	return nil
}
