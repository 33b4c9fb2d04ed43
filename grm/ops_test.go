package grm_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/grm/grm"
	"github.com/vkngwrapper/grm/grm/softgpu"
)

func textureNative(t *testing.T, resource *grm.Resource, location grm.Location) *softgpu.Native {
	var native grm.NativeObject
	var ok bool

	switch ops := resource.Ops().(type) {
	case *grm.TextureOps:
		native, ok = ops.Native(location)
	case grm.SurfaceOps:
		native, ok = ops.Native(location)
	default:
		t.Fatalf("unexpected resource ops %T", ops)
	}
	require.True(t, ok)

	return native.(*softgpu.Native)
}

func loadLocation(t *testing.T, setup testDevice, resource *grm.Resource, location grm.Location) {
	context := setup.Contexts.AcquireContext(resource)
	defer context.Release()

	require.NoError(t, resource.LoadLocation(context, location))
}

func TestTextureOps_UploadFromSystemMemory(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	writeThroughMap(t, resource, 0, 3)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	require.Equal(t, grm.LocationSystemMemory|grm.LocationTextureRGB, resource.Locations())

	native := textureNative(t, resource, grm.LocationTextureRGB)
	require.Equal(t, grm.NativeTexture, native.Desc.Kind)
	require.Equal(t, 4, native.Desc.Width)
	requirePattern(t, native.Data, 3)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)

	calls := setup.Backend.Calls()
	require.Equal(t, 1, calls.CreateNative)
	require.Equal(t, 1, calls.UploadNative)
	require.Equal(t, 0, calls.GenerateMipmaps)
}

func TestTextureOps_DiscardedUploadSkipsCopy(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	require.Equal(t, grm.LocationDiscarded, resource.Locations())

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	require.Equal(t, grm.LocationTextureRGB, resource.Locations())

	calls := setup.Backend.Calls()
	require.Equal(t, 1, calls.CreateNative)
	require.Equal(t, 0, calls.UploadNative)
}

var srgbTestCases = map[string]struct {
	SRGBDecode bool

	UploadCount int
	BlitCount   int
}{
	"Blit":   {SRGBDecode: true, UploadCount: 1, BlitCount: 1},
	"Upload": {SRGBDecode: false, UploadCount: 2, BlitCount: 0},
}

func TestTextureOps_SRGBConversion(t *testing.T) {
	for testName, testCase := range srgbTestCases {
		t.Run(testName, func(t *testing.T) {
			caps := defaultCaps()
			caps.SRGBDecode = testCase.SRGBDecode

			setup := newTestDevice(t, caps, grm.CreateOptions{})
			resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 8, 8, 0)
			writeThroughMap(t, resource, 0, 11)

			loadLocation(t, setup, resource, grm.LocationTextureRGB)
			loadLocation(t, setup, resource, grm.LocationTextureSRGB)

			require.Equal(t, grm.LocationSystemMemory|grm.LocationTextureRGB|grm.LocationTextureSRGB, resource.Locations())
			requirePattern(t, textureNative(t, resource, grm.LocationTextureSRGB).Data, 11)

			calls := setup.Backend.Calls()
			require.Equal(t, testCase.UploadCount, calls.UploadNative)
			require.Equal(t, testCase.BlitCount, calls.BlitNative)
		})
	}
}

func TestTextureOps_LoadBothTextures(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatR5G6B5, 8, 8, 0)
	writeThroughMap(t, resource, 0, 1)

	loadLocation(t, setup, resource, grm.LocationsTexture)
	require.Equal(t, grm.LocationSystemMemory|grm.LocationsTexture, resource.Locations())
	require.Equal(t, 2, setup.Backend.Calls().CreateNative)
}

func TestTextureOps_Mipmaps(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 8, 8, grm.UsageAutoGenMipmap)
	writeThroughMap(t, resource, 0, 1)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	native := textureNative(t, resource, grm.LocationTextureRGB)
	require.Equal(t, 1, native.MipmapGenerations)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	require.Equal(t, 1, native.MipmapGenerations)

	// Writing through the system memory binding stales the texture and its mip chain
	writeThroughMap(t, resource, 0, 2)
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	require.Equal(t, 2, native.MipmapGenerations)
	requirePattern(t, native.Data, 2)
	require.Equal(t, 2, setup.Backend.Calls().GenerateMipmaps)
}

func TestTextureOps_NoMipmapsWithoutUsage(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 8, 8, 0)
	writeThroughMap(t, resource, 0, 1)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	require.Equal(t, 0, setup.Backend.Calls().GenerateMipmaps)
}

func TestTextureOps_Download(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	writeThroughMap(t, resource, 0, 21)

	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	resource.InvalidateLocation(grm.LocationSystemMemory)
	require.Equal(t, grm.LocationTextureRGB, resource.Locations())

	requirePattern(t, readThroughMap(t, resource), 21)
	require.Equal(t, grm.LocationSystemMemory|grm.LocationTextureRGB, resource.Locations())
	require.Equal(t, 1, setup.Backend.Calls().DownloadNative)
}

func TestTextureOps_DownloadWithoutSource(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)

	resource.ValidateLocation(grm.LocationDrawable)
	resource.InvalidateLocation(grm.LocationDiscarded)

	context := setup.Contexts.AcquireContext(resource)
	defer context.Release()

	err := resource.LoadLocation(context, grm.LocationSystemMemory)
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))
}

func TestTextureOps_UnsupportedLocation(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	writeThroughMap(t, resource, 0, 1)

	context := setup.Contexts.AcquireContext(resource)
	defer context.Release()

	err := resource.LoadLocation(context, grm.LocationDrawable)
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())
}

func TestTextureOps_Unload(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	writeThroughMap(t, resource, 0, 7)
	loadLocation(t, setup, resource, grm.LocationTextureRGB)

	resource.Unload()
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())
	require.Equal(t, 0, setup.Backend.LiveNatives())
	require.Equal(t, 1, setup.Backend.Calls().DeleteNative)

	requirePattern(t, readThroughMap(t, resource), 7)
}

func TestTextureOps_UnloadPreservesContents(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	writeThroughMap(t, resource, 0, 13)
	loadLocation(t, setup, resource, grm.LocationTextureRGB)
	resource.InvalidateLocation(grm.LocationSystemMemory)

	resource.Unload()
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())
	require.Equal(t, 1, setup.Backend.Calls().DownloadNative)
	require.Equal(t, 0, setup.Backend.LiveNatives())

	requirePattern(t, readThroughMap(t, resource), 13)
}

func createSurface(t *testing.T, device *grm.Device, width, height int) *grm.Resource {
	resource, res, err := device.CreateResource(grm.ResourceCreateInfo{
		Type:               grm.ResourceTypeSurface,
		Format:             grm.FormatA8R8G8B8,
		MultisampleType:    grm.MultisampleNonMaskable,
		MultisampleQuality: 2,
		Usage:              grm.UsageRenderTarget,
		Pool:               grm.PoolDefault,
		Width:              width,
		Height:             height,
		Depth:              1,
		Size:               textureSize(t, device, grm.FormatA8R8G8B8, width, height),
	})
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)

	return resource
}

func TestSurfaceOps_ResolveOnDownload(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createSurface(t, setup.Device, 4, 4)
	writeThroughMap(t, resource, 0, 17)

	loadLocation(t, setup, resource, grm.LocationMultisampleRenderbuffer)
	multisample := textureNative(t, resource, grm.LocationMultisampleRenderbuffer)
	require.Equal(t, grm.NativeRenderbufferMultisample, multisample.Desc.Kind)
	require.Equal(t, grm.MultisampleNonMaskable, multisample.Desc.MultisampleType)
	require.Equal(t, 2, multisample.Desc.MultisampleQuality)

	resource.InvalidateLocation(grm.LocationsAll &^ grm.LocationMultisampleRenderbuffer)
	require.Equal(t, grm.LocationMultisampleRenderbuffer, resource.Locations())

	requirePattern(t, readThroughMap(t, resource), 17)
	require.Equal(t,
		grm.LocationSystemMemory|grm.LocationMultisampleRenderbuffer|grm.LocationResolvedRenderbuffer,
		resource.Locations())

	resolved := textureNative(t, resource, grm.LocationResolvedRenderbuffer)
	require.Equal(t, grm.NativeRenderbuffer, resolved.Desc.Kind)
	require.Equal(t, grm.MultisampleNone, resolved.Desc.MultisampleType)

	calls := setup.Backend.Calls()
	require.Equal(t, 1, calls.BlitNative)
	require.Equal(t, 1, calls.DownloadNative)
}

func TestSurfaceOps_ResolveTarget(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createSurface(t, setup.Device, 4, 4)
	writeThroughMap(t, resource, 0, 4)

	loadLocation(t, setup, resource, grm.LocationMultisampleRenderbuffer)
	loadLocation(t, setup, resource, grm.LocationResolvedRenderbuffer)

	requirePattern(t, textureNative(t, resource, grm.LocationResolvedRenderbuffer).Data, 4)

	calls := setup.Backend.Calls()
	require.Equal(t, 1, calls.UploadNative)
	require.Equal(t, 1, calls.BlitNative)
}

func TestSurfaceOps_Drawable(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createSurface(t, setup.Device, 4, 4)
	writeThroughMap(t, resource, 0, 9)

	loadLocation(t, setup, resource, grm.LocationDrawable)

	drawable := textureNative(t, resource, grm.LocationDrawable)
	require.Equal(t, grm.NativeDrawable, drawable.Desc.Kind)
	requirePattern(t, drawable.Data, 9)
}
