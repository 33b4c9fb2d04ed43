package grm_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/grm/grm"
	"github.com/vkngwrapper/grm/grm/softgpu"
	"golang.org/x/exp/slog"
)

type testDevice struct {
	Device   *grm.Device
	Backend  *softgpu.Backend
	Contexts *softgpu.ContextProvider
	Budget   grm.MemoryBudget
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDevice(t *testing.T, caps grm.BackendCaps, options grm.CreateOptions) testDevice {
	logger := testLogger()
	backend := softgpu.NewBackend(logger, caps)
	contexts := softgpu.NewContextProvider(backend)

	device, err := grm.New(logger, contexts, options)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, device.Close())
		require.Equal(t, 0, contexts.Active())
	})

	return testDevice{
		Device:   device,
		Backend:  backend,
		Contexts: contexts,
		Budget:   options.VideoMemoryBudget,
	}
}

func defaultCaps() grm.BackendCaps {
	return grm.BackendCaps{MapBufferRange: true, SRGBDecode: true, MaxAnisotropy: 16}
}

func createBuffer(t *testing.T, device *grm.Device, size int, usage grm.UsageFlags, mapBinding grm.Location) *grm.Resource {
	resource, res, err := device.CreateResource(grm.ResourceCreateInfo{
		Type:       grm.ResourceTypeBuffer,
		Format:     grm.FormatUnknown,
		Usage:      usage,
		Pool:       grm.PoolManaged,
		Size:       size,
		MapBinding: mapBinding,
	})
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)

	return resource
}

func createTexture(t *testing.T, device *grm.Device, format grm.FormatID, width, height int, usage grm.UsageFlags) *grm.Resource {
	resource, res, err := device.CreateResource(grm.ResourceCreateInfo{
		Type:   grm.ResourceTypeTexture2D,
		Format: format,
		Usage:  usage,
		Pool:   grm.PoolManaged,
		Width:  width,
		Height: height,
		Depth:  1,
		Size:   textureSize(t, device, format, width, height),
	})
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)

	return resource
}

func textureSize(t *testing.T, device *grm.Device, formatID grm.FormatID, width, height int) int {
	format, ok := grm.LookupFormat(formatID)
	require.True(t, ok)

	if format.HasBlocks() {
		rows := (height + format.BlockHeight - 1) / format.BlockHeight
		columns := (width + format.BlockWidth - 1) / format.BlockWidth
		return rows * columns * format.BlockByteCount
	}

	alignment := device.SurfaceAlignment()
	rowPitch := (width*format.ByteCount + alignment - 1) &^ (alignment - 1)
	return rowPitch * height
}

func fillPattern(data []byte, seed byte) {
	for i := range data {
		data[i] = seed + byte(i*7)
	}
}

func requirePattern(t *testing.T, data []byte, seed byte) {
	expected := make([]byte, len(data))
	fillPattern(expected, seed)
	require.Equal(t, expected, data)
}

func writeThroughMap(t *testing.T, resource *grm.Resource, flags grm.MapFlags, seed byte) {
	desc, res, err := resource.Map(nil, flags)
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
	fillPattern(desc.Data[:resource.Size()], seed)

	res, err = resource.Unmap()
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
}

func readThroughMap(t *testing.T, resource *grm.Resource) []byte {
	desc, res, err := resource.Map(nil, grm.MapReadOnly)
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
	data := append([]byte(nil), desc.Data[:resource.Size()]...)

	res, err = resource.Unmap()
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)

	return data
}
