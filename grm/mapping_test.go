package grm_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/grm/grm"
	mock_grm "github.com/vkngwrapper/grm/grm/mocks"
	"go.uber.org/mock/gomock"
)

func TestMap_StateMachine(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, 0, 0)

	res, err := resource.Unmap()
	require.Equal(t, grm.ResultNotLocked, res)
	require.ErrorIs(t, err, grm.ErrNotLocked)

	_, res, err = resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
	require.Equal(t, 1, resource.MapCount())

	_, res, err = resource.Map(nil, 0)
	require.Equal(t, grm.ResultInvalidCall, res)
	require.ErrorIs(t, err, grm.ErrInvalidCall)
	require.Equal(t, 1, resource.MapCount())

	res, err = resource.Unmap()
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
	require.Equal(t, 0, resource.MapCount())

	_, res, err = resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)

	res, err = resource.Unmap()
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
}

var sanitizeTestCases = map[string]struct {
	Usage    grm.UsageFlags
	Flags    grm.MapFlags
	Expected grm.MapFlags
}{
	"ReadOnlyDiscard":         {Usage: grm.UsageDynamic, Flags: grm.MapReadOnly | grm.MapDiscard, Expected: 0},
	"ReadOnlyNoOverwrite":     {Usage: grm.UsageDynamic, Flags: grm.MapReadOnly | grm.MapNoOverwrite, Expected: 0},
	"DiscardNoOverwrite":      {Usage: grm.UsageDynamic, Flags: grm.MapDiscard | grm.MapNoOverwrite, Expected: 0},
	"DiscardNonDynamic":       {Flags: grm.MapDiscard, Expected: 0},
	"DiscardNoOverwriteNonDy": {Flags: grm.MapDiscard | grm.MapNoOverwrite, Expected: 0},
	"NoOverwriteNonDynamic":   {Flags: grm.MapNoOverwrite | grm.MapNoDirtyUpdate, Expected: 0},
	"DiscardDynamic":          {Usage: grm.UsageDynamic, Flags: grm.MapDiscard, Expected: grm.MapDiscard},
	"NoOverwriteDynamic":      {Usage: grm.UsageDynamic, Flags: grm.MapNoOverwrite, Expected: grm.MapNoOverwrite},
	"ReadOnly":                {Flags: grm.MapReadOnly | grm.MapNoDirtyUpdate, Expected: grm.MapReadOnly | grm.MapNoDirtyUpdate},
}

func TestSanitizeMapFlags(t *testing.T) {
	for testName, testCase := range sanitizeTestCases {
		t.Run(testName, func(t *testing.T) {
			setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
			resource := createBuffer(t, setup.Device, 16, testCase.Usage, 0)

			require.Equal(t, testCase.Expected, resource.SanitizeMapFlags(testCase.Flags))
		})
	}
}

func TestMap_Pitch(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{SurfaceAlignment: 4})

	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 17, 3, 0)
	rowPitch, slicePitch := resource.Pitch()
	require.Equal(t, 68, rowPitch)
	require.Equal(t, 68*3, slicePitch)

	desc, _, err := resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 68, desc.RowPitch)
	require.Equal(t, 68*3, desc.SlicePitch)
	require.Len(t, desc.Data, 68*3)
	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_PitchSurfaceAlignment(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{SurfaceAlignment: 64})

	resource := createTexture(t, setup.Device, grm.FormatR5G6B5, 17, 2, 0)
	rowPitch, slicePitch := resource.Pitch()
	require.Equal(t, 64, rowPitch)
	require.Equal(t, 128, slicePitch)
}

func TestMap_BlockPitch(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})

	resource := createTexture(t, setup.Device, grm.FormatDXT5, 18, 9, 0)
	rowPitch, slicePitch := resource.Pitch()
	require.Equal(t, 80, rowPitch)
	require.Equal(t, 80*3, slicePitch)

	desc, _, err := resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 80, desc.RowPitch)
	require.Equal(t, 240, desc.SlicePitch)
	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_BrokenPitch(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})

	resource := createTexture(t, setup.Device, grm.FormatATI2N, 16, 8, 0)

	rowPitch, _ := resource.Pitch()
	require.Equal(t, 64, rowPitch)

	desc, _, err := resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 16, desc.RowPitch)
	require.Equal(t, 16*8, desc.SlicePitch)
	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_BufferPitchFollowsSurfaceAlignment(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{SurfaceAlignment: 8})

	resource := createBuffer(t, setup.Device, 17, 0, 0)

	rowPitch, slicePitch := resource.Pitch()
	require.Equal(t, 24, rowPitch)
	require.Equal(t, 24, slicePitch)

	desc, _, err := resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 24, desc.RowPitch)
	require.Equal(t, 24, desc.SlicePitch)
	require.Len(t, desc.Data, 17)
	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_CustomPitch(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})

	resource := createTexture(t, setup.Device, grm.FormatA8R8G8B8, 4, 4, 0)
	user := make([]byte, 128*4)
	_, err := resource.SetUserMemory(user, 128, 512)
	require.NoError(t, err)
	require.Equal(t, grm.LocationUserMemory, resource.MapBinding())

	desc, _, err := resource.Map(&grm.Box{Left: 1, Top: 2, Right: 3, Bottom: 4, Back: 1}, 0)
	require.NoError(t, err)
	require.Equal(t, 128, desc.RowPitch)
	require.Equal(t, 512, desc.SlicePitch)

	desc.Data[0] = 0xAB
	require.Equal(t, byte(0xAB), user[2*128+4])

	_, err = resource.Unmap()
	require.NoError(t, err)
}

var boxOffsetTestCases = map[string]struct {
	Format grm.FormatID
	Width  int
	Height int
	Box    grm.Box

	Offset int
}{
	"Uncompressed": {
		Format: grm.FormatA8R8G8B8, Width: 16, Height: 16,
		Box:    grm.Box{Left: 2, Top: 3, Right: 4, Bottom: 5, Back: 1},
		Offset: 3*64 + 2*4,
	},
	"Block": {
		Format: grm.FormatDXT5, Width: 16, Height: 16,
		Box:    grm.Box{Left: 4, Top: 8, Right: 8, Bottom: 12, Back: 1},
		Offset: 2*64 + 1*16,
	},
	"BlockPartialEdge": {
		Format: grm.FormatDXT1, Width: 18, Height: 18,
		Box:    grm.Box{Left: 16, Top: 16, Right: 18, Bottom: 18, Back: 1},
		Offset: 4*40 + 4*8,
	},
	"BrokenPitch": {
		Format: grm.FormatATI2N, Width: 16, Height: 16,
		Box:    grm.Box{Left: 4, Top: 4, Right: 8, Bottom: 8, Back: 1},
		Offset: 4*16 + 4,
	},
}

func TestMap_BoxOffset(t *testing.T) {
	for testName, testCase := range boxOffsetTestCases {
		t.Run(testName, func(t *testing.T) {
			setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
			resource := createTexture(t, setup.Device, testCase.Format, testCase.Width, testCase.Height, 0)

			whole, _, err := resource.Map(nil, grm.MapNoDirtyUpdate)
			require.NoError(t, err)
			fillPattern(whole.Data, 9)
			_, err = resource.Unmap()
			require.NoError(t, err)

			box := testCase.Box
			desc, res, err := resource.Map(&box, grm.MapReadOnly)
			require.NoError(t, err)
			require.Equal(t, grm.ResultOK, res)
			require.Equal(t, resource.Size()-testCase.Offset, len(desc.Data))
			require.Equal(t, whole.Data[testCase.Offset], desc.Data[0])

			_, err = resource.Unmap()
			require.NoError(t, err)
		})
	}
}

var misalignedBoxTestCases = map[string]grm.Box{
	"Left":       {Left: 2, Top: 0, Right: 8, Bottom: 4, Back: 1},
	"Top":        {Left: 0, Top: 1, Right: 8, Bottom: 4, Back: 1},
	"Right":      {Left: 0, Top: 0, Right: 7, Bottom: 4, Back: 1},
	"Bottom":     {Left: 0, Top: 0, Right: 8, Bottom: 3, Back: 1},
	"OutOfRange": {Left: 0, Top: 0, Right: 20, Bottom: 4, Back: 1},
	"Inverted":   {Left: 8, Top: 0, Right: 4, Bottom: 4, Back: 1},
}

func TestMap_RejectsBadBox(t *testing.T) {
	for testName, box := range misalignedBoxTestCases {
		t.Run(testName, func(t *testing.T) {
			setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
			resource := createTexture(t, setup.Device, grm.FormatDXT1, 16, 16, 0)

			_, res, err := resource.Map(&box, 0)
			require.Equal(t, grm.ResultInvalidCall, res)
			require.ErrorIs(t, err, grm.ErrInvalidCall)
			require.Equal(t, 0, resource.MapCount())
		})
	}
}

func TestCheckBlockAlign(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createTexture(t, setup.Device, grm.FormatDXT3, 18, 10, 0)

	require.True(t, resource.CheckBlockAlign(nil))
	require.True(t, resource.CheckBlockAlign(&grm.Box{Left: 4, Top: 4, Right: 18, Bottom: 10}))
	require.True(t, resource.CheckBlockAlign(&grm.Box{Left: 0, Top: 0, Right: 8, Bottom: 8}))
	require.False(t, resource.CheckBlockAlign(&grm.Box{Left: 0, Top: 0, Right: 17, Bottom: 8}))
	require.False(t, resource.CheckBlockAlign(&grm.Box{Left: 0, Top: 0, Right: 8, Bottom: 9}))
}

func TestMap_DiscardSkipsCopy(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, grm.UsageDynamic, grm.LocationBuffer)

	_, err := resource.SetMapBinding(grm.LocationSystemMemory)
	require.NoError(t, err)
	writeThroughMap(t, resource, 0, 5)
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())

	_, err = resource.SetMapBinding(grm.LocationBuffer)
	require.NoError(t, err)

	desc, res, err := resource.Map(nil, grm.MapDiscard)
	require.NoError(t, err)
	require.Equal(t, grm.ResultOK, res)
	require.Len(t, desc.Data, 64)

	calls := setup.Backend.Calls()
	require.Equal(t, 1, calls.CreateBuffer)
	require.Equal(t, 1, calls.MapBuffer)
	require.Equal(t, grm.LocationBuffer, resource.Locations())

	_, err = resource.Unmap()
	require.NoError(t, err)
	require.Equal(t, 1, setup.Backend.Calls().UnmapBuffer)
}

func TestMap_WithoutDiscardCopies(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, grm.UsageDynamic, grm.LocationSystemMemory)
	writeThroughMap(t, resource, 0, 5)

	_, err := resource.SetMapBinding(grm.LocationBuffer)
	require.NoError(t, err)

	desc, _, err := resource.Map(nil, 0)
	require.NoError(t, err)
	requirePattern(t, desc.Data, 5)

	require.Equal(t, 2, setup.Backend.Calls().MapBuffer)
	require.Equal(t, grm.LocationBuffer, resource.Locations())

	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_NoDirtyUpdateKeepsLocations(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, 0, grm.LocationSystemMemory)
	writeThroughMap(t, resource, 0, 5)

	context := setup.Contexts.AcquireContext(resource)
	require.NoError(t, resource.LoadLocation(context, grm.LocationBuffer))
	context.Release()

	_, _, err := resource.Map(nil, grm.MapNoDirtyUpdate)
	require.NoError(t, err)
	require.Equal(t, grm.LocationSystemMemory|grm.LocationBuffer, resource.Locations())
	_, err = resource.Unmap()
	require.NoError(t, err)

	_, _, err = resource.Map(nil, grm.MapReadOnly)
	require.NoError(t, err)
	require.Equal(t, grm.LocationSystemMemory|grm.LocationBuffer, resource.Locations())
	_, err = resource.Unmap()
	require.NoError(t, err)

	_, _, err = resource.Map(nil, 0)
	require.NoError(t, err)
	require.Equal(t, grm.LocationSystemMemory, resource.Locations())
	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_ChangesRefusedWhileMapped(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, 0, 0)

	_, _, err := resource.Map(nil, 0)
	require.NoError(t, err)

	res, err := resource.SetMapBinding(grm.LocationBuffer)
	require.Equal(t, grm.ResultInvalidCall, res)
	require.ErrorIs(t, err, grm.ErrInvalidCall)

	res, err = resource.SetUserMemory(make([]byte, 64), 0, 0)
	require.Equal(t, grm.ResultInvalidCall, res)
	require.Error(t, err)

	_, err = resource.Unmap()
	require.NoError(t, err)
}

func TestMap_BufferWithoutContext(t *testing.T) {
	setup := newTestDevice(t, defaultCaps(), grm.CreateOptions{})
	resource := createBuffer(t, setup.Device, 64, 0, grm.LocationBuffer)

	setup.Contexts.SetAvailable(false)

	_, res, err := resource.Map(nil, 0)
	require.Equal(t, grm.ResultInvalidCall, res)
	require.ErrorIs(t, err, grm.ErrInvalidCall)
	require.Equal(t, 0, resource.MapCount())
}

var legacyMapTestCases = map[string]struct {
	Usage  grm.UsageFlags
	Flags  grm.MapFlags
	Access grm.BufferAccess
}{
	"ReadWrite":   {Flags: 0, Access: grm.BufferAccessRead | grm.BufferAccessWrite},
	"ReadOnly":    {Flags: grm.MapReadOnly, Access: grm.BufferAccessRead},
	"Discard":     {Usage: grm.UsageDynamic, Flags: grm.MapDiscard, Access: grm.BufferAccessWrite},
	"NoOverwrite": {Usage: grm.UsageDynamic, Flags: grm.MapNoOverwrite, Access: grm.BufferAccessWrite},
}

func TestMap_LegacyBufferMapping(t *testing.T) {
	for testName, testCase := range legacyMapTestCases {
		t.Run(testName, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			backend := mock_grm.NewMockGraphicsBackend(ctrl)
			context := mock_grm.NewMockGraphicsContext(ctrl)
			contexts := mock_grm.NewMockContextProvider(ctrl)

			contexts.EXPECT().AcquireContext(gomock.Any()).Return(context).AnyTimes()
			context.EXPECT().Backend().Return(backend).AnyTimes()
			context.EXPECT().Release().AnyTimes()
			backend.EXPECT().Caps().Return(grm.BackendCaps{}).AnyTimes()

			buffer := &struct{ name string }{name: "buffer"}
			memory := make([]byte, 32)

			backend.EXPECT().CreateBuffer(32, uint32(0)).Return(buffer, nil)
			backend.EXPECT().MapBuffer(buffer, 0, -1, testCase.Access).Return(memory, nil)
			backend.EXPECT().UnmapBuffer(buffer).Return(nil)
			backend.EXPECT().DeleteBuffer(buffer)

			device, err := grm.New(testLogger(), contexts, grm.CreateOptions{})
			require.NoError(t, err)
			defer func() {
				require.NoError(t, device.Close())
			}()

			resource := createBuffer(t, device, 32, testCase.Usage, grm.LocationBuffer)

			desc, res, err := resource.Map(nil, testCase.Flags)
			require.NoError(t, err)
			require.Equal(t, grm.ResultOK, res)
			require.Len(t, desc.Data, 32)

			_, err = resource.Unmap()
			require.NoError(t, err)

			require.Equal(t, 0, resource.DecRef())
			require.Equal(t, 0, device.ResourceCount())
		})
	}
}
