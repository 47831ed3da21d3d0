package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelPacking(t *testing.T) {
	m := NewMemory()
	m.SetPixel(0, 0, 3)
	m.SetPixel(1, 0, 2)
	m.SetPixel(3, 0, 1)
	assert.Equal(t, byte(0b01_00_10_11), m.Framebuffer[0])
	assert.Equal(t, uint8(3), m.PixelAt(0, 0))
	assert.Equal(t, uint8(2), m.PixelAt(1, 0))
	assert.Equal(t, uint8(0), m.PixelAt(2, 0))
	assert.Equal(t, uint8(1), m.PixelAt(3, 0))

	m.SetPixel(ScreenSize-1, ScreenSize-1, 2)
	assert.Equal(t, uint8(2), m.PixelAt(ScreenSize-1, ScreenSize-1))

	// off screen is ignored
	m.SetPixel(-1, 0, 3)
	m.SetPixel(0, ScreenSize, 3)
	assert.Equal(t, uint8(0), m.PixelAt(-1, 0))

	m.Clear()
	assert.Equal(t, [FramebufferSize]byte{}, m.Framebuffer)
}

func TestBlitTransparency(t *testing.T) {
	m := NewMemory()
	sprite := []byte{0b1000_0001}
	// draw colour 1 transparent, 2 -> palette index 3
	m.DrawColors = 0x40
	m.SetPixel(1, 0, 1)
	m.Blit(sprite, 0, 0, 8, 1, Blit1BPP)
	assert.Equal(t, uint8(3), m.PixelAt(0, 0))
	assert.Equal(t, uint8(1), m.PixelAt(1, 0), "clear bit with transparent colour keeps the pixel")
	assert.Equal(t, uint8(3), m.PixelAt(7, 0))

	m.Clear()
	m.DrawColors = 0x42
	m.Blit([]byte{0b1100_0000}, 10, 10, 4, 1, BlitFlipX)
	assert.Equal(t, uint8(1), m.PixelAt(10, 10))
	assert.Equal(t, uint8(1), m.PixelAt(11, 10))
	assert.Equal(t, uint8(3), m.PixelAt(12, 10))
	assert.Equal(t, uint8(3), m.PixelAt(13, 10))
}

func TestBlitClipsAtEdges(t *testing.T) {
	m := NewMemory()
	m.DrawColors = 0x20
	sprite := []byte{0xff, 0xff}
	assert.NotPanics(t, func() { m.Blit(sprite, ScreenSize-4, ScreenSize-1, 8, 2, Blit1BPP) })
	assert.Equal(t, uint8(1), m.PixelAt(ScreenSize-1, ScreenSize-1))
}

func TestText(t *testing.T) {
	m := NewMemory()
	m.DrawColors = 0x02 // glyph palette index 1, background transparent
	m.SetPixel(2, 0, 3)
	m.Text("H", 0, 0)
	// 'H' top row is 0b00110011, least significant bit leftmost
	assert.Equal(t, uint8(1), m.PixelAt(0, 0))
	assert.Equal(t, uint8(1), m.PixelAt(1, 0))
	assert.Equal(t, uint8(3), m.PixelAt(2, 0), "transparent background keeps the pixel")
	assert.Equal(t, uint8(1), m.PixelAt(4, 0))
	for x := 0; x < 6; x++ {
		assert.Equal(t, uint8(1), m.PixelAt(x, 3), "crossbar at x=%d", x)
	}

	m.Clear()
	m.DrawColors = 0x32
	m.Text("H", 0, 0)
	assert.Equal(t, uint8(2), m.PixelAt(2, 0), "background uses draw colour 2")

	m.Clear()
	m.DrawColors = 0x02
	m.Text("A\nB", 0, 0)
	assert.Equal(t, uint8(1), m.PixelAt(0, 8), "B starts under A")
	assert.Equal(t, uint8(0), m.PixelAt(8, 0), "nothing after A on the first line")

	m.Clear()
	m.Text("\x01", 0, 0)
	// drawn as '?', top row 0b00011110
	assert.Equal(t, uint8(0), m.PixelAt(0, 0))
	assert.Equal(t, uint8(1), m.PixelAt(1, 0))

	assert.NotPanics(t, func() { m.Text("clipped", ScreenSize-4, ScreenSize-4) })
}

func TestRect(t *testing.T) {
	m := NewMemory()
	m.DrawColors = 0x32 // fill index 1, outline index 2
	m.Rect(2, 2, 4, 4)
	assert.Equal(t, uint8(2), m.PixelAt(2, 2))
	assert.Equal(t, uint8(2), m.PixelAt(5, 5))
	assert.Equal(t, uint8(1), m.PixelAt(3, 3))
	assert.Equal(t, uint8(0), m.PixelAt(6, 6))

	m.DrawColors = 0
	m.HLine(0, 0, 10)
	assert.Equal(t, uint8(0), m.PixelAt(0, 0), "transparent draw colour draws nothing")
}

func TestPaletteRGB(t *testing.T) {
	m := NewMemory()
	r, g, b := m.RGB(0)
	assert.Equal(t, [3]uint8{0xe0, 0xf8, 0xcf}, [3]uint8{r, g, b})
}

func TestRGBAExpansion(t *testing.T) {
	m := NewMemory()
	m.SetPixel(1, 0, 3)
	m.SetPixel(0, 1, 2)
	dst := make([]byte, ScreenSize*ScreenSize*4)
	m.RGBA(dst)

	assert.Equal(t, []byte{0xe0, 0xf8, 0xcf, 0xff}, dst[0:4])
	assert.Equal(t, []byte{0x07, 0x18, 0x21, 0xff}, dst[4:8])
	o := ScreenSize * 4
	assert.Equal(t, []byte{0x30, 0x68, 0x50, 0xff}, dst[o:o+4])
}

type countingCart struct{ frames int }

func (c *countingCart) Update() { c.frames++ }

type fakeFrontend struct {
	polls    int
	presents int
	quitAt   int
	err      error
}

func (f *fakeFrontend) Poll(mem *Memory) bool {
	f.polls++
	mem.Gamepads[0] = Button1
	return f.quitAt == 0 || f.polls < f.quitAt
}

func (f *fakeFrontend) Present(*Memory) error {
	f.presents++
	return f.err
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	cart := &countingCart{}
	fe := &fakeFrontend{}
	mem := NewMemory()
	err := Run(context.Background(), cart, mem, fe, WithFPS(1000), WithMaxFrames(5))
	require.NoError(t, err)
	assert.Equal(t, 5, cart.frames)
	assert.Equal(t, 5, fe.presents)
	assert.Equal(t, Button1, mem.Gamepad(0))
}

func TestRunQuit(t *testing.T) {
	cart := &countingCart{}
	fe := &fakeFrontend{quitAt: 3}
	err := Run(context.Background(), cart, NewMemory(), fe, WithFPS(1000))
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, 2, cart.frames)
}

func TestRunPresentError(t *testing.T) {
	boom := errors.New("screen gone")
	fe := &fakeFrontend{err: boom}
	err := Run(context.Background(), &countingCart{}, NewMemory(), fe, WithFPS(1000))
	assert.ErrorIs(t, err, boom)
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cart := &countingCart{}
	err := Run(ctx, cart, NewMemory(), &fakeFrontend{}, WithFPS(1000))
	require.NoError(t, err)
	assert.Equal(t, 0, cart.frames)
}

func TestRunClearsUnlessPreserved(t *testing.T) {
	mem := NewMemory()
	mem.SetPixel(0, 0, 3)
	require.NoError(t, Run(context.Background(), &countingCart{}, mem, &fakeFrontend{}, WithMaxFrames(1)))
	assert.Equal(t, uint8(0), mem.PixelAt(0, 0))

	mem.SetPixel(0, 0, 3)
	mem.SystemFlags = FlagPreserveFramebuffer
	require.NoError(t, Run(context.Background(), &countingCart{}, mem, &fakeFrontend{}, WithMaxFrames(1)))
	assert.Equal(t, uint8(3), mem.PixelAt(0, 0))
}
