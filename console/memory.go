// Package console models the memory-mapped fantasy console a cart runs on:
// a 160x160 four-colour framebuffer, a palette, draw colours, gamepads and a
// mouse, plus a fixed-rate Run loop that hands that memory to a Frontend.
//
// A cart only ever sees *Memory. Frontends (console/term, console/window)
// fill the input registers before each frame and present the framebuffer
// after it.
package console

// Screen geometry.
const (
	ScreenSize      = 160
	FramebufferSize = ScreenSize * ScreenSize / 4 // 2 bits per pixel
)

// Gamepad bits.
const (
	Button1     uint8 = 1
	Button2     uint8 = 2
	ButtonLeft  uint8 = 16
	ButtonRight uint8 = 32
	ButtonUp    uint8 = 64
	ButtonDown  uint8 = 128
)

// Mouse button bits.
const (
	MouseLeft   uint8 = 1
	MouseRight  uint8 = 2
	MouseMiddle uint8 = 4
)

// System flags.
const (
	// FlagPreserveFramebuffer keeps the previous frame instead of clearing
	// the framebuffer before each update.
	FlagPreserveFramebuffer uint8 = 1
	// FlagHideGamepadOverlay asks touch frontends not to draw virtual buttons.
	FlagHideGamepadOverlay uint8 = 2
)

// Blit flags.
const (
	Blit1BPP  uint32 = 0
	BlitFlipX uint32 = 2
	BlitFlipY uint32 = 4
)

// MemorySize is the size of the cart's linear memory.
const MemorySize = 64 * 1024

// DefaultPalette is the palette installed by NewMemory, darkest last.
var DefaultPalette = [4]uint32{0xe0f8cf, 0x86c06c, 0x306850, 0x071821}

// Memory is the region shared between cart and host. The host writes the
// input registers, the cart writes the draw state and framebuffer.
type Memory struct {
	Palette      [4]uint32
	DrawColors   uint16
	Gamepads     [4]uint8
	MouseX       int16
	MouseY       int16
	MouseButtons uint8
	SystemFlags  uint8
	Framebuffer  [FramebufferSize]byte
}

// NewMemory returns memory with the default palette and draw colours.
func NewMemory() *Memory {
	return &Memory{
		Palette:    DefaultPalette,
		DrawColors: 0x1203,
	}
}

// Gamepad returns the button state of player n (0-3).
func (m *Memory) Gamepad(n int) uint8 {
	return m.Gamepads[n&3]
}

// RGB returns the palette colour of a 2-bit framebuffer value as 8-bit channels.
func (m *Memory) RGB(color uint8) (r, g, b uint8) {
	c := m.Palette[color&3]
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA expands the framebuffer into dst as opaque 8-bit RGBA pixels, row
// major. dst must hold at least ScreenSize*ScreenSize*4 bytes.
func (m *Memory) RGBA(dst []byte) {
	var lut [4][3]uint8
	for i := range lut {
		lut[i][0], lut[i][1], lut[i][2] = m.RGB(uint8(i))
	}
	_ = dst[ScreenSize*ScreenSize*4-1]
	for i, b := range m.Framebuffer {
		for k := 0; k < 4; k++ {
			c := lut[b>>(k*2)&3]
			o := (i*4 + k) * 4
			dst[o], dst[o+1], dst[o+2], dst[o+3] = c[0], c[1], c[2], 0xff
		}
	}
}
