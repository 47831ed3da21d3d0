// Package window runs a cart in a desktop window with ebiten. Ebiten owns
// the frame loop here, so this package replaces console.Run rather than
// implementing console.Frontend.
package window

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/kecil/console"
)

// DefaultScale is the window size multiplier.
const DefaultScale = 4

type keyBinding struct {
	key ebiten.Key
	bit uint8
}

var keyBindings = []keyBinding{
	{ebiten.KeyX, console.Button1},
	{ebiten.KeySpace, console.Button1},
	{ebiten.KeyZ, console.Button2},
	{ebiten.KeyC, console.Button2},
	{ebiten.KeyArrowLeft, console.ButtonLeft},
	{ebiten.KeyArrowRight, console.ButtonRight},
	{ebiten.KeyArrowUp, console.ButtonUp},
	{ebiten.KeyArrowDown, console.ButtonDown},
}

type padBinding struct {
	button ebiten.StandardGamepadButton
	bit    uint8
}

var padBindings = []padBinding{
	{ebiten.StandardGamepadButtonRightBottom, console.Button1},
	{ebiten.StandardGamepadButtonRightRight, console.Button2},
	{ebiten.StandardGamepadButtonLeftLeft, console.ButtonLeft},
	{ebiten.StandardGamepadButtonLeftRight, console.ButtonRight},
	{ebiten.StandardGamepadButtonLeftTop, console.ButtonUp},
	{ebiten.StandardGamepadButtonLeftBottom, console.ButtonDown},
}

// keyboardPad folds the pressed keys into a gamepad byte.
func keyboardPad(pressed func(ebiten.Key) bool) uint8 {
	var pad uint8
	for _, b := range keyBindings {
		if pressed(b.key) {
			pad |= b.bit
		}
	}
	return pad
}

// Game adapts a cart to ebiten.Game.
type Game struct {
	cart      console.Cart
	mem       *console.Memory
	pix       []byte
	gamepads  []ebiten.GamepadID
	frames    uint64
	maxFrames uint64
	logger    zerolog.Logger
}

type options struct {
	title     string
	scale     int
	fps       int
	maxFrames uint64
	logger    zerolog.Logger
}

// Option configures Run.
type Option func(*options)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithScale sets the window size multiplier.
func WithScale(scale int) Option {
	return func(o *options) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithFPS sets the update rate.
func WithFPS(fps int) Option {
	return func(o *options) {
		if fps > 0 {
			o.fps = fps
		}
	}
}

// WithMaxFrames closes the window after n frames. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(o *options) { o.maxFrames = n }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewGame wraps cart and mem without opening a window.
func NewGame(cart console.Cart, mem *console.Memory, maxFrames uint64, logger zerolog.Logger) *Game {
	return &Game{
		cart:      cart,
		mem:       mem,
		pix:       make([]byte, console.ScreenSize*console.ScreenSize*4),
		maxFrames: maxFrames,
		logger:    logger,
	}
}

// Update polls input into memory and runs one cart frame.
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.logger.Info().Uint64("frame", g.frames).Msg("quit requested")
		return ebiten.Termination
	}
	g.poll()
	if g.mem.SystemFlags&console.FlagPreserveFramebuffer == 0 {
		g.mem.Clear()
	}
	g.cart.Update()
	g.frames++
	if g.maxFrames > 0 && g.frames >= g.maxFrames {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) poll() {
	g.mem.Gamepads[0] = keyboardPad(ebiten.IsKeyPressed)
	g.gamepads = ebiten.AppendGamepadIDs(g.gamepads[:0])
	for i, id := range g.gamepads {
		if i >= len(g.mem.Gamepads) {
			break
		}
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range padBindings {
			if ebiten.IsStandardGamepadButtonPressed(id, b.button) {
				g.mem.Gamepads[i] |= b.bit
			}
		}
	}

	x, y := ebiten.CursorPosition()
	g.mem.MouseX, g.mem.MouseY = int16(x), int16(y)
	var buttons uint8
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= console.MouseLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= console.MouseRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= console.MouseMiddle
	}
	g.mem.MouseButtons = buttons
}

// Draw copies the framebuffer to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mem.RGBA(g.pix)
	screen.WritePixels(g.pix)
}

// Layout fixes the logical screen to the console resolution.
func (g *Game) Layout(int, int) (int, int) {
	return console.ScreenSize, console.ScreenSize
}

// Run opens a window and drives cart until the window is closed, Escape is
// pressed or the frame limit is reached.
func Run(cart console.Cart, mem *console.Memory, opts ...Option) error {
	o := options{
		title:  "kecil",
		scale:  DefaultScale,
		fps:    console.DefaultFPS,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ebiten.SetWindowSize(console.ScreenSize*o.scale, console.ScreenSize*o.scale)
	ebiten.SetWindowTitle(o.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(o.fps)

	g := NewGame(cart, mem, o.maxFrames, o.logger)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return eris.Wrap(err, "run window")
	}
	o.logger.Info().Uint64("frames", g.frames).Msg("window closed")
	return nil
}
