// Package term is a console.Frontend that draws the framebuffer in a
// terminal with tcell. Each character cell shows two pixels stacked
// vertically using the upper half block, so the 160x160 screen needs a
// 160x80 terminal.
//
// Terminals report key presses but not releases, so a pressed button is held
// for a few frames after its last key event.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/kecil/console"
)

const (
	// DefaultHoldFrames is how long a key press keeps its button down.
	DefaultHoldFrames = 6

	halfBlock = '▀'
	eventBuf  = 64
)

var keyButtons = map[tcell.Key]uint8{
	tcell.KeyLeft:  console.ButtonLeft,
	tcell.KeyRight: console.ButtonRight,
	tcell.KeyUp:    console.ButtonUp,
	tcell.KeyDown:  console.ButtonDown,
	tcell.KeyEnter: console.Button1,
}

var runeButtons = map[rune]uint8{
	'x': console.Button1,
	'X': console.Button1,
	' ': console.Button1,
	'z': console.Button2,
	'Z': console.Button2,
	'c': console.Button2,
}

// Frontend renders to a tcell.Screen and feeds player one's gamepad and the
// mouse from terminal input.
type Frontend struct {
	screen    tcell.Screen
	events    chan tcell.Event
	done      chan struct{} // closed by Close
	stopped   chan struct{} // closed when the reader exits
	closeOnce sync.Once
	logger    zerolog.Logger

	hold int
	held [8]int // frames left per gamepad bit

	mouseButtons uint8
	mouseX       int16
	mouseY       int16
	offX, offY   int
	quit         bool
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithHoldFrames sets how many frames a key press holds its button.
func WithHoldFrames(n int) Option {
	return func(f *Frontend) {
		if n > 0 {
			f.hold = n
		}
	}
}

// WithLogger sets the frontend logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Frontend) {
		f.logger = logger
	}
}

// New initialises screen and starts reading its events. Call Close to
// restore the terminal.
func New(screen tcell.Screen, opts ...Option) (*Frontend, error) {
	if err := screen.Init(); err != nil {
		return nil, eris.Wrap(err, "init terminal screen")
	}
	f := &Frontend{
		screen:  screen,
		events:  make(chan tcell.Event, eventBuf),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  zerolog.Nop(),
		hold:    DefaultHoldFrames,
	}
	for _, opt := range opts {
		opt(f)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()
	f.layout()

	go f.read()
	return f, nil
}

// read forwards screen events to Poll until the screen is finalised or the
// frontend is closed, whichever comes first. Nobody may be draining events
// by then, so the send also watches done.
func (f *Frontend) read() {
	defer close(f.stopped)
	defer close(f.events)
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case f.events <- ev:
		case <-f.done:
			return
		}
	}
}

// NewTerminal opens the controlling terminal and wraps it.
func NewTerminal(opts ...Option) (*Frontend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, eris.Wrap(err, "open terminal")
	}
	return New(screen, opts...)
}

// Close restores the terminal and waits for the event reader to exit. It is
// safe to call more than once.
func (f *Frontend) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		f.screen.Fini()
		<-f.stopped
	})
}

// layout centres the framebuffer in the terminal.
func (f *Frontend) layout() {
	w, h := f.screen.Size()
	f.offX = max(0, (w-console.ScreenSize)/2)
	f.offY = max(0, (h-console.ScreenSize/2)/2)
}

// Poll drains pending terminal events into mem. It returns false once the
// user pressed Escape, Ctrl-C or q.
func (f *Frontend) Poll(mem *console.Memory) bool {
	for i := range f.held {
		if f.held[i] > 0 {
			f.held[i]--
		}
	}
	f.mouseButtons = 0

drain:
	for {
		select {
		case ev, ok := <-f.events:
			if !ok {
				f.quit = true
				break drain
			}
			f.handle(ev)
		default:
			break drain
		}
	}

	var pad uint8
	for i, n := range f.held {
		if n > 0 {
			pad |= 1 << i
		}
	}
	mem.Gamepads[0] = pad
	mem.MouseX, mem.MouseY = f.mouseX, f.mouseY
	mem.MouseButtons = f.mouseButtons
	return !f.quit
}

func (f *Frontend) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			f.logger.Debug().Msg("quit key")
			f.quit = true
			return
		}
		bit, ok := keyButtons[ev.Key()]
		if !ok && ev.Key() == tcell.KeyRune {
			bit, ok = runeButtons[ev.Rune()]
		}
		if ok {
			f.press(bit)
		}
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		f.mouseX = int16(cx - f.offX)
		f.mouseY = int16((cy - f.offY) * 2)
		btn := ev.Buttons()
		if btn&tcell.ButtonPrimary != 0 {
			f.mouseButtons |= console.MouseLeft
		}
		if btn&tcell.ButtonSecondary != 0 {
			f.mouseButtons |= console.MouseRight
		}
		if btn&tcell.ButtonMiddle != 0 {
			f.mouseButtons |= console.MouseMiddle
		}
	case *tcell.EventResize:
		f.layout()
		f.screen.Clear()
		f.screen.Sync()
	}
}

func (f *Frontend) press(bit uint8) {
	for i := 0; i < 8; i++ {
		if bit&(1<<i) != 0 {
			f.held[i] = f.hold
		}
	}
}

// Present draws the framebuffer, clipped to the terminal.
func (f *Frontend) Present(mem *console.Memory) error {
	var styles [4][4]tcell.Style
	for top := range styles {
		r, g, b := mem.RGB(uint8(top))
		fg := tcell.NewRGBColor(int32(r), int32(g), int32(b))
		for bottom := range styles[top] {
			r, g, b := mem.RGB(uint8(bottom))
			styles[top][bottom] = tcell.StyleDefault.
				Foreground(fg).
				Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		}
	}

	w, h := f.screen.Size()
	for cy := 0; cy < console.ScreenSize/2 && f.offY+cy < h; cy++ {
		for x := 0; x < console.ScreenSize && f.offX+x < w; x++ {
			top := mem.PixelAt(x, cy*2)
			bottom := mem.PixelAt(x, cy*2+1)
			f.screen.SetContent(f.offX+x, f.offY+cy, halfBlock, nil, styles[top][bottom])
		}
	}
	f.screen.Show()
	return nil
}
