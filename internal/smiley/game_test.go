package smiley

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/kecil"
	"github.com/edwinsyarief/kecil/console"
)

func testConfig(balls int) Config {
	c := Config{Seed: 42, Balls: balls}
	c.applyDefaults()
	return c
}

func newGame(t *testing.T, balls int) (*Game, *console.Memory) {
	t.Helper()
	mem := console.NewMemory()
	g, err := New(mem, testConfig(balls), zerolog.Nop())
	require.NoError(t, err)
	return g, mem
}

func TestPopulationStaysConstant(t *testing.T) {
	g, _ := newGame(t, DefaultBalls)
	require.Equal(t, DefaultBalls, g.World().Len())

	for i := 0; i < 1000; i++ {
		g.Update()
		require.Equal(t, DefaultBalls, g.World().Len(), "frame %d", i)
		require.Equal(t, DefaultBalls, g.kinematics.Len())
		require.Equal(t, DefaultBalls, g.raining.Len())
	}
}

func TestBallsStayOnScreen(t *testing.T) {
	g, _ := newGame(t, DefaultBalls)
	for i := 0; i < 600; i++ {
		g.Update()
		f := kecil.NewFilter(g.kinematics)
		for f.Next() {
			k := f.Get()
			require.Greater(t, k.X, float32(-ballSize), "frame %d", i)
			require.Less(t, k.X, float32(console.ScreenSize+ballSize), "frame %d", i)
			require.Greater(t, k.Y, float32(-ballSize), "frame %d", i)
			require.Less(t, k.Y, float32(console.ScreenSize+ballSize), "frame %d", i)
		}
	}
}

func TestEveryBallIsEventuallyReplaced(t *testing.T) {
	g, _ := newGame(t, 16)
	var first []kecil.Entity
	f := kecil.NewFilter(g.raining)
	for f.Next() {
		first = append(first, f.Entity())
	}
	require.Len(t, first, 16)

	for i := 0; i < minCountdown+countdownSpread; i++ {
		g.Update()
	}
	for _, e := range first {
		assert.False(t, g.World().IsAlive(e), "%s outlived its countdown", e)
	}
	assert.Equal(t, 16, g.World().Len())
}

func TestSameSeedSameFrames(t *testing.T) {
	a, memA := newGame(t, 64)
	b, memB := newGame(t, 64)
	for i := 0; i < 400; i++ {
		memA.Clear()
		memB.Clear()
		a.Update()
		b.Update()
	}
	assert.Equal(t, memA.Framebuffer, memB.Framebuffer)
	assert.NotEqual(t, [console.FramebufferSize]byte{}, memA.Framebuffer)
}

func TestButtonOneSwitchesDrawColour(t *testing.T) {
	g, mem := newGame(t, 0)
	g.Update()
	assert.Equal(t, uint16(drawColorNormal), mem.DrawColors)

	mem.Gamepads[0] = console.Button1
	g.Update()
	assert.Equal(t, uint16(drawColorPressed), mem.DrawColors)
	assert.Equal(t, uint8(3), mem.PixelAt(16, 90), "prompt blinks")
	assert.Equal(t, uint8(1), mem.PixelAt(10, 10), "greeting keeps its colour")

	mem.Gamepads[0] = 0
	g.Update()
	assert.Equal(t, uint16(drawColorNormal), mem.DrawColors)
}

func TestDrawsSmileyAtBall(t *testing.T) {
	g, mem := newGame(t, 0)
	e, err := g.World().Spawn()
	require.NoError(t, err)
	// no velocity and no Physics, so it stays put
	require.NoError(t, g.kinematics.Insert(e, Kinematics{X: 20, Y: 30}))

	g.Update()
	// clear bits of the sprite use draw colour 1, palette index 1
	assert.Equal(t, uint8(0), mem.PixelAt(20, 30))
	assert.Equal(t, uint8(1), mem.PixelAt(22, 30))
	assert.Equal(t, uint8(0), mem.PixelAt(19, 30))
}

func TestEmptyCart(t *testing.T) {
	g, mem := newGame(t, 0)
	assert.Equal(t, 0, g.World().Len())
	g.Update()
	assert.Equal(t, 0, g.World().Len())
	// only the captions are drawn
	assert.Equal(t, uint8(1), mem.PixelAt(10, 10), "greeting")
	assert.Equal(t, uint8(0), mem.PixelAt(12, 10))
	assert.Equal(t, uint8(1), mem.PixelAt(16, 90), "prompt")
	assert.Equal(t, uint8(0), mem.PixelAt(80, 140))
}

func TestNewRejectsTooManyBalls(t *testing.T) {
	_, err := New(console.NewMemory(), testConfig(kecil.MaxEntities+1), zerolog.Nop())
	assert.Error(t, err)
}

func TestNewLogsSetup(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := New(console.NewMemory(), testConfig(3), logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"smiley cart ready"`)
	assert.Contains(t, buf.String(), `"message":"world state"`)
	assert.Contains(t, buf.String(), `"balls":3`)
}

func TestUpdateDoesNotAllocate(t *testing.T) {
	g, _ := newGame(t, DefaultBalls)
	g.Update()
	allocs := testing.AllocsPerRun(200, g.Update)
	assert.Zero(t, allocs)
}
