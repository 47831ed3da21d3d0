// Package smiley is the raining smileys demo cart: a screen full of bouncing
// 8x8 smileys, each replaced by a fresh random one after a few seconds.
// Holding button 1 switches the draw colour.
package smiley

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/kecil"
	"github.com/edwinsyarief/kecil/console"
)

const (
	ballSize = 8

	// countdowns are drawn from [minCountdown, minCountdown+countdownSpread)
	minCountdown    = 3 * 60
	countdownSpread = 3 * 60

	drawColorNormal  = 2
	drawColorPressed = 4

	greeting = "Hello from Go!"
	prompt   = "Press X to blink"
)

var sprite = [8]byte{
	0b11000011,
	0b10000001,
	0b00100100,
	0b00100100,
	0b00000000,
	0b00100100,
	0b10011001,
	0b11000011,
}

// Game owns the world and implements console.Cart.
type Game struct {
	world  *kecil.World
	logger zerolog.Logger

	kinematics *kecil.Store[Kinematics]
	physics    *kecil.Store[Physics]
	raining    *kecil.Store[Raining]

	falling *kecil.Filter2[Kinematics, Physics]
	moving  *kecil.Filter[Kinematics]
	timers  *kecil.Filter[Raining]
	sprites *kecil.Filter[Kinematics]
}

// New builds the world, registers the systems and spawns cfg.Balls balls.
func New(mem *console.Memory, cfg Config, logger zerolog.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		world:  kecil.NewWorld(kecil.WithLogger(logger)),
		logger: logger,
	}
	var err error
	if g.kinematics, err = kecil.RegisterComponent[Kinematics](g.world); err != nil {
		return nil, err
	}
	if g.physics, err = kecil.RegisterComponent[Physics](g.world); err != nil {
		return nil, err
	}
	if g.raining, err = kecil.RegisterComponent[Raining](g.world); err != nil {
		return nil, err
	}
	g.falling = kecil.NewFilter2(g.kinematics, g.physics)
	g.moving = kecil.NewFilter(g.kinematics)
	g.timers = kecil.NewFilter(g.raining)
	g.sprites = kecil.NewFilter(g.kinematics)

	res := g.world.Resources()
	if _, err := res.Add(NewRng(cfg.Seed)); err != nil {
		return nil, eris.Wrap(err, "add rng resource")
	}
	if _, err := res.Add(&Screen{Mem: mem}); err != nil {
		return nil, eris.Wrap(err, "add screen resource")
	}

	if err := kecil.Subscribe(g.world.Events(), g.respawn); err != nil {
		return nil, eris.Wrap(err, "subscribe to despawns")
	}
	if err := g.world.RegisterSystems(
		g.hudSystem,
		g.physicsSystem,
		g.kinematicsSystem,
		g.rainSystem,
		g.drawSystem,
	); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Balls; i++ {
		if err := g.spawnBall(); err != nil {
			return nil, eris.Wrapf(err, "spawn ball %d", i)
		}
	}
	logger.Info().Uint64("seed", cfg.Seed).Int("balls", cfg.Balls).Msg("smiley cart ready")
	g.world.LogState(zerolog.DebugLevel)
	return g, nil
}

// Update runs one frame. System errors are logged, the cart keeps running.
func (g *Game) Update() {
	if err := g.world.Update(); err != nil {
		g.logger.Error().Err(err).Uint64("frame", g.world.Frame()).Msg("frame failed")
	}
}

// World exposes the cart's world for inspection.
func (g *Game) World() *kecil.World {
	return g.world
}

// spawnBall adds one ball with random position, velocity, bounce and lifetime.
func (g *Game) spawnBall() error {
	rng, _ := kecil.GetResource[Rng](g.world.Resources())
	e, err := g.world.Spawn()
	if err != nil {
		return err
	}
	k := Kinematics{
		X:  rng.Range(0, 120),
		Y:  rng.Range(0, 50),
		VX: rng.Range(-2.5, 2.5),
		VY: rng.Range(-2.5, 2.5),
	}
	p := Physics{
		Elasticity:  rng.Range(0.6, 0.85),
		GravityMult: rng.Range(0.18, 0.2),
		W:           ballSize,
		H:           ballSize,
	}
	r := Raining{Countdown: minCountdown + rng.IntN(countdownSpread)}
	if err := g.kinematics.Insert(e, k); err != nil {
		return err
	}
	if err := g.physics.Insert(e, p); err != nil {
		return err
	}
	return g.raining.Insert(e, r)
}

// respawn replaces every ball the rain system retired.
func (g *Game) respawn(ev kecil.Despawned) {
	if err := g.spawnBall(); err != nil {
		g.logger.Warn().Err(err).Str("replacing", ev.Entity.String()).Msg("respawn failed")
	}
}
