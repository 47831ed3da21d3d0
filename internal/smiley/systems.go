package smiley

import (
	"github.com/rotisserie/eris"

	"github.com/edwinsyarief/kecil"
	"github.com/edwinsyarief/kecil/console"
)

var errNoScreen = eris.New("smiley: screen resource missing")

// hudSystem draws the captions and picks the draw colour from player one's
// button 1. The prompt and the smileys drawn after it use that colour.
func (g *Game) hudSystem(w *kecil.World) error {
	screen, _ := kecil.GetResource[Screen](w.Resources())
	if screen == nil {
		return errNoScreen
	}
	mem := screen.Mem
	mem.DrawColors = drawColorNormal
	mem.Text(greeting, 10, 10)
	if mem.Gamepad(0)&console.Button1 != 0 {
		mem.DrawColors = drawColorPressed
	}
	mem.Text(prompt, 16, 90)
	return nil
}

// physicsSystem applies gravity and bounces balls off the screen edges.
func (g *Game) physicsSystem(*kecil.World) error {
	const edge = console.ScreenSize
	g.falling.Reset()
	for g.falling.Next() {
		k, p := g.falling.Get()
		k.VY += p.GravityMult

		if k.X+p.W >= edge {
			k.VX *= -p.Elasticity
			k.X = edge - p.W
		} else if k.X+k.VX < 0 {
			k.VX *= -p.Elasticity
			k.X = 0
		}

		if k.Y+p.H >= edge {
			k.VY = abs(k.VY) * -p.Elasticity
			k.Y = edge - p.H
		} else if k.Y < 0 {
			k.Y = 0
			k.VY *= -p.Elasticity
		}
	}
	return nil
}

// kinematicsSystem moves every ball by its velocity.
func (g *Game) kinematicsSystem(*kecil.World) error {
	g.moving.Reset()
	for g.moving.Next() {
		k := g.moving.Get()
		k.X += k.VX
		k.Y += k.VY
	}
	return nil
}

// rainSystem counts down each ball's lifetime and retires expired balls.
// Replacements are spawned by respawn once the despawn takes effect.
func (g *Game) rainSystem(w *kecil.World) error {
	g.timers.Reset()
	for g.timers.Next() {
		r := g.timers.Get()
		r.Countdown--
		if r.Countdown > 0 {
			continue
		}
		if err := w.Despawn(g.timers.Entity()); err != nil {
			return eris.Wrapf(err, "retire %s", g.timers.Entity())
		}
	}
	return nil
}

// drawSystem blits a smiley at every ball.
func (g *Game) drawSystem(w *kecil.World) error {
	screen, _ := kecil.GetResource[Screen](w.Resources())
	if screen == nil {
		return errNoScreen
	}
	g.sprites.Reset()
	for g.sprites.Next() {
		k := g.sprites.Get()
		screen.Mem.Blit(sprite[:], int(k.X), int(k.Y), ballSize, ballSize, console.Blit1BPP)
	}
	return nil
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
