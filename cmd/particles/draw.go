package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/particle"
)

// launcherAlpha is the opacity of launcher outlines.
const launcherAlpha = 0.7

var (
	backgroundColor = color.RGBA{R: 60, G: 110, B: 60, A: 255}
	brickColor      = color.RGBA{R: 150, G: 75, B: 50, A: 255}
	mortarColor     = color.RGBA{R: 90, G: 45, B: 30, A: 255}
	emitterColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	launcherColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// fade scales a color by a (premultiplied alpha).
func fade(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, width float32, c color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), width, c, false)
}

// Draw renders platforms, emitters and particles.
func (g *ViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, p := range g.scene.Platforms() {
		for _, b := range p.Blocks() {
			fillRect(screen, b, brickColor)
			strokeRect(screen, b, 1, mortarColor)
		}
	}

	g.scene.EachEmitter(func(_ string, e *emitter.Emitter) {
		drawEmitter(screen, e)
	})

	g.drawUI(screen)
}

func drawEmitter(screen *ebiten.Image, e *emitter.Emitter) {
	// 粒子始终绘制，与发射器可见性无关
	e.EachParticle(func(p *particle.Particle) {
		if !p.Visible() {
			return
		}
		box := p.Box()
		r := float32(box.Dx()) / 2
		if r < 1 {
			r = 1
		}
		pos := p.Position()
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), r, p.Tint(), true)
	})

	if e.LauncherVisible() {
		drawLauncher(screen, e)
	}

	// 形状发射器的占位图像只随轮廓一起显示
	_, point := e.Sampler().(emitter.Point)
	if e.Drawn() && (point || e.LauncherVisible()) {
		fillRect(screen, e.Box(), emitterColor)
		strokeRect(screen, e.Box(), 1, mortarColor)
	}
}

// drawLauncher outlines the launch area of the emitter sampler.
func drawLauncher(screen *ebiten.Image, e *emitter.Emitter) {
	c := fade(launcherColor, launcherAlpha)

	switch s := e.Sampler().(type) {
	case *emitter.Circle:
		center := s.Center()
		vector.StrokeCircle(screen, float32(center.X), float32(center.Y), float32(s.Radius()), 2, c, true)
		chord := s.Chord()
		strokeRect(screen, image.Rect(
			int(center.X)-chord.X, int(center.Y)-chord.Y,
			int(center.X)+chord.X, int(center.Y)+chord.Y,
		), 1, fade(e.Color(), launcherAlpha))
	case *emitter.Rect:
		fillRect(screen, s.Bounds(), fade(e.Color(), launcherAlpha*0.3))
		strokeRect(screen, s.Bounds(), 2, c)
	case *emitter.Line:
		p1, p2 := s.Endpoints()
		w := float32(s.Width())
		if w < 1 {
			w = 1
		}
		vector.StrokeLine(screen, float32(p1.X), float32(p1.Y), float32(p2.X), float32(p2.Y), w, c, true)
	}
}

func (g *ViewerGame) drawUI(screen *ebiten.Image) {
	st := g.scene.Stats()

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %0.1f  FPS: %0.1f", ebiten.ActualTPS(), ebiten.ActualFPS()), 40, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Emitters: %d  Particles: %d  Launched: %d", st.Emitters, st.Particles, st.Launched), 40, 30)
	if g.statusMessage != "" {
		ebitenutil.DebugPrintAt(screen, g.statusMessage, 40, 50)
	}

	controls := "1-9 Toggle  Space Launchers  Click Explode  WASD/J/L Line  P Pause  Q Quit"
	ebitenutil.DebugPrintAt(screen, controls, 40, g.height-20)

	if st.Paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.width/2-20, g.height/2)
	}
}
