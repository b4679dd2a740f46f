// Package main runs the particle scene in a terminal.
//
// Usage:
//
//	go run ./cmd/particles-tty [--config settings.yaml] [--scene scene.yaml] [--log viewer.log]
//
// Controls:
//
//	1-9      - Toggle the emitter bound to the key
//	space    - Show/hide launcher outlines
//	e        - Explosion at screen center
//	click    - Explosion at the clicked cell
//	p        - Toggle pause
//	q/Esc    - Quit
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/internal/logging"
	"github.com/decker502/particlelab/pkg/config"
	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/particle"
	"github.com/decker502/particlelab/pkg/rng"
	"github.com/decker502/particlelab/pkg/scene"
)

var (
	configFlag = flag.String("config", "", "Settings file path")
	sceneFlag  = flag.String("scene", "", "Scene file path (default: embedded demo scene)")
	logFlag    = flag.String("log", "", "Write logs to this file (terminal output is reserved for the scene)")
)

var (
	platformStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 75, 50))
	emitterStyle  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	launcherStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Dim(true)
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Viewer draws a scene onto a terminal grid. Scene pixels are scaled to the
// current terminal size.
type Viewer struct {
	screen tcell.Screen
	scene  *scene.Scene
	logger zerolog.Logger

	toggles map[rune]string
	dt      time.Duration

	// 上一次鼠标事件的按键状态，按下沿才触发爆炸
	prevButtons tcell.ButtonMask

	cols, rows int
	status     string
}

// NewViewer builds the scene described by settings on an initialized screen.
func NewViewer(screen tcell.Screen, settings *config.Settings, logger zerolog.Logger) (*Viewer, error) {
	cfg, err := settings.LoadScene()
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rng.New(seed)

	s, err := config.Build(cfg, src, logger)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		screen:  screen,
		scene:   s,
		logger:  logger,
		toggles: make(map[rune]string),
		dt:      time.Second / time.Duration(settings.TPS),
		status:  "1-9 toggle  space launchers  e/click explode  p pause  q quit",
	}
	for k, name := range cfg.KeyBindings() {
		if r := []rune(k); len(r) == 1 {
			v.toggles[r[0]] = name
		}
	}
	v.cols, v.rows = screen.Size()
	return v, nil
}

// toCell maps scene pixels to a terminal cell.
func (v *Viewer) toCell(x, y float64) (int, int) {
	w, h := v.scene.Size()
	if w <= 0 || h <= 0 {
		return int(x), int(y)
	}
	return int(x * float64(v.cols) / float64(w)), int(y * float64(v.rows) / float64(h))
}

// toScene maps a terminal cell to the scene pixel at its center.
func (v *Viewer) toScene(col, row int) (float64, float64) {
	w, h := v.scene.Size()
	return (float64(col) + 0.5) * float64(w) / float64(v.cols), (float64(row) + 0.5) * float64(h) / float64(v.rows)
}

func (v *Viewer) explode(x, y float64) {
	ok, err := v.scene.Explode(x, y, v.scene.ExplosionSize())
	switch {
	case err != nil:
		v.status = err.Error()
	case !ok:
		v.status = "blocked by platform"
	default:
		v.status = fmt.Sprintf("boom at (%.0f, %.0f)", x, y)
	}
}

// handleEvent returns false when the viewer should exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}

		r := ev.Rune()
		switch r {
		case 'q':
			return false
		case 'p':
			v.scene.TogglePause()
			return true
		}
		if v.scene.Paused() {
			return true
		}

		switch r {
		case ' ':
			v.scene.ToggleLaunchers()
		case 'e':
			w, h := v.scene.Size()
			v.explode(float64(w)/2, float64(h)/2)
		default:
			if name, ok := v.toggles[r]; ok {
				if err := v.scene.Toggle(name); err != nil {
					v.status = err.Error()
				} else {
					v.status = "toggled " + name
				}
			}
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && v.prevButtons&tcell.Button1 == 0
		v.prevButtons = buttons
		if pressed && !v.scene.Paused() {
			col, row := ev.Position()
			v.explode(v.toScene(col, row))
		}

	case *tcell.EventResize:
		v.cols, v.rows = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) draw() {
	v.screen.Clear()

	for _, p := range v.scene.Platforms() {
		box := p.BoundingBox()
		x0, y0 := v.toCell(float64(box.Min.X), float64(box.Min.Y))
		x1, y1 := v.toCell(float64(box.Max.X), float64(box.Max.Y))
		for y := y0; y <= max(y0, y1-1); y++ {
			for x := x0; x <= max(x0, x1-1); x++ {
				v.screen.SetContent(x, y, '▒', nil, platformStyle)
			}
		}
	}

	v.scene.EachEmitter(func(_ string, e *emitter.Emitter) {
		if e.LauncherVisible() {
			v.drawLauncher(e)
		}
		_, point := e.Sampler().(emitter.Point)
		if e.Drawn() && (point || e.LauncherVisible()) {
			a := e.Anchor()
			x, y := v.toCell(a.X, a.Y)
			v.screen.SetContent(x, y, '■', nil, emitterStyle)
		}

		e.EachParticle(func(p *particle.Particle) {
			if !p.Visible() {
				return
			}
			pos := p.Position()
			x, y := v.toCell(pos.X, pos.Y)
			c := p.Tint()
			v.screen.SetContent(x, y, '•', nil, tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
		})
	})

	st := v.scene.Stats()
	hud := fmt.Sprintf(" emitters %d  particles %d  launched %d ", st.Emitters, st.Particles, st.Launched)
	if st.Paused {
		hud += " PAUSED "
	}
	v.drawText(0, 0, hud)
	v.drawText(0, v.rows-1, " "+v.status+" ")

	v.screen.Show()
}

func (v *Viewer) drawLauncher(e *emitter.Emitter) {
	switch s := e.Sampler().(type) {
	case *emitter.Circle:
		c := s.Center()
		x, y := v.toCell(c.X, c.Y)
		v.screen.SetContent(x, y, '◯', nil, launcherStyle)
	case *emitter.Rect:
		b := s.Bounds()
		x0, y0 := v.toCell(float64(b.Min.X), float64(b.Min.Y))
		x1, y1 := v.toCell(float64(b.Max.X), float64(b.Max.Y))
		for x := x0; x <= x1; x++ {
			v.screen.SetContent(x, y0, '─', nil, launcherStyle)
			v.screen.SetContent(x, y1, '─', nil, launcherStyle)
		}
		for y := y0; y <= y1; y++ {
			v.screen.SetContent(x0, y, '│', nil, launcherStyle)
			v.screen.SetContent(x1, y, '│', nil, launcherStyle)
		}
	case *emitter.Line:
		p1, p2 := s.Endpoints()
		const steps = 64
		for i := 0; i <= steps; i++ {
			t := float64(i) / steps
			x, y := v.toCell(p1.X+(p2.X-p1.X)*t, p1.Y+(p2.Y-p1.Y)*t)
			v.screen.SetContent(x, y, '·', nil, launcherStyle)
		}
	}
}

func (v *Viewer) drawText(x, y int, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, hudStyle)
		x++
	}
}

// run drives the scene at a fixed tick until the user quits.
func (v *Viewer) run() {
	ticker := time.NewTicker(v.dt)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.scene.Update(v.dt)
			v.draw()
		}
	}
}

func openLogger(path, level string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewPlain(f, level), func() { _ = f.Close() }, nil
}

func main() {
	flag.Parse()

	settings, err := config.LoadSettings(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load settings:", err)
		os.Exit(1)
	}
	if *sceneFlag != "" {
		settings.Scene = *sceneFlag
	}

	logger, closeLog, err := openLogger(*logFlag, settings.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to init screen:", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	v, err := NewViewer(screen, settings, logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info().Int("cols", v.cols).Int("rows", v.rows).Msg("terminal viewer started")
	v.run()
	screen.Fini()
	logger.Info().Msg("terminal viewer closed")
}
