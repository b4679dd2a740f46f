// Package main is the interactive particle viewer.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <path>   Settings file (yaml/json/toml), optional
//	--scene <path>    Scene file, overrides the settings value
//	--seed <n>        Random seed, overrides the settings value (0 = time based)
//
// Controls:
//
//	1-9               - Toggle the emitter bound to the key
//	Space             - Show/hide launcher outlines
//	Click/Touch       - Explosion at pointer position
//	W/A/S/D           - Move the line launcher
//	J/L               - Rotate the line launcher
//	P                 - Toggle pause
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/internal/logging"
	"github.com/decker502/particlelab/pkg/config"
	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/rng"
	"github.com/decker502/particlelab/pkg/scene"
)

var (
	configFlag = flag.String("config", "", "Settings file path")
	sceneFlag  = flag.String("scene", "", "Scene file path (default: embedded demo scene)")
	seedFlag   = flag.Uint64("seed", 0, "Random seed (0 = settings value or time based)")
)

var errQuit = errors.New("quit requested")

// ViewerGame implements ebiten.Game for a scene.
type ViewerGame struct {
	scene  *scene.Scene
	logger zerolog.Logger

	width, height int
	dt            time.Duration

	// 数字键 -> 发射器名称
	toggles map[ebiten.Key]string
	// 响应 WASD/J/L 的线形发射器
	lineName string

	statusMessage string
}

// NewViewerGame builds the scene described by settings.
func NewViewerGame(settings *config.Settings, logger zerolog.Logger) (*ViewerGame, error) {
	cfg, err := settings.LoadScene()
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info().Uint64("seed", seed).Msg("seeding random source")
	src := rng.New(seed)
	rng.SetDefault(src)

	s, err := config.Build(cfg, src, logger)
	if err != nil {
		return nil, err
	}

	g := &ViewerGame{
		scene:   s,
		logger:  logger,
		width:   settings.Window.Width,
		height:  settings.Window.Height,
		dt:      time.Second / time.Duration(settings.TPS),
		toggles: make(map[ebiten.Key]string),
	}

	for k, name := range cfg.KeyBindings() {
		key, ok := digitKey(k)
		if !ok {
			logger.Warn().Str("key", k).Str("emitter", name).Msg("only digit keys can toggle emitters")
			continue
		}
		g.toggles[key] = name
	}
	for _, ec := range cfg.Emitters {
		if ec.Kind == config.KindLine {
			g.lineName = ec.Name
			break
		}
	}

	g.statusMessage = "Press 1-9 to toggle emitters, Space for launchers"
	return g, nil
}

func digitKey(s string) (ebiten.Key, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	return ebiten.Key0 + ebiten.Key(s[0]-'0'), true
}

// Update handles input and advances the scene by one tick.
func (g *ViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.scene.TogglePause() {
			g.statusMessage = "PAUSED - Press P to resume"
		} else {
			g.statusMessage = "Resumed"
		}
	}

	// 暂停时不处理输入
	if g.scene.Paused() {
		return nil
	}

	if pressed, x, y := pointerJustPressed(); pressed {
		g.explode(float64(x), float64(y))
	}

	for key, name := range g.toggles {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.scene.Toggle(name); err != nil {
				// 发射器已结束并被移除
				g.statusMessage = fmt.Sprintf("%s: %v", name, err)
				continue
			}
			g.statusMessage = "Toggled: " + name
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.scene.ToggleLaunchers() {
			g.statusMessage = "Launchers shown"
		} else {
			g.statusMessage = "Launchers hidden"
		}
	}

	g.commandLine()

	x, y := pointerPosition()
	g.scene.MoveFollower(float64(x), float64(y))

	g.scene.Update(g.dt)
	return nil
}

func (g *ViewerGame) explode(x, y float64) {
	ok, err := g.scene.Explode(x, y, g.scene.ExplosionSize())
	switch {
	case err != nil:
		g.logger.Error().Err(err).Msg("explosion failed")
		g.statusMessage = fmt.Sprintf("Error: %v", err)
	case !ok:
		g.statusMessage = "Cannot explode inside a platform"
	default:
		g.statusMessage = fmt.Sprintf("Explosion at (%.0f, %.0f)", x, y)
	}
}

// commandLine moves and rotates the line launcher while keys are held.
func (g *ViewerGame) commandLine() {
	if g.lineName == "" {
		return
	}

	var dx, dy, dAngle float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dy -= emitter.LineStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dy += emitter.LineStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= emitter.LineStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += emitter.LineStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyJ) {
		dAngle--
	}
	if ebiten.IsKeyPressed(ebiten.KeyL) {
		dAngle++
	}
	if dx == 0 && dy == 0 && dAngle == 0 {
		return
	}

	if err := g.scene.Command(g.lineName, dx, dy, dAngle); err != nil {
		g.lineName = ""
		g.logger.Debug().Err(err).Msg("line launcher gone")
	}
}

// Layout returns the logical screen size.
func (g *ViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
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
	if *seedFlag != 0 {
		settings.Seed = *seedFlag
	}

	logger := logging.New(os.Stderr, settings.LogLevel)
	logger.Info().Str("scene", settings.Scene).Int("tps", settings.TPS).Msg("particle viewer starting")

	game, err := NewViewerGame(settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize viewer")
	}

	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowTitle("Particle Lab")
	ebiten.SetTPS(settings.TPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal().Err(err).Msg("viewer stopped")
	}

	logger.Info().Msg("particle viewer closed")
}
