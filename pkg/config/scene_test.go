package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/particle"
	"github.com/decker502/particlelab/pkg/rng"
)

const sceneHeader = `
screen: {width: 1000, height: 740}
brick: {width: 100, height: 116}
particle: {width: 32, height: 32}
explosion: {particles: 100}
platforms:
  - {name: leftWall, bricks: 26, scale: 0.25}
  - {name: rightWall, bricks: 26, scale: 0.25, alignRight: true}
`

func TestLoadSceneConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SceneConfig)
	}{
		{
			name: "valid spout",
			yamlContent: sceneHeader + `
emitters:
  - name: spout
    key: "1"
    image: {width: 40, height: 40, scale: 0.5}
    position: [45, 90]
    budget: -1
    interval: "[10 30]"
    scale: "[0.2 0.4]"
    life: 2500
    angle: [0, 20]
    speed: "[250 350]"
    forces: [gravity, wind]
    extraForce: [0, -1]
    rebound: rubber
    color: "#102030"
    collide: true
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				if len(cfg.Emitters) != 1 {
					t.Fatalf("expected 1 emitter, got %d", len(cfg.Emitters))
				}
				p, err := cfg.EmitterParams(cfg.Emitters[0])
				if err != nil {
					t.Fatalf("EmitterParams failed: %v", err)
				}
				if p.Interval != (emitter.IntRange{Min: 10, Max: 30}) {
					t.Errorf("expected interval [10 30], got %v", p.Interval)
				}
				if p.Life != (emitter.IntRange{Min: 2500, Max: 2500}) {
					t.Errorf("expected fixed life 2500, got %v", p.Life)
				}
				if p.Angle != (emitter.IntRange{Min: 0, Max: 20}) {
					t.Errorf("expected angle [0 20], got %v", p.Angle)
				}
				if want := geom.V(2, 8.8); p.Forces.Sub(want).Len() > 1e-9 {
					t.Errorf("expected forces %v, got %v", want, p.Forces)
				}
				if p.Rebound != particle.RubberBall {
					t.Errorf("expected rubber rebound, got %v", p.Rebound)
				}
				if p.Color != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
					t.Errorf("unexpected color %v", p.Color)
				}
				if p.ParticleWidth != 32 || p.ParticleHeight != 32 {
					t.Errorf("expected scene particle size, got %dx%d", p.ParticleWidth, p.ParticleHeight)
				}
				if !p.HasImage() {
					t.Error("expected placeholder image")
				}
				if got := cfg.KeyBindings()["1"]; got != "spout" {
					t.Errorf("expected key 1 bound to spout, got %q", got)
				}
			},
		},
		{
			name: "burst ignores interval",
			yamlContent: sceneHeader + `
emitters:
  - name: bang
    position: [500, 300]
    budget: 20
    burst: true
    interval: "[10 30]"
    particle: {width: 8, height: 8}
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				p, _ := cfg.EmitterParams(cfg.Emitters[0])
				if !p.Burst() {
					t.Error("expected burst params")
				}
				if p.ParticleWidth != 8 {
					t.Errorf("expected per-emitter particle width 8, got %d", p.ParticleWidth)
				}
			},
		},
		{
			name: "degenerate geometry is accepted",
			yamlContent: sceneHeader + `
emitters:
  - {name: dot, kind: circle, position: [500, 300]}
  - {name: seam, kind: line, position: [500, 300]}
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Emitters[0].Radius != 0 || cfg.Emitters[1].Length != 0 {
					t.Errorf("expected zero-sized shapes, got radius %d length %d", cfg.Emitters[0].Radius, cfg.Emitters[1].Length)
				}
			},
		},
		{
			name:        "missing screen",
			yamlContent: `brick: {width: 1, height: 1}`,
			wantErr:     true,
			errContains: "screen size must be positive",
		},
		{
			name: "zero platform scale",
			yamlContent: sceneHeader + `
  - {name: broken, bricks: 2, scale: 0}
`,
			wantErr:     true,
			errContains: "platform 2 (broken): scale must be > 0",
		},
		{
			name: "duplicate emitter name",
			yamlContent: sceneHeader + `
emitters:
  - {name: a, position: [1, 1]}
  - {name: a, position: [2, 2]}
`,
			wantErr:     true,
			errContains: `duplicate emitter name "a"`,
		},
		{
			name: "duplicate key",
			yamlContent: sceneHeader + `
emitters:
  - {name: a, key: "1", position: [1, 1]}
  - {name: b, key: "1", position: [2, 2]}
`,
			wantErr:     true,
			errContains: `key "1" already bound to "a"`,
		},
		{
			name: "unknown kind",
			yamlContent: sceneHeader + `
emitters:
  - {name: blob, kind: blob, position: [1, 1]}
`,
			wantErr:     true,
			errContains: `emitter "blob": unknown kind "blob"`,
		},
		{
			name: "negative circle radius",
			yamlContent: sceneHeader + `
emitters:
  - {name: c, kind: circle, position: [1, 1], radius: -5}
`,
			wantErr:     true,
			errContains: "circle radius must be >= 0",
		},
		{
			name: "rect with one dimension",
			yamlContent: sceneHeader + `
emitters:
  - {name: r, kind: rect, position: [1, 1], size: [10]}
`,
			wantErr:     true,
			errContains: "rect size must be two values >= 0",
		},
		{
			name: "budget too large",
			yamlContent: sceneHeader + `
emitters:
  - {name: big, position: [1, 1], budget: 6000}
`,
			wantErr:     true,
			errContains: "particle budget exceeds maximum",
		},
		{
			name: "infinite burst",
			yamlContent: sceneHeader + `
emitters:
  - {name: forever, position: [1, 1], budget: -1, burst: true}
`,
			wantErr:     true,
			errContains: `emitter "forever": burst emitter cannot have an infinite budget`,
		},
		{
			name: "unknown force",
			yamlContent: sceneHeader + `
emitters:
  - {name: f, position: [1, 1], forces: [magnetism]}
`,
			wantErr:     true,
			errContains: `unknown force "magnetism"`,
		},
		{
			name: "bad range syntax",
			yamlContent: sceneHeader + `
emitters:
  - {name: s, position: [1, 1], speed: "[1 2"}
`,
			wantErr:     true,
			errContains: "failed to parse scene YAML",
		},
		{
			name: "bad rebound preset",
			yamlContent: sceneHeader + `
emitters:
  - {name: s, position: [1, 1], rebound: jelly}
`,
			wantErr:     true,
			errContains: `unknown rebound "jelly"`,
		},
		{
			name: "missing position",
			yamlContent: sceneHeader + `
emitters:
  - {name: nowhere}
`,
			wantErr:     true,
			errContains: "position must have 2 values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "scene.yaml")
			if err := os.WriteFile(tmpFile, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to create temp file: %v", err)
			}

			cfg, err := LoadSceneConfig(tmpFile)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got nil")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadSceneConfig_MissingFile(t *testing.T) {
	_, err := LoadSceneConfig("/nonexistent/scene.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "white", want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: " Blue ", want: color.RGBA{B: 255, A: 255}},
		{in: "#ff8000", want: color.RGBA{R: 255, G: 128, A: 255}},
		{in: "#ff800080", want: color.RGBA{R: 255, G: 128, A: 128}},
		{in: "ff8000", wantErr: true},
		{in: "#ff80", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "chartreuse", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSceneConfig(t *testing.T) {
	cfg, err := DefaultSceneConfig()
	if err != nil {
		t.Fatalf("embedded scene must be valid: %v", err)
	}

	if cfg.Screen.Width != 1000 || cfg.Screen.Height != 740 {
		t.Errorf("expected 1000x740 screen, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}

	keys := cfg.KeyBindings()
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		if keys[k] == "" {
			t.Errorf("key %s is not bound", k)
		}
	}
	if keys["9"] != "cloud" {
		t.Errorf("expected key 9 bound to cloud, got %q", keys["9"])
	}
}

func TestBuildPlatforms_Alignment(t *testing.T) {
	cfg, err := DefaultSceneConfig()
	if err != nil {
		t.Fatal(err)
	}

	platforms := cfg.BuildPlatforms()
	if len(platforms) != len(cfg.Platforms) {
		t.Fatalf("expected %d platforms, got %d", len(cfg.Platforms), len(platforms))
	}

	// 右墙贴右边缘：100 * 0.25 = 25 像素宽
	right := platforms[1].BoundingBox()
	if right.Min.X != 975 || right.Max.X != 1000 {
		t.Errorf("right wall x range = [%d %d], want [975 1000]", right.Min.X, right.Max.X)
	}

	// 地板贴下边缘
	floor := platforms[2].BoundingBox()
	if floor.Min.Y != 624 || floor.Max.Y != 740 {
		t.Errorf("floor y range = [%d %d], want [624 740]", floor.Min.Y, floor.Max.Y)
	}
	if floor.Dx() != 1000 {
		t.Errorf("floor width = %d, want 1000", floor.Dx())
	}
}

func TestBuild_DefaultScene(t *testing.T) {
	cfg, err := DefaultSceneConfig()
	if err != nil {
		t.Fatal(err)
	}

	s, err := Build(cfg, rng.New(42), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := s.Stats().Emitters; got != len(cfg.Emitters) {
		t.Errorf("expected %d emitters, got %d", len(cfg.Emitters), got)
	}

	cloud, ok := s.Emitter("cloud")
	if !ok {
		t.Fatal("cloud emitter missing")
	}
	if _, drifting := cloud.Motion().(*emitter.Drift); !drifting {
		t.Error("cloud should drift")
	}
	if _, circle := cloud.Sampler().(*emitter.Circle); !circle {
		t.Error("cloud should sample a circle")
	}

	line, _ := s.Emitter("line")
	if _, ok := line.Sampler().(*emitter.Line); !ok {
		t.Error("line emitter should sample a line")
	}

	spout, _ := s.Emitter("leftSpout")
	if spout.Running() || spout.State() != emitter.Inactive {
		t.Errorf("spouts start stopped and inactive, got running=%v state=%v", spout.Running(), spout.State())
	}

	mouse, _ := s.Emitter("mouse")
	if !mouse.Running() {
		t.Error("emitters without an image start running")
	}
	s.MoveFollower(10, 20)
	if mouse.Anchor() != geom.V(10, 20) {
		t.Errorf("mouse emitter should follow the cursor, got %v", mouse.Anchor())
	}
}
