package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/particlelab/internal/rangeval"
	"github.com/decker502/particlelab/pkg/emitter"
	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/particle"
)

//go:embed default_scene.yaml
var defaultSceneYAML []byte

// Emitter kinds accepted in scene files.
const (
	KindPoint  = "point"
	KindCircle = "circle"
	KindRect   = "rect"
	KindLine   = "line"
	KindCloud  = "cloud"
)

// SceneConfig 场景配置：屏幕、平台和发射器
type SceneConfig struct {
	Screen    SizeConfig       `yaml:"screen"`    // 窗口尺寸
	Brick     SizeConfig       `yaml:"brick"`     // 砖块原始尺寸
	Particle  SizeConfig       `yaml:"particle"`  // 粒子图像默认尺寸
	Explosion ExplosionConfig  `yaml:"explosion"` // 点击爆炸
	Platforms []PlatformConfig `yaml:"platforms"`
	Emitters  []EmitterConfig  `yaml:"emitters"`
}

// SizeConfig is a width/height pair in pixels.
type SizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ExplosionConfig 点击爆炸配置
type ExplosionConfig struct {
	Particles int `yaml:"particles"` // 每次爆炸的粒子数
}

// PlatformConfig 平台配置
type PlatformConfig struct {
	Name        string  `yaml:"name"`
	Bricks      int     `yaml:"bricks"` // 砖块数量
	Scale       float64 `yaml:"scale"`  // 砖块缩放
	X           int     `yaml:"x"`
	Y           int     `yaml:"y"`
	Horizontal  bool    `yaml:"horizontal"`  // true: 水平排列; false: 垂直排列
	AlignRight  bool    `yaml:"alignRight"`  // 贴右边缘，忽略 x
	AlignBottom bool    `yaml:"alignBottom"` // 贴下边缘，忽略 y
}

// ImageConfig is the placeholder drawn at an emitter anchor.
type ImageConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// EmitterConfig 发射器配置
type EmitterConfig struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`         // point, circle, rect, line, cloud
	Key          string `yaml:"key"`          // 开关按键，"1".."9"
	Launcher     bool   `yaml:"launcher"`     // 随发射器轮廓显示切换
	FollowCursor bool   `yaml:"followCursor"` // 跟随鼠标

	Image    ImageConfig `yaml:"image"`
	Position []float64   `yaml:"position"` // [x, y]
	Budget   int         `yaml:"budget"`   // -1 表示无限

	Interval rangeval.Range `yaml:"interval"` // 毫秒
	Burst    bool           `yaml:"burst"`    // 一次发射全部粒子

	Particle SizeConfig     `yaml:"particle"` // 为空时使用场景默认值
	Scale    rangeval.Range `yaml:"scale"`
	Life     rangeval.Range `yaml:"life"`  // 毫秒
	Angle    rangeval.Range `yaml:"angle"` // 度
	Speed    rangeval.Range `yaml:"speed"`

	Forces     []string  `yaml:"forces"`     // gravity, wind
	ExtraForce []float64 `yaml:"extraForce"` // [x, y]，与 forces 叠加
	Rebound    Rebound   `yaml:"rebound"`
	Color      Color     `yaml:"color"`
	Collide    bool      `yaml:"collide"`
	Fade       bool      `yaml:"fade"`

	// 形状参数
	Radius     int            `yaml:"radius"`     // circle, cloud
	Size       []int          `yaml:"size"`       // rect: [w, h]
	Length     int            `yaml:"length"`     // line
	LineWidth  int            `yaml:"lineWidth"`  // line
	CloudSpeed rangeval.Range `yaml:"cloudSpeed"` // cloud，像素/帧
}

// Rebound is a rebound coefficient written as a number or a preset name
// (rubber, bowling, splat).
type Rebound float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rebound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: rebound must be a number or a preset name", node.Line)
	}

	switch strings.ToLower(node.Value) {
	case "rubber":
		*r = particle.RubberBall
	case "bowling":
		*r = particle.BowlingBall
	case "splat":
		*r = particle.SplatBall
	default:
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: unknown rebound %q", node.Line, node.Value)
		}
		*r = Rebound(v)
	}
	return nil
}

var namedColors = map[string]color.RGBA{
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"black":  {A: 255},
	"red":    {R: 255, A: 255},
	"green":  {G: 255, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
	"orange": {R: 255, G: 165, A: 255},
	"grey":   {R: 128, G: 128, B: 128, A: 255},
	"gray":   {R: 128, G: 128, B: 128, A: 255},
}

// Color is a particle tint written as "#rrggbb", "#rrggbbaa" or a color name.
type Color color.RGBA

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", node.Line)
	}
	parsed, err := ParseColor(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = Color(parsed)
	return nil
}

// ParseColor parses a hex color or a color name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// LoadSceneConfig 从 YAML 文件加载场景配置
func LoadSceneConfig(filePath string) (*SceneConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig 解析并验证 YAML 场景配置
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var config SceneConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	return &config, nil
}

// DefaultSceneConfig returns the embedded demo scene.
func DefaultSceneConfig() (*SceneConfig, error) {
	return ParseSceneConfig(defaultSceneYAML)
}

// Validate 验证配置的有效性
func (c *SceneConfig) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Brick.Width <= 0 || c.Brick.Height <= 0 {
		return fmt.Errorf("brick size must be positive, got %dx%d", c.Brick.Width, c.Brick.Height)
	}
	if c.Explosion.Particles < 0 || c.Explosion.Particles > emitter.MaxParticles {
		return fmt.Errorf("explosion.particles must be between 0 and %d, got %d", emitter.MaxParticles, c.Explosion.Particles)
	}

	for i, p := range c.Platforms {
		if p.Scale <= 0 {
			return fmt.Errorf("platform %d (%s): scale must be > 0, got %v", i, p.Name, p.Scale)
		}
	}

	names := make(map[string]bool, len(c.Emitters))
	keys := make(map[string]string)
	for _, ec := range c.Emitters {
		if ec.Name == "" {
			return fmt.Errorf("emitter name cannot be empty")
		}
		if names[ec.Name] {
			return fmt.Errorf("duplicate emitter name %q", ec.Name)
		}
		names[ec.Name] = true

		if ec.Key != "" {
			if other, taken := keys[ec.Key]; taken {
				return fmt.Errorf("emitter %q: key %q already bound to %q", ec.Name, ec.Key, other)
			}
			keys[ec.Key] = ec.Name
		}

		if err := c.validateEmitter(ec); err != nil {
			return fmt.Errorf("emitter %q: %w", ec.Name, err)
		}
	}

	return nil
}

func (c *SceneConfig) validateEmitter(ec EmitterConfig) error {
	if len(ec.Position) != 2 {
		return fmt.Errorf("position must have 2 values, got %d", len(ec.Position))
	}
	if ec.ExtraForce != nil && len(ec.ExtraForce) != 2 {
		return fmt.Errorf("extraForce must have 2 values, got %d", len(ec.ExtraForce))
	}

	switch ec.Kind {
	case "", KindPoint:
	case KindCircle:
		if ec.Radius < 0 {
			return fmt.Errorf("circle radius must be >= 0, got %d", ec.Radius)
		}
	case KindCloud:
		if ec.Radius < 0 {
			return fmt.Errorf("cloud radius must be >= 0, got %d", ec.Radius)
		}
		if ec.CloudSpeed.Min > ec.CloudSpeed.Max {
			return fmt.Errorf("cloudSpeed %v: %w", ec.CloudSpeed, emitter.ErrInvalidRange)
		}
	case KindRect:
		if len(ec.Size) != 2 || ec.Size[0] < 0 || ec.Size[1] < 0 {
			return fmt.Errorf("rect size must be two values >= 0, got %v", ec.Size)
		}
	case KindLine:
		if ec.Length < 0 || ec.LineWidth < 0 {
			return fmt.Errorf("line length and width must be >= 0, got %d and %d", ec.Length, ec.LineWidth)
		}
	default:
		return fmt.Errorf("unknown kind %q", ec.Kind)
	}

	p, err := c.EmitterParams(ec)
	if err != nil {
		return err
	}
	return p.Validate()
}

// EmitterParams converts an emitter entry into engine parameters.
func (c *SceneConfig) EmitterParams(ec EmitterConfig) (emitter.Params, error) {
	forces, err := resolveForces(ec.Forces)
	if err != nil {
		return emitter.Params{}, err
	}
	if len(ec.ExtraForce) == 2 {
		forces = forces.Add(geom.V(ec.ExtraForce[0], ec.ExtraForce[1]))
	}

	var pos geom.Vec2
	if len(ec.Position) == 2 {
		pos = geom.V(ec.Position[0], ec.Position[1])
	}

	partW, partH := ec.Particle.Width, ec.Particle.Height
	if partW == 0 && partH == 0 {
		partW, partH = c.Particle.Width, c.Particle.Height
	}

	interval := emitter.IntRange{Min: emitter.NoTime, Max: emitter.NoTime}
	if !ec.Burst {
		interval = intRange(ec.Interval)
	}

	return emitter.Params{
		ImageWidth:     ec.Image.Width,
		ImageHeight:    ec.Image.Height,
		ImageScale:     ec.Image.Scale,
		Position:       pos,
		Budget:         ec.Budget,
		Interval:       interval,
		ParticleWidth:  partW,
		ParticleHeight: partH,
		Scale:          emitter.FloatRange{Min: ec.Scale.Min, Max: ec.Scale.Max},
		Life:           intRange(ec.Life),
		Angle:          intRange(ec.Angle),
		Speed:          emitter.FloatRange{Min: ec.Speed.Min, Max: ec.Speed.Max},
		Forces:         forces,
		Rebound:        float64(ec.Rebound),
		Color:          color.RGBA(ec.Color),
		Collide:        ec.Collide,
		Fade:           ec.Fade,
	}, nil
}

// KeyBindings maps toggle keys to emitter names.
func (c *SceneConfig) KeyBindings() map[string]string {
	keys := make(map[string]string)
	for _, ec := range c.Emitters {
		if ec.Key != "" {
			keys[ec.Key] = ec.Name
		}
	}
	return keys
}

func resolveForces(names []string) (geom.Vec2, error) {
	var total geom.Vec2
	for _, name := range names {
		switch strings.ToLower(name) {
		case "gravity":
			total = total.Add(emitter.Gravity)
		case "wind":
			total = total.Add(emitter.Wind)
		default:
			return geom.Vec2{}, fmt.Errorf("unknown force %q", name)
		}
	}
	return total, nil
}

func intRange(r rangeval.Range) emitter.IntRange {
	lo, hi := r.Ints()
	return emitter.IntRange{Min: lo, Max: hi}
}
