// Package config loads the engine settings from a YAML file.
package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"ritis/src/render"
)

const (
	// EnvPath names the environment variable that overrides DefaultPath.
	EnvPath     = "RITIS_CONFIG"
	DefaultPath = "ritis.yaml"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Render struct {
	FramesInFlight int        `yaml:"framesInFlight"`
	Binding        string     `yaml:"binding"`
	ClearColor     [4]float32 `yaml:"clearColor"`
	VSync          bool       `yaml:"vsync"`
	Validation     bool       `yaml:"validation"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Window Window `yaml:"window"`
	Render Render `yaml:"render"`
	Log    Log    `yaml:"log"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 800, Height: 600, Title: "Ritis"},
		Render: Render{
			FramesInFlight: render.DefaultFramesInFlight,
			Binding:        render.BindPerFrameSlot.String(),
			ClearColor:     render.DefaultClearColor,
			VSync:          true,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Path returns the config file named by RITIS_CONFIG, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Render.FramesInFlight < 1 {
		return errors.Newf("config: render.framesInFlight must be at least 1, got %d", c.Render.FramesInFlight)
	}
	if _, err := c.Binding(); err != nil {
		return errors.Wrap(err, "config: render.binding")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Newf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (c Config) Binding() (render.BindingPolicy, error) {
	return render.ParseBindingPolicy(c.Render.Binding)
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.Wrapf(err, "config: log.level %q", c.Log.Level)
	}
	return level, nil
}

// RenderOptions converts the render section into renderer options.
func (c Config) RenderOptions() ([]render.Option, error) {
	binding, err := c.Binding()
	if err != nil {
		return nil, err
	}
	return []render.Option{
		render.WithFramesInFlight(c.Render.FramesInFlight),
		render.WithBindingPolicy(binding),
		render.WithClearColor(render.ClearColor(c.Render.ClearColor)),
	}, nil
}

// NewLogger builds a logger writing to w in the configured format and level.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
