package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

// Duration reads either a Go duration string ("1m30s") or a plain number
// of nanoseconds.
type Duration struct{ time.Duration }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
		d.Duration = parsed
		return nil
	}
	var nanos int64
	if err := json.Unmarshal(data, &nanos); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	d.Duration = time.Duration(nanos)
	return nil
}

type Config struct {
	Mode         string   `json:"mode"`
	Preset       string   `json:"preset"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	MineCount    int      `json:"mine_count"`
	TickInterval Duration `json:"tick_interval"`
	LogLevel     string   `json:"log_level"`
	LogFile      string   `json:"log_file"`
	NoColor      bool     `json:"no_color"`
}

const DefaultPreset = "beginner"

func Default() *Config {
	p := mines.Presets[DefaultPreset]
	return &Config{
		Mode:         "production",
		Preset:       DefaultPreset,
		Width:        p.Width,
		Height:       p.Height,
		MineCount:    p.MineCount,
		TickInterval: Duration{time.Second},
		LogLevel:     "info",
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":          c.Mode,
		"preset":        c.Preset,
		"width":         c.Width,
		"height":        c.Height,
		"mine_count":    c.MineCount,
		"tick_interval": c.TickInterval.String(),
		"log_level":     c.LogLevel,
		"log_file":      c.LogFile,
		"no_color":      c.NoColor,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return !c.Production()
}

func (c Config) Params() mines.GameParams {
	return mines.GameParams{
		Width:     c.Width,
		Height:    c.Height,
		MineCount: c.MineCount,
	}
}

// Level is the configured log level; development mode always logs at
// debug.
func (c Config) Level() (logrus.Level, error) {
	if c.Development() {
		return logrus.DebugLevel, nil
	}
	return logrus.ParseLevel(c.LogLevel)
}

func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.TickInterval.Duration <= 0 {
		return fmt.Errorf("tick interval must be positive (tick_interval = %s)", c.TickInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// UsePreset replaces the board dimensions with those of a named preset.
func (c *Config) UsePreset(name string) error {
	p, ok := mines.Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", mines.ErrInvalidConfig, name)
	}
	c.Preset = name
	c.Width, c.Height, c.MineCount = p.Unpack()
	return nil
}

func ReadConfig(path string, config *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var preset struct {
		Preset string `json:"preset"`
	}
	if err := json.Unmarshal(b, &preset); err != nil {
		return err
	}
	if preset.Preset != "" {
		if err := config.UsePreset(preset.Preset); err != nil {
			return err
		}
	}
	return json.Unmarshal(b, config)
}

type flags struct {
	configPath string
	envFile    string
	mode       string
	preset     string
	width      int
	height     int
	mineCount  int
	tick       time.Duration
	logLevel   string
	logFile    string
	noColor    bool
}

func newFlagSet(name string, f *flags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	const configUsage = "config file path"
	fs.StringVar(&f.configPath, "config", "", configUsage)
	fs.StringVar(&f.configPath, "c", "", configUsage+" (shorthand)")
	fs.StringVar(&f.envFile, "env", ".env", "dotenv file, skipped if missing")
	fs.StringVar(&f.mode, "mode", "", `"production" or "development"`)
	fs.StringVar(&f.preset, "preset", "", "board preset: beginner, intermediate or expert")
	fs.IntVar(&f.width, "width", 0, "board width")
	fs.IntVar(&f.height, "height", 0, "board height")
	fs.IntVar(&f.mineCount, "mines", 0, "mine count")
	fs.DurationVar(&f.tick, "tick", 0, "clock tick interval")
	fs.StringVar(&f.logLevel, "log-level", "", "log level")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to a rotated file")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colors")
	return fs
}

// Load builds the config from defaults, a JSON config file, the
// environment (a dotenv file included) and command-line flags, each layer
// overriding the one before.
func Load(name string, args []string) (*Config, error) {
	var f flags
	flagSet := newFlagSet(name, &f)
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	if f.envFile != "" {
		err := godotenv.Load(f.envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load %s: %w", f.envFile, err)
		}
	}

	config := Default()

	configPath := f.configPath
	if configPath == "" {
		configPath = os.Getenv("MINES_CONFIG")
	}
	if configPath != "" {
		if err := ReadConfig(configPath, config); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", configPath, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	visited := map[string]bool{}
	flagSet.Visit(func(fl *flag.Flag) { visited[fl.Name] = true })
	if visited["preset"] {
		if err := config.UsePreset(f.preset); err != nil {
			return nil, err
		}
	}
	if visited["mode"] {
		config.Mode = f.mode
	}
	if visited["width"] {
		config.Width = f.width
	}
	if visited["height"] {
		config.Height = f.height
	}
	if visited["mines"] {
		config.MineCount = f.mineCount
	}
	if visited["tick"] {
		config.TickInterval.Duration = f.tick
	}
	if visited["log-level"] {
		config.LogLevel = f.logLevel
	}
	if visited["log-file"] {
		config.LogFile = f.logFile
	}
	if visited["no-color"] {
		config.NoColor = f.noColor
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func lookupInt(key string, dst *int) error {
	s, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("unable to convert %s to int: %w", key, err)
	}
	*dst = v
	return nil
}

func (c *Config) applyEnv() error {
	if preset, ok := os.LookupEnv("MINES_PRESET"); ok {
		if err := c.UsePreset(preset); err != nil {
			return err
		}
	}
	if err := errors.Join(
		lookupInt("MINES_WIDTH", &c.Width),
		lookupInt("MINES_HEIGHT", &c.Height),
		lookupInt("MINES_COUNT", &c.MineCount),
	); err != nil {
		return err
	}
	if mode, ok := os.LookupEnv("MODE"); ok {
		c.Mode = mode
	}
	if tick, ok := os.LookupEnv("TICK_INTERVAL"); ok {
		d, err := time.ParseDuration(tick)
		if err != nil {
			return fmt.Errorf("unable to parse TICK_INTERVAL: %w", err)
		}
		c.TickInterval.Duration = d
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = level
	}
	if file, ok := os.LookupEnv("LOG_FILE"); ok {
		c.LogFile = file
	}
	if noColor, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColor = noColor != "" && noColor != "0"
	}
	return nil
}
