package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
const DefaultConfigPath = "config/simulation.defaults.json"

// SimulationConfig is the on-disk form of a simulation run. Every field is
// optional; the Get* accessors supply defaults for anything left unset, so
// partial JSON or YAML files are safe.
type SimulationConfig struct {
	// Geometry
	NSpots  *int    `json:"n_spots,omitempty" yaml:"n_spots,omitempty"`
	NLayers *int    `json:"n_layers,omitempty" yaml:"n_layers,omitempty"`
	Target  *string `json:"target,omitempty" yaml:"target,omitempty"`

	// Motion
	Amplitude *float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	Period    *float64 `json:"period,omitempty" yaml:"period,omitempty"` // seconds
	Phase     *float64 `json:"phase,omitempty" yaml:"phase,omitempty"`   // radians

	// Timing, in seconds
	SpotDelay  *float64 `json:"spot_delay,omitempty" yaml:"spot_delay,omitempty"`
	LayerDelay *float64 `json:"layer_delay,omitempty" yaml:"layer_delay,omitempty"`

	// Sampling axis
	AxisMin     *float64 `json:"axis_min,omitempty" yaml:"axis_min,omitempty"`
	AxisMax     *float64 `json:"axis_max,omitempty" yaml:"axis_max,omitempty"`
	AxisSamples *int     `json:"axis_samples,omitempty" yaml:"axis_samples,omitempty"`

	// Delivery orders, by generator name, and the seed for random ones
	Orders []string `json:"orders,omitempty" yaml:"orders,omitempty"`
	Seed   *uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`

	LogLevel *string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptySimulationConfig returns a SimulationConfig with all fields unset.
func EmptySimulationConfig() *SimulationConfig {
	return &SimulationConfig{}
}

// DefaultSimulationConfig returns a config with every field set to its default.
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		NSpots:      ptrInt(dose.DefaultSpots),
		NLayers:     ptrInt(dose.DefaultLayers),
		Target:      ptrString(dose.DefaultTarget),
		Amplitude:   ptrFloat64(dose.DefaultAmplitude),
		Period:      ptrFloat64(dose.DefaultPeriod),
		Phase:       ptrFloat64(dose.DefaultPhase),
		SpotDelay:   ptrFloat64(dose.DefaultSpotDelay),
		LayerDelay:  ptrFloat64(dose.DefaultLayerDelay),
		AxisMin:     ptrFloat64(dose.DefaultAxisMin),
		AxisMax:     ptrFloat64(dose.DefaultAxisMax),
		AxisSamples: ptrInt(dose.DefaultAxisSamples),
		Orders:      append([]string(nil), dose.DefaultOrderNames...),
		Seed:        ptrUint64(DefaultSeed),
		LogLevel:    ptrString("info"),
	}
}

// DefaultSeed seeds the random delivery order when none is configured.
const DefaultSeed uint64 = 1

// LoadSimulationConfig loads a SimulationConfig from a .json, .yaml or .yml
// file. The file must be under 1MB. The result is validated before return.
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimulationConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", strings.TrimPrefix(ext, "."), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *SimulationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadSimulationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set. Failures wrap
// dose.ErrInvalidConfiguration.
func (c *SimulationConfig) Validate() error {
	if c.NSpots != nil && *c.NSpots < 1 {
		return invalid("n_spots must be at least 1, got %d", *c.NSpots)
	}
	if c.NLayers != nil && *c.NLayers < 1 {
		return invalid("n_layers must be at least 1, got %d", *c.NLayers)
	}
	if c.Target != nil {
		if _, err := dose.TargetByName(*c.Target); err != nil {
			return err
		}
	}
	if c.Amplitude != nil && !(*c.Amplitude >= 0) {
		return invalid("amplitude must be non-negative, got %v", *c.Amplitude)
	}
	if c.Period != nil && !(*c.Period > 0) {
		return invalid("period must be positive, got %v", *c.Period)
	}
	if c.Phase != nil && (math.IsNaN(*c.Phase) || math.IsInf(*c.Phase, 0)) {
		return invalid("phase must be finite, got %v", *c.Phase)
	}
	if c.SpotDelay != nil && !(*c.SpotDelay >= 0) {
		return invalid("spot_delay must be non-negative, got %v", *c.SpotDelay)
	}
	if c.LayerDelay != nil && !(*c.LayerDelay >= 0) {
		return invalid("layer_delay must be non-negative, got %v", *c.LayerDelay)
	}
	if c.AxisSamples != nil && *c.AxisSamples < 1 {
		return invalid("axis_samples must be at least 1, got %d", *c.AxisSamples)
	}
	if c.AxisMin != nil || c.AxisMax != nil {
		if lo, hi := c.GetAxisMin(), c.GetAxisMax(); !(hi > lo) {
			return invalid("axis_max %v must exceed axis_min %v", hi, lo)
		}
	}
	seen := make(map[string]bool, len(c.Orders))
	for _, name := range c.Orders {
		if strings.TrimSpace(name) == "" {
			return invalid("orders must not contain empty names")
		}
		if seen[name] {
			return invalid("order %q listed twice", name)
		}
		seen[name] = true
	}
	if c.LogLevel != nil && !monitoring.ValidLevel(*c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (valid: info, debug, trace)", *c.LogLevel)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", dose.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// Environment variables that override file values.
const (
	EnvAmplitude  = "SPOTMOTION_AMPLITUDE"
	EnvPeriod     = "SPOTMOTION_PERIOD"
	EnvPhase      = "SPOTMOTION_PHASE"
	EnvSpotDelay  = "SPOTMOTION_SPOT_DELAY"
	EnvLayerDelay = "SPOTMOTION_LAYER_DELAY"
	EnvSeed       = "SPOTMOTION_SEED"
	EnvLogLevel   = "SPOTMOTION_LOG_LEVEL"
)

// ApplyEnvOverrides overlays SPOTMOTION_* variables read through getenv
// (usually os.Getenv) and revalidates the config.
func (c *SimulationConfig) ApplyEnvOverrides(getenv func(string) string) error {
	floatVars := []struct {
		key string
		dst **float64
	}{
		{EnvAmplitude, &c.Amplitude},
		{EnvPeriod, &c.Period},
		{EnvPhase, &c.Phase},
		{EnvSpotDelay, &c.SpotDelay},
		{EnvLayerDelay, &c.LayerDelay},
	}
	for _, fv := range floatVars {
		v := getenv(fv.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", fv.key, v, err)
		}
		*fv.dst = ptrFloat64(f)
	}
	if v := getenv(EnvSeed); v != "" {
		s, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		c.Seed = ptrUint64(s)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = ptrString(v)
	}
	return c.Validate()
}

// GetNSpots returns the n_spots value or the default.
func (c *SimulationConfig) GetNSpots() int {
	if c.NSpots == nil {
		return dose.DefaultSpots
	}
	return *c.NSpots
}

// GetNLayers returns the n_layers value or the default.
func (c *SimulationConfig) GetNLayers() int {
	if c.NLayers == nil {
		return dose.DefaultLayers
	}
	return *c.NLayers
}

// GetTarget returns the target function name or the default.
func (c *SimulationConfig) GetTarget() string {
	if c.Target == nil || *c.Target == "" {
		return dose.DefaultTarget
	}
	return *c.Target
}

// GetAmplitude returns the amplitude value or the default.
func (c *SimulationConfig) GetAmplitude() float64 {
	if c.Amplitude == nil {
		return dose.DefaultAmplitude
	}
	return *c.Amplitude
}

// GetPeriod returns the period value or the default.
func (c *SimulationConfig) GetPeriod() float64 {
	if c.Period == nil {
		return dose.DefaultPeriod
	}
	return *c.Period
}

// GetPhase returns the phase value or the default (π).
func (c *SimulationConfig) GetPhase() float64 {
	if c.Phase == nil {
		return dose.DefaultPhase
	}
	return *c.Phase
}

// GetSpotDelay returns the spot_delay value or the default.
func (c *SimulationConfig) GetSpotDelay() float64 {
	if c.SpotDelay == nil {
		return dose.DefaultSpotDelay
	}
	return *c.SpotDelay
}

// GetLayerDelay returns the layer_delay value or the default.
func (c *SimulationConfig) GetLayerDelay() float64 {
	if c.LayerDelay == nil {
		return dose.DefaultLayerDelay
	}
	return *c.LayerDelay
}

// GetAxisMin returns the axis_min value or the default.
func (c *SimulationConfig) GetAxisMin() float64 {
	if c.AxisMin == nil {
		return dose.DefaultAxisMin
	}
	return *c.AxisMin
}

// GetAxisMax returns the axis_max value or the default.
func (c *SimulationConfig) GetAxisMax() float64 {
	if c.AxisMax == nil {
		return dose.DefaultAxisMax
	}
	return *c.AxisMax
}

// GetAxisSamples returns the axis_samples value or the default.
func (c *SimulationConfig) GetAxisSamples() int {
	if c.AxisSamples == nil {
		return dose.DefaultAxisSamples
	}
	return *c.AxisSamples
}

// GetOrders returns the configured order generator names or the defaults.
func (c *SimulationConfig) GetOrders() []string {
	if len(c.Orders) == 0 {
		return append([]string(nil), dose.DefaultOrderNames...)
	}
	return append([]string(nil), c.Orders...)
}

// GetSeed returns the random order seed or the default.
func (c *SimulationConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// GetLogLevel returns the log level or "info".
func (c *SimulationConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return "info"
	}
	return *c.LogLevel
}

// Params resolves the config into validated simulation parameters.
func (c *SimulationConfig) Params() (dose.Params, error) {
	if err := c.Validate(); err != nil {
		return dose.Params{}, err
	}
	target, err := dose.TargetByName(c.GetTarget())
	if err != nil {
		return dose.Params{}, err
	}
	p := dose.Params{
		NSpots:  c.GetNSpots(),
		NLayers: c.GetNLayers(),
		Motion: dose.Motion{
			Amplitude: c.GetAmplitude(),
			Period:    c.GetPeriod(),
			Phase:     c.GetPhase(),
		},
		Timing: dose.Timing{
			SpotDelay:  c.GetSpotDelay(),
			LayerDelay: c.GetLayerDelay(),
		},
		Axis: dose.Axis{
			Min:     c.GetAxisMin(),
			Max:     c.GetAxisMax(),
			Samples: c.GetAxisSamples(),
		},
		Target:     target,
		TargetName: c.GetTarget(),
	}
	if err := p.Validate(); err != nil {
		return dose.Params{}, err
	}
	return p, nil
}
