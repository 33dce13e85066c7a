// This file is part of Banglemu.
//
// Banglemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Banglemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Banglemu.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/banglemu/banglemu/bridge"
	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/gesture"
	"github.com/banglemu/banglemu/paths"
	"github.com/banglemu/banglemu/storage"
	"github.com/pelletier/go-toml/v2"
)

// Sentinal errors.
const (
	Unreadable     = "config: cannot read %s: %v"
	Malformed      = "config: malformed: %v"
	Invalid        = "config: invalid: %v"
	FileUnreadable = "config: cannot read storage file %q: %v"
)

// DefaultFilename is the name of the configuration file in the resource
// directory.
const DefaultFilename = "banglemu.toml"

// DefaultTick is the default interval between ticks.
const DefaultTick = 20 * time.Millisecond

// Duration is a time.Duration that is written as a string in the
// configuration file. For example, "20ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Gesture thresholds.
type Gesture struct {
	MoveThreshold float64  `toml:"move_threshold"`
	TapDistance   float64  `toml:"tap_distance"`
	SwipeTime     Duration `toml:"swipe_time"`
}

// File to preload into storage.
type File struct {
	Name    string  `toml:"name"`
	Path    string  `toml:"path,omitempty"`
	Content *string `toml:"content,omitempty"`
}

// Storage region.
type Storage struct {
	Offset   int    `toml:"offset"`
	Capacity int    `toml:"capacity"`
	Files    []File `toml:"file,omitempty"`
}

// Config is the complete configuration.
type Config struct {
	Module  string   `toml:"module"`
	Console string   `toml:"console"`
	Tick    Duration `toml:"tick"`
	Metrics string   `toml:"metrics"`
	Gesture Gesture  `toml:"gesture"`
	Storage Storage  `toml:"storage"`

	// directory that relative paths are resolved against
	dir string
}

// Default returns the default configuration.
func Default() Config {
	g := gesture.DefaultConfig()
	return Config{
		Console: bridge.DefaultAddress,
		Tick:    Duration{DefaultTick},
		Gesture: Gesture{
			MoveThreshold: g.MoveThreshold,
			TapDistance:   g.TapDistance,
			SwipeTime:     Duration{g.SwipeTime},
		},
		Storage: Storage{
			Capacity: storage.DefaultCapacity,
		},
		dir: ".",
	}
}

// DefaultPath returns the path of the default configuration file.
func DefaultPath() string {
	return paths.ResourcePath(DefaultFilename)
}

// Load the configuration file. If the path is empty then the default
// configuration file is used, if it exists. A missing default configuration
// file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, curated.Errorf(Unreadable, path, err)
	}

	return Parse(data, filepath.Dir(path))
}

// Parse the configuration data. Relative storage file paths are resolved
// against dir. Values not in the data are the default values.
func Parse(data []byte, dir string) (Config, error) {
	cfg := Default()
	cfg.dir = dir

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, curated.Errorf(Malformed, fmt.Errorf("line %d column %d: %v", row, col, derr))
		}

		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Config{}, curated.Errorf(Malformed, fmt.Errorf("unknown key: %s", serr.String()))
		}

		return Config{}, curated.Errorf(Malformed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the values in the configuration are usable.
func (cfg Config) Validate() error {
	if cfg.Tick.Duration <= 0 {
		return curated.Errorf(Invalid, fmt.Errorf("tick must be positive (%v)", cfg.Tick.Duration))
	}

	if cfg.Gesture.MoveThreshold < 0 {
		return curated.Errorf(Invalid, fmt.Errorf("move_threshold cannot be negative"))
	}
	if cfg.Gesture.TapDistance < 0 {
		return curated.Errorf(Invalid, fmt.Errorf("tap_distance cannot be negative"))
	}
	if cfg.Gesture.SwipeTime.Duration <= 0 {
		return curated.Errorf(Invalid, fmt.Errorf("swipe_time must be positive (%v)", cfg.Gesture.SwipeTime.Duration))
	}

	if cfg.Storage.Offset < 0 || cfg.Storage.Offset%storage.Alignment != 0 {
		return curated.Errorf(Invalid, fmt.Errorf("storage offset must be a positive multiple of %d (%d)", storage.Alignment, cfg.Storage.Offset))
	}
	if cfg.Storage.Capacity <= 0 {
		return curated.Errorf(Invalid, fmt.Errorf("storage capacity must be positive (%d)", cfg.Storage.Capacity))
	}
	if cfg.Storage.Offset+cfg.Storage.Capacity > device.FlashSize {
		return curated.Errorf(Invalid, fmt.Errorf("storage region (%#x + %d bytes) is larger than flash", cfg.Storage.Offset, cfg.Storage.Capacity))
	}

	for i, f := range cfg.Storage.Files {
		if f.Name == "" {
			return curated.Errorf(Invalid, fmt.Errorf("storage file %d has no name", i))
		}
		if (f.Path == "") == (f.Content == nil) {
			return curated.Errorf(Invalid, fmt.Errorf("storage file %q must have either a path or content", f.Name))
		}
	}

	return nil
}

// Dir returns the directory that relative paths are resolved against.
func (cfg Config) Dir() string {
	return cfg.dir
}

// ModulePath returns the path of the module. A relative path is resolved
// against the directory of the configuration file.
func (cfg Config) ModulePath() string {
	if cfg.Module == "" || filepath.IsAbs(cfg.Module) {
		return cfg.Module
	}
	return filepath.Join(cfg.dir, cfg.Module)
}

// Files reads the storage files, in the order they are declared.
func (cfg Config) Files() ([]storage.File, error) {
	files := make([]storage.File, 0, len(cfg.Storage.Files))

	for _, f := range cfg.Storage.Files {
		if f.Content != nil {
			files = append(files, storage.File{Name: f.Name, Content: []byte(*f.Content)})
			continue // for loop
		}

		pth := f.Path
		if !filepath.IsAbs(pth) {
			pth = filepath.Join(cfg.dir, pth)
		}

		data, err := os.ReadFile(pth)
		if err != nil {
			return nil, curated.Errorf(FileUnreadable, f.Name, err)
		}
		files = append(files, storage.File{Name: f.Name, Content: data})
	}

	return files, nil
}

// GestureConfig returns the gesture thresholds in the form required by the
// gesture package.
func (cfg Config) GestureConfig() gesture.Config {
	return gesture.Config{
		MoveThreshold: cfg.Gesture.MoveThreshold,
		TapDistance:   cfg.Gesture.TapDistance,
		SwipeTime:     cfg.Gesture.SwipeTime.Duration,
	}
}

// String returns the configuration in TOML format.
func (cfg Config) String() string {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
