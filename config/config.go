// Package config holds the viewer defaults, the project catalogue and the
// localized notices, and loads overrides from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/kardianos/osext"
)

// CameraConfig is the initial camera placement and projection.
type CameraConfig struct {
	Position [3]float32 `json:"position"`
	Fov      float32    `json:"fov"` // degrees
	Near     float32    `json:"near"`
	Far      float32    `json:"far"`
}

// ControlsConfig holds the input response constants.
type ControlsConfig struct {
	MoveSpeed        float32 `json:"moveSpeed"`
	RotationSpeed    float32 `json:"rotationSpeed"`
	MaxPitch         float32 `json:"maxPitch"`
	MouseSensitivity float32 `json:"mouseSensitivity"`

	JoystickSize float32 `json:"joystickSize"`
	MaxOffset    float32 `json:"maxOffset"`

	// MoveDamping is the move stick output at full deflection. It defaults to 1
	// so a full stick walks at MoveSpeed like a held W key; 0.15 gives the slow
	// finer touch walk.
	MoveDamping float32 `json:"moveDamping"`
	LookDamping float32 `json:"lookDamping"`

	SensorSmoothing bool `json:"sensorSmoothing"`
}

// ViewerConfig is the complete viewer configuration.
type ViewerConfig struct {
	Camera    CameraConfig   `json:"camera"`
	Controls  ControlsConfig `json:"controls"`
	EyeHeight float32        `json:"eyeHeight"`

	// Language selects the notice language ("en" or "es").
	Language string `json:"language"`
	// AssetsDir is where relative background image paths are resolved.
	AssetsDir string `json:"assetsDir"`

	Messages Messages  `json:"messages"`
	Projects []Project `json:"projects"`
}

// Default returns the built-in configuration.
func Default() ViewerConfig {
	return ViewerConfig{
		Camera: CameraConfig{
			Position: [3]float32{0, 1.7, 10},
			Fov:      75,
			Near:     0.1,
			Far:      100,
		},
		Controls: ControlsConfig{
			MoveSpeed:        0.15,
			RotationSpeed:    0.05,
			MaxPitch:         float32(math.Pi / 2.5),
			MouseSensitivity: 0.002,
			JoystickSize:     24,
			MaxOffset:        20,
			MoveDamping:      1.0,
			LookDamping:      0.15,
		},
		EyeHeight: 1.7,
		Language:  LangEN,
		AssetsDir: "assets",
		Messages:  DefaultMessages(),
		Projects:  DefaultProjects(),
	}
}

// LoadFile reads a JSON file and overlays it onto the defaults. Fields missing
// from the file keep their default values. A relative filename that does not
// exist in the working directory is looked up next to the executable.
//
// Parameters:
//   - filename: path to the JSON file
//
// Returns:
//   - ViewerConfig: the merged configuration
//   - error: error if the file cannot be read, parsed or validated
func LoadFile(filename string) (ViewerConfig, error) {
	cfg := Default()

	resolved, err := ResolvePath(filename)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", resolved, err)
	}
	// Projects are replaced as a whole, not merged element by element.
	cfg.Projects = nil
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", resolved, err)
	}
	if cfg.Projects == nil {
		cfg.Projects = DefaultProjects()
	}

	if cfg.AssetsDir != "" && !filepath.IsAbs(cfg.AssetsDir) {
		cfg.AssetsDir = filepath.Join(filepath.Dir(resolved), cfg.AssetsDir)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

// ResolvePath returns p unchanged when it is absolute or exists relative to the
// working directory, and otherwise joins it onto the executable's folder.
//
// Parameters:
//   - p: the path to resolve
//
// Returns:
//   - string: the resolved path
//   - error: error if the executable folder cannot be determined
func ResolvePath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	exfolder, err := osext.ExecutableFolder()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable folder for %s: %w", p, err)
	}
	return filepath.Join(exfolder, p), nil
}

// Validate checks the invariants the control code relies on.
func (c ViewerConfig) Validate() error {
	switch {
	case c.EyeHeight <= 0:
		return fmt.Errorf("eyeHeight must be positive")
	case c.Controls.MoveSpeed <= 0:
		return fmt.Errorf("controls.moveSpeed must be positive")
	case c.Controls.RotationSpeed <= 0:
		return fmt.Errorf("controls.rotationSpeed must be positive")
	case c.Controls.MaxPitch <= 0 || c.Controls.MaxPitch >= math.Pi/2:
		return fmt.Errorf("controls.maxPitch must be in (0, pi/2)")
	case c.Controls.MaxOffset <= 0:
		return fmt.Errorf("controls.maxOffset must be positive")
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera near/far planes are inconsistent")
	case c.Language != LangEN && c.Language != LangES:
		return fmt.Errorf("unsupported language %q", c.Language)
	}

	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" {
			return fmt.Errorf("project without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ImagePath resolves a project's background image against AssetsDir.
// URLs and absolute paths are returned unchanged.
func (c ViewerConfig) ImagePath(image string) string {
	if image == "" || filepath.IsAbs(image) || isURL(image) {
		return image
	}
	return filepath.Join(c.AssetsDir, image)
}

func isURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}
