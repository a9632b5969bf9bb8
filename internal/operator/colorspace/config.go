package colorspace

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigSuffix is the file name suffix of color space configurations.
const ConfigSuffix = ".colorspace.yaml"

// Space is one named color space of a configuration.
type Space struct {
	Name        string `yaml:"name"`
	Family      string `yaml:"family"`
	Encoding    string `yaml:"encoding"`
	Description string `yaml:"description"`
}

// Look is a named grade applied in its process space between source and
// destination.
type Look struct {
	Name         string `yaml:"name"`
	ProcessSpace string `yaml:"process_space"`
	LUT          string `yaml:"lut"`
	Description  string `yaml:"description"`
}

// Config is a set of color spaces and looks, usually read from a
// .colorspace.yaml file.
type Config struct {
	Name        string  `yaml:"name"`
	ColorSpaces []Space `yaml:"colorspaces"`
	Looks       []Look  `yaml:"looks"`

	dir string
}

// aliasFamily marks spaces that only rename another one; they are hidden
// from the choice lists.
const aliasFamily = "Utility/Aliases"

// DefaultConfig is used until a configuration file is loaded.
func DefaultConfig() *Config {
	return &Config{
		Name: "builtin",
		ColorSpaces: []Space{
			{Name: "sRGB", Family: "Display", Encoding: "srgb", Description: "sRGB, D65, display encoded"},
			{Name: "Linear sRGB", Family: "Scene", Encoding: "linear", Description: "sRGB primaries, linear"},
			{Name: "CIE XYZ", Family: "Scene", Encoding: "xyz", Description: "CIE 1931 XYZ, D65"},
			{Name: "CIE Lab", Family: "Utility", Encoding: "lab", Description: "CIE L*a*b*, D65"},
			{Name: "HSV", Family: "Utility", Encoding: "hsv", Description: "hue, saturation, value of sRGB"},
			{Name: "HSL", Family: "Utility", Encoding: "hsl", Description: "hue, saturation, lightness of sRGB"},
		},
	}
}

// LoadConfig reads and validates a configuration file. Relative LUT paths
// of looks resolve against the file's folder.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) validate() error {
	if len(c.ColorSpaces) == 0 {
		return fmt.Errorf("no color spaces")
	}
	seen := make(map[string]bool)
	for _, s := range c.ColorSpaces {
		if s.Name == "" {
			return fmt.Errorf("color space without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate color space %q", s.Name)
		}
		seen[s.Name] = true
		if _, err := lookupEncoding(s.Encoding); err != nil {
			return fmt.Errorf("color space %q: %w", s.Name, err)
		}
	}
	for _, l := range c.Looks {
		if l.Name == "" || l.LUT == "" {
			return fmt.Errorf("look needs a name and a lut")
		}
		if l.ProcessSpace != "" && !seen[l.ProcessSpace] {
			return fmt.Errorf("look %q: unknown process space %q", l.Name, l.ProcessSpace)
		}
	}
	return nil
}

// Space returns the color space named name.
func (c *Config) Space(name string) (Space, bool) {
	for _, s := range c.ColorSpaces {
		if s.Name == name {
			return s, true
		}
	}
	return Space{}, false
}

// Look returns the look named name.
func (c *Config) Look(name string) (Look, bool) {
	for _, l := range c.Looks {
		if l.Name == name {
			return l, true
		}
	}
	return Look{}, false
}

func (c *Config) lutPath(l Look) string {
	if filepath.IsAbs(l.LUT) || c.dir == "" {
		return l.LUT
	}
	return filepath.Join(c.dir, l.LUT)
}

// choices returns the visible space names with their descriptions.
func (c *Config) choices() (names, descriptions []string) {
	for _, s := range c.ColorSpaces {
		if s.Family == aliasFamily {
			continue
		}
		names = append(names, s.Name)
		descriptions = append(descriptions, fmt.Sprintf("%s (%s, %s)", s.Description, s.Family, s.Encoding))
	}
	return names, descriptions
}

// lookChoices returns "" (no look) followed by every look name.
func (c *Config) lookChoices() (names, descriptions []string) {
	names, descriptions = []string{""}, []string{""}
	for _, l := range c.Looks {
		names = append(names, l.Name)
		descriptions = append(descriptions, l.Description)
	}
	return names, descriptions
}
