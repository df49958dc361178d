package config

// RootKey is the document key holding the application-level section.
const RootKey = "root"

// Config is the validated configuration of one environment.
type Config struct {
	Environment string         `yaml:"environment"`
	SystemName  string         `yaml:"systemName"`
	Root        Root           `yaml:"root"`
	Extra       map[string]any `yaml:",inline"`
}

// Root holds the application list and process-wide knobs.
type Root struct {
	Apps       []App          `yaml:"apps"`
	LayerOrder []string       `yaml:"layerOrder"`
	LogLevel   string         `yaml:"logLevel"`
	LogFormat  string         `yaml:"logFormat"`
	Extra      map[string]any `yaml:",inline"`
}

// App declares one sub-application. Its globals contribution, if any, is
// registered by name with the composer rather than carried in the file.
type App struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// AppNames returns the declared application names in order.
func (c *Config) AppNames() []string {
	names := make([]string, 0, len(c.Root.Apps))
	for _, app := range c.Root.Apps {
		names = append(names, app.Name)
	}
	return names
}
