package core

// NormalizedConfig is the version-independent deployment descriptor produced
// from a project's configuration and, optionally, its build output.
type NormalizedConfig struct {
	Regions              []Region          `json:"regions"                        yaml:"regions"                        mapstructure:"regions"`
	Assets               *Assets           `json:"assets,omitempty"               yaml:"assets,omitempty"               mapstructure:"assets,omitempty"`
	EnvironmentVariables map[string]string `json:"environmentVariables,omitempty" yaml:"environmentVariables,omitempty" mapstructure:"environmentVariables,omitempty"`
	// Commands run in order during the build.
	Commands    []string     `json:"commands,omitempty"    yaml:"commands,omitempty"    mapstructure:"commands,omitempty"`
	Entrypoints []Entrypoint `json:"entrypoints"           yaml:"entrypoints"           mapstructure:"entrypoints"`
	Routes      []Route      `json:"routes"                yaml:"routes"                mapstructure:"routes"`
	Services    []Service    `json:"services,omitempty"    yaml:"services,omitempty"    mapstructure:"services,omitempty"`
	UserArchive *UserArchive `json:"userArchive,omitempty" yaml:"userArchive,omitempty" mapstructure:"userArchive,omitempty"`
	// Warnings and Errors are accumulated diagnostics. Any Errors entry makes
	// the config undeployable.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty" mapstructure:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"   yaml:"errors,omitempty"   mapstructure:"errors,omitempty"`
}

// Assets describes static files served as-is.
type Assets struct {
	// Paths are project-relative, sorted and deduplicated.
	Paths         []string                 `json:"paths"                   yaml:"paths"                   mapstructure:"paths"`
	PrefixToStrip string                   `json:"prefixToStrip,omitempty" yaml:"prefixToStrip,omitempty" mapstructure:"prefixToStrip,omitempty"`
	Overrides     map[string]AssetOverride `json:"overrides,omitempty"     yaml:"overrides,omitempty"     mapstructure:"overrides,omitempty"`
	DynamicRoutes bool                     `json:"dynamicRoutes"           yaml:"dynamicRoutes"           mapstructure:"dynamicRoutes"`
	PopulateCache bool                     `json:"populateCache"           yaml:"populateCache"           mapstructure:"populateCache"`
}

type AssetOverride struct {
	Path        string `json:"path,omitempty"        yaml:"path,omitempty"        mapstructure:"path,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty" mapstructure:"contentType,omitempty"`
}

// Entrypoint is one deployable function. Path is unique within a config.
type Entrypoint struct {
	Path                 string            `json:"path"                           yaml:"path"                           mapstructure:"path"`
	Runtime              Runtime           `json:"runtime"                        yaml:"runtime"                        mapstructure:"runtime"`
	Memory               int               `json:"memory"                         yaml:"memory"                         mapstructure:"memory"`
	MaxDuration          int               `json:"maxDuration"                    yaml:"maxDuration"                    mapstructure:"maxDuration"`
	Schedule             string            `json:"schedule,omitempty"             yaml:"schedule,omitempty"             mapstructure:"schedule,omitempty"`
	Symlinks             map[string]string `json:"symlinks,omitempty"             yaml:"symlinks,omitempty"             mapstructure:"symlinks,omitempty"`
	EnvironmentVariables map[string]string `json:"environmentVariables,omitempty" yaml:"environmentVariables,omitempty" mapstructure:"environmentVariables,omitempty"`
	Streaming            bool              `json:"streaming"                      yaml:"streaming"                      mapstructure:"streaming"`
	Package              *Package          `json:"package,omitempty"              yaml:"package,omitempty"              mapstructure:"package,omitempty"`
}

// Package maps absolute source files to their location inside the deployed package.
type Package struct {
	FilePathMap   map[string]string `json:"filePathMap,omitempty"   yaml:"filePathMap,omitempty"   mapstructure:"filePathMap,omitempty"`
	RootOverwrite string            `json:"rootOverwrite,omitempty" yaml:"rootOverwrite,omitempty" mapstructure:"rootOverwrite,omitempty"`
}

// UserArchive tells the archiver which root to use and which files to include.
type UserArchive struct {
	RootOverwrite string   `json:"rootOverwrite,omitempty" yaml:"rootOverwrite,omitempty" mapstructure:"rootOverwrite,omitempty"`
	FileWhitelist []string `json:"fileWhitelist,omitempty" yaml:"fileWhitelist,omitempty" mapstructure:"fileWhitelist,omitempty"`
}

type ServiceType string

const (
	ServiceRedis    ServiceType = "redis"
	ServicePostgres ServiceType = "postgres"
)

// Service is a managed backing service. URL is only set for externally
// managed instances.
type Service struct {
	Type    ServiceType       `json:"type"              yaml:"type"              mapstructure:"type"`
	Name    string            `json:"name,omitempty"    yaml:"name,omitempty"    mapstructure:"name,omitempty"`
	Version string            `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version,omitempty"`
	URL     string            `json:"url,omitempty"     yaml:"url,omitempty"     mapstructure:"url,omitempty"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options,omitempty"`
}
