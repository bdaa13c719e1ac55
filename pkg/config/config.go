package config

// Config holds the engine's own settings. It is unrelated to the project
// configuration being normalized.
type Config struct {
	Normalizer NormalizerConfig `koanf:"normalizer" validate:"required"`
	Runtime    RuntimeConfig    `koanf:"runtime"    validate:"required"`
}

// NormalizerConfig contains defaults applied while normalizing project configuration.
type NormalizerConfig struct {
	// DefaultMemory is the entrypoint memory in MB when no function pattern sets one.
	DefaultMemory int `koanf:"default_memory"       validate:"min=1"`
	// DefaultMaxDuration is the entrypoint timeout in seconds when no function pattern sets one.
	DefaultMaxDuration int `koanf:"default_max_duration" validate:"min=1"`
	// DefaultRuntime is used for functions whose patterns leave the runtime unset.
	DefaultRuntime string `koanf:"default_runtime"      validate:"runtime"`
	// OutputDir is the build-output tree, relative to the project folder.
	OutputDir string `koanf:"output_dir"           validate:"required"`
	// DiscoveryWorkers bounds concurrent directory listing and descriptor reads.
	DiscoveryWorkers int `koanf:"discovery_workers"    validate:"min=1,max=64"`
}

// RuntimeConfig contains process-level behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled"`
	LogJSON   bool   `koanf:"log_json"`
	LogSource bool   `koanf:"log_source"`
}

func Default() *Config {
	return &Config{
		Normalizer: NormalizerConfig{
			DefaultMemory:      128,
			DefaultMaxDuration: 30,
			DefaultRuntime:     "node-20",
			OutputDir:          ".vercel/output",
			DiscoveryWorkers:   4,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}
