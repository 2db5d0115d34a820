package config

import "flag"

var (
	flagConfig          = flag.String("config", "", "Path to config file")
	flagDebug           = flag.Bool("debug", false, "Enable debug logging")
	flagAllowEmptyNodes = flag.Bool("allow-empty-nodes", false, "Load nodes without a mesh as groups")
	flagAddr            = flag.String("addr", "", "Inspection server listen address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAllowEmptyNodes {
		cfg.Loader.AllowEmptyNodes = true
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
}
