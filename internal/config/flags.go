package config

import "flag"

// Flags are the command-line overrides shared by subcommands.
type Flags struct {
	Config  string
	Debug   bool
	Profile string
	Out     string
	Workers int
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Profile, "profile", "", "Coordinate profile (see 'profiles')")
	fs.StringVar(&f.Out, "out", "", "Output script path")
	fs.IntVar(&f.Workers, "workers", 0, "Goroutines used to hash meshes")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Profile != "" {
		cfg.Export.Profile = f.Profile
	}
	if f.Out != "" {
		cfg.Export.Output = f.Out
	}
	if f.Workers > 0 {
		cfg.Export.Workers = f.Workers
	}
}
