package cli

import "flag"

const versionString = "1.0.0"

type cliOptions struct {
	configPath string
	crops      bool
	diagnose   string
	crop       string
	jsonOutput bool
	seed       uint64
	serve      bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("cropcare", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default: discover ./data/config/cropcare.toml)")
	fs.BoolVar(&opts.crops, "crops", false, "Print supported crops and their known diseases, then exit")
	fs.StringVar(&opts.diagnose, "diagnose", "", "Diagnose a single leaf image and exit (requires --crop)")
	fs.StringVar(&opts.crop, "crop", "", "Crop type for --diagnose (tomato, maize, cotton, rice, wheat, potato)")
	fs.BoolVar(&opts.jsonOutput, "json", false, "Print --diagnose output as JSON")
	fs.Uint64Var(&opts.seed, "seed", 0, "Override the random seed (0 keeps the configured seed)")
	fs.BoolVar(&opts.serve, "serve", false, "Run the prediction HTTP API until interrupted")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

// uiMode reports whether the run ends in the interactive screens.
func (o cliOptions) uiMode() bool {
	return !o.crops && o.diagnose == "" && !o.serve
}
