package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the papers API
//	-p int      page size
//	-r int      background refresh interval in seconds
//	-d string   local database path
//
// Arguments not listed above are filtered out with flagx.FilterArgs so the
// command tree can parse its own flags from the same list.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-p", "-r", "-d"})

	fs := flag.NewFlagSet("paperkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the papers API")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "page size")
	refresh := fs.Int("r", int(cfg.RefreshInterval.Seconds()), "background refresh interval (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.RefreshInterval = time.Duration(*refresh) * time.Second
		}
	})
	return nil
}
