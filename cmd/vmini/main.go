package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vmini/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬  ┬┌┬┐┬┌┐┌┬
  └┐┌┘│││││││││
   └┘ ┴ ┴┴┘└┘┴
`

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "vmini",
		Short: "Reactive runtime, scheduler and keyed reconciler playground",
		Long: `vmini runs a small reactive UI runtime against an in-memory host.

  • demo   plays a scripted todo session and prints every host op
  • bench  compares keyed diffing with positional patching
  • serve  runs the demo live with the devtools inspector
  • explain describes an error or warning code`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: vmini.json or vmini.toml in the project root)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.errorFormat, "error-format", errorFormatText, "Error output: text, compact or json")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.noColor || os.Getenv("NO_COLOR") != "" {
			errors.DisableColors()
		}
		return checkErrorFormat(opts.errorFormat)
	}

	rootCmd.AddCommand(
		demoCmd(&opts),
		benchCmd(&opts),
		serveCmd(&opts),
		explainCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		format := opts.errorFormat
		if checkErrorFormat(format) != nil {
			format = errorFormatText
		}
		reportError(os.Stderr, err, format)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
