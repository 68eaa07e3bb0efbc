// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yunxiaoshu/eyeurl/internal/config"
)

// rootCmd captures screenshots for every URL in the given file.
var rootCmd = &cobra.Command{
	Use:   "eyeurl <url-file>",
	Short: "Batch website screenshot tool",
	Long: `Eyeurl reads a list of URLs from a file, checks which of them are
reachable, captures a screenshot of each reachable page in a headless
browser, and writes a timestamped report directory with the images,
a JSON export and an HTML overview.`,
	Version: "0.1.0",
	Args:    cobra.ExactArgs(1),
	RunE:    runCapture,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. A completed pipeline exits 0 even when some URLs
// failed to capture; only unrecoverable errors (unreadable URL file, report
// directory not writable, bad flags) exit non-zero. The context carries
// signal cancellation from main.
func Execute(ctx context.Context) {
	setupLogging(false)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if v, err := cmd.Flags().GetBool("verbose"); err == nil {
			setupLogging(v)
		}
	}
}

// setupLogging points the global logger at a console writer on stderr.
// attachFileLog later tees it into the report directory.
func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// attachFileLog tees log output into the given file in addition to the
// console. Returns a cleanup that restores console-only logging.
func attachFileLog(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(io.MultiWriter(console, f)).With().Timestamp().Logger()
	return func() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		f.Close()
	}, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
