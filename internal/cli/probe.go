package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yunxiaoshu/eyeurl/internal/config"
	"github.com/yunxiaoshu/eyeurl/internal/probe"
	"github.com/yunxiaoshu/eyeurl/internal/ui"
	"github.com/yunxiaoshu/eyeurl/internal/urlfile"
)

// probeCmd runs only the availability check, without any browser work.
var probeCmd = &cobra.Command{
	Use:   "probe <url-file>",
	Short: "Check which URLs are reachable without capturing them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		urls, err := urlfile.Read(args[0])
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("no URLs found in %s", args[0])
		}

		prober := probe.New(probe.Options{
			Timeout:     cfg.ProbeTimeout,
			Concurrency: cfg.ProbeConcurrency,
			Retries:     cfg.ProbeRetries,
			UserAgent:   cfg.UserAgent,
		})
		accessible, inaccessible := prober.Probe(cmd.Context(), urls)

		seen := make(map[string]bool, len(urls))
		for _, u := range urls {
			if seen[u] {
				continue
			}
			seen[u] = true
			if reason, bad := inaccessible[u]; bad {
				fmt.Fprintf(os.Stdout, "%s  %s  %s\n", ui.Error("DOWN"), u, ui.Info(reason))
			} else {
				fmt.Fprintf(os.Stdout, "%s    %s\n", ui.Success("UP"), u)
			}
		}
		fmt.Fprintf(os.Stdout, "\n%s\n",
			ui.Bold(fmt.Sprintf("%s reachable, %s not",
				pluralize(len(accessible), "URL"), pluralize(len(inaccessible), "URL"))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
