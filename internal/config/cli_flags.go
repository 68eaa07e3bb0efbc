package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("user-agent", "u", "", "Custom User-Agent string")
	cmd.PersistentFlags().Int("probe-timeout", 5, "Per-URL availability check timeout (seconds)")
	cmd.PersistentFlags().Int("probe-concurrency", DefaultProbeConcurrency, "Maximum concurrent availability checks")
	cmd.PersistentFlags().Int("probe-retries", DefaultProbeRetries, "Availability check retries per URL")

	cmd.Flags().StringP("output", "o", DefaultOutputDir, "Output directory for the report")
	cmd.Flags().IntP("width", "w", DefaultWidth, "Browser viewport width (pixels)")
	cmd.Flags().Int("height", DefaultHeight, "Browser viewport height (pixels)")
	cmd.Flags().IntP("timeout", "t", 30, "Page load timeout (seconds)")
	cmd.Flags().IntP("network-timeout", "n", 3, "Network-idle wait timeout (seconds)")
	cmd.Flags().Float64P("wait", "W", 0, "Extra wait after load (seconds, capped at 5)")
	cmd.Flags().IntP("threads", "T", DefaultThreads, "Number of parallel capture workers")
	cmd.Flags().IntP("retry", "r", DefaultRetryCount, "Capture attempts per URL on failure")
	cmd.Flags().BoolP("full-page", "f", false, "Capture the full page instead of the viewport")
	cmd.Flags().BoolP("ignore-ssl-errors", "S", false, "Ignore SSL certificate errors")
	cmd.Flags().Bool("save-text", false, "Save a markdown text extract per captured page")
}
