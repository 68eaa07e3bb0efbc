package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel  = "info"
	DefaultOutputDir = "report"
	DefaultUserAgent = "" // empty means Chrome's own UA

	DefaultWidth  = 1280
	DefaultHeight = 800

	DefaultPageTimeout        = 30 * time.Second
	DefaultNetworkIdleTimeout = 3 * time.Second
	DefaultExtraWait          = 0 * time.Second
	MaxExtraWait              = 5 * time.Second

	DefaultThreads    = 4
	MaxThreads        = 20
	DefaultRetryCount = 1
	MaxRetryCount     = 10

	DefaultProbeTimeout     = 5 * time.Second
	DefaultProbeConcurrency = 50
	MaxProbeConcurrency     = 200
	DefaultProbeRetries     = 0
	DefaultProbeRPS         = 10.0
	DefaultProbeBurst       = 20

	// Orchestrator-side bounds.
	DefaultResultFetchTimeout  = 10 * time.Second
	DefaultProgressWaitCeiling = 3 * time.Minute
)
