package main

import "github.com/spf13/cobra"

var (
	domainFile string

	flagShort bool
	flagDebug bool

	flagCertOnly bool
	flagTLSOnly  bool
	flagOCSPOnly bool

	flagLogList    string
	flagLatestLogs bool

	flagJSON bool
)

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&domainFile, "domain-file", "", "path to a file with one hostname per line (required)")
	_ = rootCmd.MarkFlagRequired("domain-file")

	flags.BoolVar(&flagShort, "short", false, "only log warnings and errors to stderr (the report itself is unchanged)")
	flags.BoolVar(&flagDebug, "debug", false, "print verbose diagnostic detail")
	rootCmd.MarkFlagsMutuallyExclusive("short", "debug")

	flags.BoolVar(&flagCertOnly, "cert-only", false, "only verify embedded (X.509 extension) SCTs")
	flags.BoolVar(&flagTLSOnly, "tls-only", false, "only verify TLS extension 18 SCTs")
	flags.BoolVar(&flagOCSPOnly, "ocsp-only", false, "only verify OCSP-stapled SCTs")
	rootCmd.MarkFlagsMutuallyExclusive("cert-only", "tls-only", "ocsp-only")

	flags.StringVar(&flagLogList, "log-list", "", "path to a CT log list JSON file")
	flags.BoolVar(&flagLatestLogs, "latest-logs", false, "fetch the latest CT log list instead of using the bundled snapshot")
	rootCmd.MarkFlagsMutuallyExclusive("log-list", "latest-logs")

	flags.BoolVar(&flagJSON, "json", false, "emit the report as JSON instead of text")
}

// enabledTasks returns which of the three channels the driver should run,
// honoring the mutually exclusive *-only flags; with none set, all three run.
func enabledTasks() (cert, tls, ocsp bool) {
	switch {
	case flagCertOnly:
		return true, false, false
	case flagTLSOnly:
		return false, true, false
	case flagOCSPOnly:
		return false, false, true
	default:
		return true, true, true
	}
}
