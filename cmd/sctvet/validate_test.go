//go:build integration

package main

import (
	"strings"
	"testing"

	"github.com/ivoronin/sctvet/internal/testutil"
)

// These are integration tests: they exec the built sctvet binary without
// network access, exercising CLI misuse and input-error paths only.

func TestMissingDomainFileIsInputError(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t)

	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d for missing --domain-file", result.ExitCode, ExitInputError)
	}
}

func TestUnreadableDomainFileIsInputError(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, "--domain-file", "/nonexistent/path/hosts.txt")

	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d for unreadable domain file", result.ExitCode, ExitInputError)
	}
}

func TestMutuallyExclusiveShortDebugIsInputError(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, "--domain-file", "/dev/null", "--short", "--debug")

	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d for --short combined with --debug", result.ExitCode, ExitInputError)
	}
}

func TestMutuallyExclusiveTaskFlagsIsInputError(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, "--domain-file", "/dev/null", "--cert-only", "--tls-only")

	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d for --cert-only combined with --tls-only", result.ExitCode, ExitInputError)
	}
}

func TestMutuallyExclusiveLogListFlagsIsInputError(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, "--domain-file", "/dev/null", "--log-list", "logs.json", "--latest-logs")

	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d for --log-list combined with --latest-logs", result.ExitCode, ExitInputError)
	}
}

func TestEmptyDomainFileSucceedsWithEmptyReport(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, "--domain-file", "/dev/null")

	if result.ExitCode != ExitSuccess {
		t.Errorf("exit code = %d, want %d for an empty domain file, stderr:\n%s", result.ExitCode, ExitSuccess, result.Stderr)
	}
	if strings.TrimSpace(result.Stdout) != "" {
		t.Errorf("expected empty report for a host-less domain file, got:\n%s", result.Stdout)
	}
}
