// Package report renders the verification pipeline's results as either a
// Markdown-ish text report or JSON, mirroring the teacher's Formatter /
// FormatOutput split.
package report

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ivoronin/sctvet/internal/ctlog"
	"github.com/ivoronin/sctvet/internal/verifier"
)

// Format selects the rendering.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Formatter is implemented by every report type.
type Formatter interface {
	FormatText() string
	FormatJSON() ([]byte, error)
}

// FormatOutput renders f per format.
func FormatOutput(f Formatter, format Format) (string, error) {
	if format == FormatJSON {
		data, err := f.FormatJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return f.FormatText(), nil
}

// TaskKind names one of the three SCT delivery channels.
type TaskKind string

const (
	TaskCert TaskKind = "cert"
	TaskTLS  TaskKind = "tls"
	TaskOCSP TaskKind = "ocsp"
)

// TaskReport is one channel's sub-report for one host.
type TaskReport struct {
	Kind    TaskKind
	Err     error // MalformedContainer; nil means the channel parsed cleanly
	Results []verifier.VerificationResult
}

// HostReport aggregates a host's task sub-reports.
type HostReport struct {
	Host        string
	Port        int
	TransportErr error
	// PathValidationNote carries what a real chain validation would have
	// said about the leaf certificate (nil means it validated cleanly, or
	// the host failed before a certificate was seen). Purely informational:
	// it never affects exit status or SCT verdicts.
	PathValidationNote error
	Tasks              []TaskReport
}

// Report is the top-level document: one host section per entry.
type Report struct {
	ToolVersion string
	Hosts       []HostReport
}

// FormatText renders the Markdown-ish report described by the CLI output
// contract: one section per host, sub-sections per task, a fenced block
// per SCT.
func (r *Report) FormatText() string {
	var b strings.Builder

	for _, h := range r.Hosts {
		fmt.Fprintf(&b, "# %s:%d\n\n", h.Host, h.Port)

		if h.TransportErr != nil {
			fmt.Fprintf(&b, "Transport failure: %v\n\n", h.TransportErr)
			continue
		}

		if h.PathValidationNote != nil {
			fmt.Fprintf(&b, "Note: certificate path does not validate against the system trust store: %v\n\n", h.PathValidationNote)
		}

		for _, t := range h.Tasks {
			fmt.Fprintf(&b, "## %s\n\n", t.Kind)

			if t.Err != nil {
				fmt.Fprintf(&b, "Malformed container: %v\n\n", t.Err)
				continue
			}
			if len(t.Results) == 0 {
				b.WriteString("no SCTs\n\n")
				continue
			}

			for _, res := range t.Results {
				writeSCTBlock(&b, res)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeSCTBlock(b *strings.Builder, res verifier.VerificationResult) {
	s := res.SCT
	logID := ctlog.LogID(s.LogID)

	b.WriteString("```\n")
	fmt.Fprintf(b, "version:        %d\n", s.Version)
	fmt.Fprintf(b, "log_id (hex):   %s\n", logID.String())
	fmt.Fprintf(b, "log_id (b64):   %s\n", logID.Base64())
	fmt.Fprintf(b, "timestamp:      %s\n", s.Timestamp().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(b, "extensions_len: %d\n", len(s.Extensions))
	fmt.Fprintf(b, "algorithm:      hash=%d sign=%d\n", s.SignatureAlgorithmHash, s.SignatureAlgorithmSign)
	fmt.Fprintf(b, "signature (hex): %s\n", hex.EncodeToString(s.Signature))
	fmt.Fprintf(b, "signature (b64): %s\n", base64.StdEncoding.EncodeToString(s.Signature))

	if res.Log != nil {
		fmt.Fprintf(b, "log:            %s (%s)\n", res.Log.Description, res.Log.OperatorName)
		fmt.Fprintf(b, "chrome_status:  %s\n", res.Log.Status)
	} else {
		b.WriteString("log:            unknown\n")
	}

	if res.Verified {
		b.WriteString("Verified OK\n")
	} else {
		fmt.Fprintf(b, "Verification Failure: %s\n", res.Reason)
	}
	b.WriteString("```\n\n")
}

// jsonReport mirrors Report for JSON output.
type jsonReport struct {
	ToolVersion string      `json:"tool_version"`
	Hosts       []jsonHost  `json:"hosts"`
}

type jsonHost struct {
	Host               string     `json:"host"`
	Port               int        `json:"port"`
	TransportErr       string     `json:"transport_error,omitempty"`
	PathValidationNote string     `json:"path_validation_note,omitempty"`
	Tasks              []jsonTask `json:"tasks,omitempty"`
}

type jsonTask struct {
	Kind    string      `json:"kind"`
	Err     string      `json:"malformed_container_error,omitempty"`
	Results []jsonSCT   `json:"results,omitempty"`
}

type jsonSCT struct {
	Version       uint8  `json:"version"`
	LogIDHex      string `json:"log_id_hex"`
	LogIDBase64   string `json:"log_id_base64"`
	TimestampUTC  string `json:"timestamp_utc"`
	SignatureHex  string `json:"signature_hex"`
	LogDescription string `json:"log_description,omitempty"`
	LogOperator    string `json:"log_operator,omitempty"`
	ChromeStatus   string `json:"chrome_status,omitempty"`
	Verified       bool   `json:"verified"`
	Reason         string `json:"reason"`
}

// FormatJSON renders the host, task and per-SCT data of FormatText as JSON.
// The per-SCT objects omit the extensions length, the algorithm pair and
// the base64 form of the signature.
func (r *Report) FormatJSON() ([]byte, error) {
	jr := jsonReport{ToolVersion: r.ToolVersion}

	for _, h := range r.Hosts {
		jh := jsonHost{Host: h.Host, Port: h.Port}
		if h.TransportErr != nil {
			jh.TransportErr = h.TransportErr.Error()
		}
		if h.PathValidationNote != nil {
			jh.PathValidationNote = h.PathValidationNote.Error()
		}
		for _, t := range h.Tasks {
			jt := jsonTask{Kind: string(t.Kind)}
			if t.Err != nil {
				jt.Err = t.Err.Error()
			}
			for _, res := range t.Results {
				logID := ctlog.LogID(res.SCT.LogID)
				js := jsonSCT{
					Version:      res.SCT.Version,
					LogIDHex:     logID.String(),
					LogIDBase64:  logID.Base64(),
					TimestampUTC: res.SCT.Timestamp().Format("2006-01-02T15:04:05.000Z"),
					SignatureHex: hex.EncodeToString(res.SCT.Signature),
					Verified:     res.Verified,
					Reason:       string(res.Reason),
				}
				if res.Log != nil {
					js.LogDescription = res.Log.Description
					js.LogOperator = res.Log.OperatorName
					js.ChromeStatus = string(res.Log.Status)
				}
				jt.Results = append(jt.Results, js)
			}
			jh.Tasks = append(jh.Tasks, jt)
		}
		jr.Hosts = append(jr.Hosts, jh)
	}

	return json.MarshalIndent(jr, "", "  ")
}
