// Package handshake is the external collaborator that performs a TLS
// connection and surfaces the raw bytes the core pipeline needs: the peer
// certificate chain, the extension-18 SCT list, and any stapled OCSP
// response. It never does path validation (non-goal; certificate
// verification is switched off with InsecureSkipVerify, and no verify
// callback is installed) and never blocks the core on anything but the
// transport itself.
package handshake

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	"github.com/ivoronin/sctvet/internal/sct"
)

// DefaultTimeout is the connect/handshake wall-clock bound (spec §5).
const DefaultTimeout = 5 * time.Second

// DefaultPort is the port assumed when a domain-file line carries none.
const DefaultPort = 443

// Options configures a single handshake.
type Options struct {
	Timeout time.Duration // zero means DefaultTimeout
}

// Result is the handshake adapter's contract with the core (spec §4.7).
type Result struct {
	EEDER                   []byte   // peer leaf certificate DER
	IssuerDER               []byte   // second chain certificate, if any
	MoreIssuerCandidatesDER [][]byte // full presented chain, EE excluded, presentation order
	OCSPDER                 []byte   // stapled OCSP response DER, if any
	Ext18TDF                []byte   // raw extension-18 wire bytes, if any
	Err                     error    // transport failure; when set, nothing else is populated

	// PathValidationNote records what a real chain validation would have
	// said about the presented leaf, purely for informational display in the
	// report (shown regardless of verbosity flags). It never
	// causes Do to fail the handshake (spec Non-goals: no path validation).
	PathValidationNote error
}

// Do dials host:port over TLS and captures the certificate chain, the
// extension-18 SCT list, and any OCSP staple. It never returns an error
// itself for transport failures: those are reported on Result.Err so the
// driver can continue to the next host (spec §7, TransportFailure).
func Do(host string, port int, opts Options) *Result {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	dialer := &net.Dialer{Timeout: timeout}

	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName: host,
		//nolint:gosec // G402: path validation is explicitly out of scope; see package doc.
		InsecureSkipVerify: true,
	})
	if err != nil {
		return &Result{Err: fmt.Errorf("handshake: dial %s: %w", addr, err)}
	}
	defer func() { _ = conn.Close() }()

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return &Result{Err: fmt.Errorf("handshake: %s presented no certificates", addr)}
	}

	result := &Result{
		EEDER:              state.PeerCertificates[0].Raw,
		OCSPDER:            state.OCSPResponse,
		PathValidationNote: pathValidationNote(state.PeerCertificates[0]),
	}

	chainDER := make([][]byte, 0, len(state.PeerCertificates)-1)
	for _, cert := range state.PeerCertificates[1:] {
		chainDER = append(chainDER, cert.Raw)
	}
	if len(chainDER) > 0 {
		result.IssuerDER = chainDER[0]
	}
	result.MoreIssuerCandidatesDER = chainDER

	if len(state.SignedCertificateTimestamps) > 0 {
		result.Ext18TDF = reframeExtension18(state.SignedCertificateTimestamps)
	}

	return result
}

// reframeExtension18 rebuilds the u16 ext_type || u16 inner_len || SctList
// envelope that the TLS extension-18 reply carried on the wire. Go's
// crypto/tls already strips this framing down to the individual SCT
// records in ConnectionState.SignedCertificateTimestamps, so this
// reconstructs an SctList from them and re-wraps it, giving the sct
// package a single TDF parser (ParseExtension18) that serves both a live capture and any
// archived test vector.
func reframeExtension18(sctRecords [][]byte) []byte {
	var list sct.SctList
	for _, raw := range sctRecords {
		parsed, err := sct.Parse(raw)
		if err != nil {
			continue
		}
		list.Entries = append(list.Entries, parsed)
	}
	if len(list.Entries) == 0 {
		return nil
	}
	envelope := sct.Extension18Envelope{ExtType: sct.TLSExtensionType, List: list}
	return envelope.Serialize()
}

// pathValidationNote reports what a real chain validation would have said
// about leaf, without ever rejecting the connection itself.
func pathValidationNote(leaf *x509.Certificate) error {
	_, err := leaf.Verify(x509.VerifyOptions{})
	return err
}
