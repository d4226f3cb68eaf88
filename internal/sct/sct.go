// Package sct parses and serializes RFC 6962 Signed Certificate Timestamps
// and the containers that carry them: the SctList vector and the TLS
// extension 18 envelope.
package sct

import (
	"fmt"
	"time"

	"github.com/ivoronin/sctvet/internal/codec"
)

// Version1 is the only SCT version defined by RFC 6962.
const Version1 uint8 = 0

// Extension type 18 is reserved for signed_certificate_timestamp (RFC 6962 §3.3).
const TLSExtensionType uint16 = 18

// SignedCertificateTimestamp is the uniform representation of an SCT,
// regardless of which of the three channels delivered it.
type SignedCertificateTimestamp struct {
	Version                uint8
	LogID                  [32]byte
	TimestampMillis         uint64
	Extensions              []byte
	SignatureAlgorithmHash  uint8
	SignatureAlgorithmSign  uint8
	Signature               []byte

	// Raw holds the exact bytes this SCT was parsed from, so re-serializing
	// can be checked against it (invariant 1 of the testable properties).
	Raw []byte
}

// Timestamp converts TimestampMillis to a time.Time in UTC.
func (s SignedCertificateTimestamp) Timestamp() time.Time {
	return time.UnixMilli(int64(s.TimestampMillis)).UTC() //nolint:gosec // timestamps fit int64 until year 292 billion
}

// Parse decodes a single SCT record. The record must be consumed exactly;
// trailing bytes are an error, matching the codec's no-leftover invariant.
func Parse(raw []byte) (SignedCertificateTimestamp, error) {
	r := codec.NewReader(raw)

	version, err := r.U8()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read version: %w", err)
	}
	if version != Version1 {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: unsupported version %d", version)
	}

	logID, err := r.Fixed(32)
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read log_id: %w", err)
	}

	ts, err := r.U64()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read timestamp: %w", err)
	}

	exts, err := r.Opaque16()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read extensions: %w", err)
	}

	sigHash, err := r.U8()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read signature_algorithm_hash: %w", err)
	}
	sigSign, err := r.U8()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read signature_algorithm_sign: %w", err)
	}

	sig, err := r.Opaque16()
	if err != nil {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: read signature: %w", err)
	}

	if !r.Done() {
		return SignedCertificateTimestamp{}, fmt.Errorf("sct: %d trailing bytes after signature", r.Remaining())
	}

	out := SignedCertificateTimestamp{
		Version:                version,
		TimestampMillis:        ts,
		Extensions:             append([]byte(nil), exts...),
		SignatureAlgorithmHash: sigHash,
		SignatureAlgorithmSign: sigSign,
		Signature:              append([]byte(nil), sig...),
		Raw:                    append([]byte(nil), raw...),
	}
	copy(out.LogID[:], logID)
	return out, nil
}

// Serialize re-encodes the SCT record in the layout Parse reads.
func (s SignedCertificateTimestamp) Serialize() []byte {
	w := codec.NewWriter()
	w.U8(s.Version)
	w.Fixed(s.LogID[:])
	w.U64(s.TimestampMillis)
	w.Opaque16(s.Extensions)
	w.U8(s.SignatureAlgorithmHash)
	w.U8(s.SignatureAlgorithmSign)
	w.Opaque16(s.Signature)
	return w.Bytes()
}

// SctList is the TLS-vector container: u16 total_len followed by a run of
// u16 sct_len || sct_bytes entries.
type SctList struct {
	Entries []SignedCertificateTimestamp
}

// ParseSctList decodes the SctList wire format from data, requiring data to
// be consumed exactly (the total_len prefix governs only the inner vector;
// callers that know the enclosing length, e.g. the extension-18 envelope,
// should slice data to inner_len before calling this).
func ParseSctList(data []byte) (SctList, error) {
	r := codec.NewReader(data)

	total, err := r.U16()
	if err != nil {
		return SctList{}, fmt.Errorf("sctlist: read total_len: %w", err)
	}
	if int(total) != r.Remaining() {
		return SctList{}, fmt.Errorf("sctlist: total_len %d does not match remaining %d bytes", total, r.Remaining())
	}

	var list SctList
	for !r.Done() {
		entry, err := r.Opaque16()
		if err != nil {
			return SctList{}, fmt.Errorf("sctlist: read entry: %w", err)
		}
		item, err := Parse(entry)
		if err != nil {
			return SctList{}, fmt.Errorf("sctlist: parse entry: %w", err)
		}
		list.Entries = append(list.Entries, item)
	}
	return list, nil
}

// Serialize re-encodes the SctList in the layout ParseSctList reads.
func (l SctList) Serialize() []byte {
	w := codec.NewWriter()
	inner := codec.NewWriter()
	for _, e := range l.Entries {
		inner.Opaque16(e.Serialize())
	}
	w.Opaque16(inner.Bytes())
	return w.Bytes()
}

// Extension18Envelope wraps an SctList with the TLS extension framing that
// a server returns for extension type 18.
type Extension18Envelope struct {
	ExtType uint16
	List    SctList
}

// ParseExtension18 decodes the u16 ext_type || u16 inner_len || SctList
// envelope, requiring ext_type == 18 and exact consumption.
func ParseExtension18(data []byte) (Extension18Envelope, error) {
	r := codec.NewReader(data)

	extType, err := r.U16()
	if err != nil {
		return Extension18Envelope{}, fmt.Errorf("ext18: read ext_type: %w", err)
	}
	if extType != TLSExtensionType {
		return Extension18Envelope{}, fmt.Errorf("ext18: wrong extension type %d, want %d", extType, TLSExtensionType)
	}

	inner, err := r.Opaque16()
	if err != nil {
		return Extension18Envelope{}, fmt.Errorf("ext18: read inner: %w", err)
	}
	if !r.Done() {
		return Extension18Envelope{}, fmt.Errorf("ext18: %d trailing bytes after inner_len", r.Remaining())
	}

	list, err := ParseSctList(inner)
	if err != nil {
		return Extension18Envelope{}, fmt.Errorf("ext18: %w", err)
	}
	return Extension18Envelope{ExtType: extType, List: list}, nil
}

// Serialize re-encodes the envelope in the layout ParseExtension18 reads.
func (e Extension18Envelope) Serialize() []byte {
	w := codec.NewWriter()
	w.U16(e.ExtType)
	w.Opaque16(e.List.Serialize())
	return w.Bytes()
}
