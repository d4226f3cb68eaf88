package sct

import (
	"bytes"
	"testing"
)

func sampleSCT() SignedCertificateTimestamp {
	s := SignedCertificateTimestamp{
		Version:                Version1,
		TimestampMillis:        1348589665525,
		Extensions:             nil,
		SignatureAlgorithmHash: 4,
		SignatureAlgorithmSign: 3,
		Signature:              []byte{0x01, 0x02, 0x03, 0x04},
	}
	for i := range s.LogID {
		s.LogID[i] = byte(i)
	}
	return s
}

// TestSCTRoundTrip covers invariant 1: Parse(Serialize(s)) reproduces s,
// and the record is consumed exactly with no leftover bytes.
func TestSCTRoundTrip(t *testing.T) {
	want := sampleSCT()
	raw := want.Serialize()

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.Version != want.Version || got.LogID != want.LogID ||
		got.TimestampMillis != want.TimestampMillis ||
		got.SignatureAlgorithmHash != want.SignatureAlgorithmHash ||
		got.SignatureAlgorithmSign != want.SignatureAlgorithmSign ||
		!bytes.Equal(got.Signature, want.Signature) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if !bytes.Equal(got.Raw, raw) {
		t.Fatal("Raw does not match the bytes Parse consumed")
	}
}

func TestSCTParseRejectsTrailingBytes(t *testing.T) {
	raw := sampleSCT().Serialize()
	raw = append(raw, 0xFF)

	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for trailing bytes after signature")
	}
}

func TestSCTParseRejectsUnsupportedVersion(t *testing.T) {
	raw := sampleSCT().Serialize()
	raw[0] = 0x01

	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for unsupported SCT version")
	}
}

// TestSctListRoundTrip covers invariant 2: total_len must equal the
// remaining bytes exactly, and a round trip through Serialize/ParseSctList
// reproduces the same entries.
func TestSctListRoundTrip(t *testing.T) {
	list := SctList{Entries: []SignedCertificateTimestamp{sampleSCT(), sampleSCT()}}
	raw := list.Serialize()

	got, err := ParseSctList(raw)
	if err != nil {
		t.Fatalf("ParseSctList: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(got.Entries))
	}
}

func TestSctListRejectsLengthMismatch(t *testing.T) {
	list := SctList{Entries: []SignedCertificateTimestamp{sampleSCT()}}
	raw := list.Serialize()
	raw = append(raw, 0x00, 0x01, 0x02) // extra trailing bytes not covered by total_len

	if _, err := ParseSctList(raw); err == nil {
		t.Fatal("expected error when total_len does not match remaining bytes")
	}
}

func TestExtension18RoundTrip(t *testing.T) {
	env := Extension18Envelope{
		ExtType: TLSExtensionType,
		List:    SctList{Entries: []SignedCertificateTimestamp{sampleSCT()}},
	}
	raw := env.Serialize()

	got, err := ParseExtension18(raw)
	if err != nil {
		t.Fatalf("ParseExtension18: %v", err)
	}
	if got.ExtType != TLSExtensionType {
		t.Fatalf("ExtType = %d, want %d", got.ExtType, TLSExtensionType)
	}
	if len(got.List.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(got.List.Entries))
	}
}

func TestExtension18RejectsWrongExtType(t *testing.T) {
	env := Extension18Envelope{
		ExtType: 99,
		List:    SctList{Entries: []SignedCertificateTimestamp{sampleSCT()}},
	}
	raw := env.Serialize()

	if _, err := ParseExtension18(raw); err == nil {
		t.Fatal("expected error for non-18 extension type")
	}
}

func TestTimestampConversion(t *testing.T) {
	s := sampleSCT()
	ts := s.Timestamp()
	if ts.UnixMilli() != int64(s.TimestampMillis) {
		t.Fatalf("Timestamp() round trip = %d, want %d", ts.UnixMilli(), s.TimestampMillis)
	}
}
