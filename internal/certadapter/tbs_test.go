package certadapter

import (
	"encoding/asn1"
	"testing"
)

type testExt struct {
	ID       asn1.ObjectIdentifier
	Critical bool `asn1:"optional"`
	Value    []byte
}

func buildExtension(t *testing.T, oid asn1.ObjectIdentifier, value []byte) []byte {
	t.Helper()
	b, err := asn1.Marshal(testExt{ID: oid, Value: value})
	if err != nil {
		t.Fatalf("marshal extension: %v", err)
	}
	return b
}

// buildCert hand-assembles a minimal, structurally valid Certificate DER
// with two extensions when withCTExt is true: an unrelated one and the CT
// SCT-list extension that TBSForPrecertSigning must strip.
func buildCert(t *testing.T, withCTExt bool) []byte {
	t.Helper()

	serial := derWrap(0x02, []byte{0x01})
	sigAlg := derWrap(0x30, nil)
	issuer := derWrap(0x30, nil)
	validity := derWrap(0x30, nil)
	subject := derWrap(0x30, nil)
	pubKey := derWrap(0x30, nil)

	unrelatedValue, err := asn1.Marshal([]byte{0xAA, 0xBB})
	if err != nil {
		t.Fatalf("marshal octet string: %v", err)
	}
	exts := buildExtension(t, asn1.ObjectIdentifier{2, 5, 29, 19}, unrelatedValue)

	if withCTExt {
		sctListValue, err := asn1.Marshal([]byte{0x00, 0x02, 0xAB, 0xCD})
		if err != nil {
			t.Fatalf("marshal octet string: %v", err)
		}
		exts = append(exts, buildExtension(t, OIDCTList, sctListValue)...)
	}

	extSeq := derWrap(0x30, exts)
	explicit3 := derWrap(0xA3, extSeq)

	tbsContent := concatAll(serial, sigAlg, issuer, validity, subject, pubKey, explicit3)
	tbs := derWrap(0x30, tbsContent)

	sigAlgOuter := derWrap(0x30, nil)
	sigValueOuter := derWrap(0x03, []byte{0x00})

	return derWrap(0x30, concatAll(tbs, sigAlgOuter, sigValueOuter))
}

func concatAll(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestTBSForPrecertSigningRemovesCTExtension(t *testing.T) {
	certDER := buildCert(t, true)

	tbs, err := TBSForPrecertSigning(certDER)
	if err != nil {
		t.Fatalf("TBSForPrecertSigning: %v", err)
	}

	var fields tbsFields
	if _, err := asn1.Unmarshal(tbs, &fields); err != nil {
		t.Fatalf("resulting TBS does not parse as a TBSCertificate: %v", err)
	}

	var extSeq asn1.RawValue
	if _, err := asn1.Unmarshal(fields.Extensions.Bytes, &extSeq); err != nil {
		t.Fatalf("unmarshal extensions sequence: %v", err)
	}
	var elems []asn1.RawValue
	if _, err := asn1.Unmarshal(extSeq.FullBytes, &elems); err != nil {
		t.Fatalf("unmarshal extension elements: %v", err)
	}

	if len(elems) != 1 {
		t.Fatalf("got %d extensions after stripping, want 1", len(elems))
	}
	var kept testExt
	if _, err := asn1.Unmarshal(elems[0].FullBytes, &kept); err != nil {
		t.Fatalf("unmarshal kept extension: %v", err)
	}
	if kept.ID.Equal(OIDCTList) {
		t.Fatal("CT SCT-list extension was not removed")
	}
}

func TestTBSForPrecertSigningNoOpWithoutCTExtension(t *testing.T) {
	certDER := buildCert(t, false)

	tbs, err := TBSForPrecertSigning(certDER)
	if err != nil {
		t.Fatalf("TBSForPrecertSigning: %v", err)
	}

	var cert certShape
	if _, err := asn1.Unmarshal(certDER, &cert); err != nil {
		t.Fatalf("unmarshal original certificate: %v", err)
	}
	if string(tbs) != string(cert.TBSCertificate.FullBytes) {
		t.Fatal("TBS was modified even though no CT extension was present")
	}
}
