package certadapter

import (
	"encoding/asn1"
	"fmt"
)

// tbsFields mirrors the ASN.1 shape of TBSCertificate (RFC 5280 §4.1) using
// raw captures for every field: this adapter only needs to relocate the
// extensions field, never interpret the others.
type tbsFields struct {
	Raw                asn1.RawContent
	Version            asn1.RawValue `asn1:"optional,explicit,tag:0"`
	SerialNumber       asn1.RawValue
	SignatureAlgorithm asn1.RawValue
	Issuer             asn1.RawValue
	Validity           asn1.RawValue
	Subject            asn1.RawValue
	PublicKey          asn1.RawValue
	IssuerUniqueID     asn1.RawValue `asn1:"optional,tag:1"`
	SubjectUniqueID    asn1.RawValue `asn1:"optional,tag:2"`
	Extensions         asn1.RawValue `asn1:"optional,explicit,tag:3"`
}

type certShape struct {
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm asn1.RawValue
	SignatureValue     asn1.RawValue
}

// TBSForPrecertSigning returns the TBSCertificate of eeDER with its CT
// SCT-list extension removed, re-deriving the outer SEQUENCE length and the
// extensions SEQUENCE length. This is the "precertificate TBSCertificate"
// of RFC 6962 §3.2, used as the precert signing input.
func TBSForPrecertSigning(eeDER []byte) ([]byte, error) {
	var cert certShape
	if _, err := asn1.Unmarshal(eeDER, &cert); err != nil {
		return nil, fmt.Errorf("certadapter: unmarshal certificate: %w", err)
	}

	var tbs tbsFields
	if _, err := asn1.Unmarshal(cert.TBSCertificate.FullBytes, &tbs); err != nil {
		return nil, fmt.Errorf("certadapter: unmarshal tbsCertificate: %w", err)
	}

	if len(tbs.Extensions.FullBytes) == 0 {
		// No extensions field at all: nothing to strip, return as-is.
		return cert.TBSCertificate.FullBytes, nil
	}

	// tbs.Extensions.Bytes is the content of the explicit [3] wrapper,
	// i.e. the full TLV of the "SEQUENCE OF Extension" itself.
	var extSeq asn1.RawValue
	if _, err := asn1.Unmarshal(tbs.Extensions.Bytes, &extSeq); err != nil {
		return nil, fmt.Errorf("certadapter: unmarshal extensions sequence: %w", err)
	}

	var elems []asn1.RawValue
	if _, err := asn1.Unmarshal(extSeq.FullBytes, &elems); err != nil {
		return nil, fmt.Errorf("certadapter: unmarshal extension elements: %w", err)
	}

	var kept []byte
	found := false
	for _, elem := range elems {
		var e struct {
			OID      asn1.ObjectIdentifier
			Critical bool `asn1:"optional"`
			Value    []byte
		}
		if _, err := asn1.Unmarshal(elem.FullBytes, &e); err != nil {
			return nil, fmt.Errorf("certadapter: unmarshal extension: %w", err)
		}
		if e.OID.Equal(OIDCTList) {
			found = true
			continue
		}
		kept = append(kept, elem.FullBytes...)
	}
	if !found {
		return cert.TBSCertificate.FullBytes, nil
	}

	newExtSeq := derWrap(0x30, kept)
	newExplicit := derWrap(0xA3, newExtSeq)

	tbsContent := tbs.Raw[len(derLenPrefix(tbs.Raw)):] // content after the outer tag+length
	prefix := tbsContent[:len(tbsContent)-len(tbs.Extensions.FullBytes)]

	newTBSContent := append(append([]byte(nil), prefix...), newExplicit...)
	return derWrap(0x30, newTBSContent), nil
}

// derLenPrefix returns the tag+length header bytes of a DER TLV, so callers
// can slice off just the content.
func derLenPrefix(tlv []byte) []byte {
	if len(tlv) < 2 {
		return tlv
	}
	n := tlv[1]
	if n < 0x80 {
		return tlv[:2]
	}
	numLenBytes := int(n &^ 0x80)
	return tlv[:2+numLenBytes]
}

// derWrap prepends a DER tag+length header for content, under the given tag
// byte (e.g. 0x30 for a universal SEQUENCE, 0xA3 for a constructed
// context-specific [3]).
func derWrap(tag byte, content []byte) []byte {
	return append(append([]byte{tag}, derEncodeLength(len(content))...), content...)
}

// derEncodeLength encodes n as a DER length octet sequence.
func derEncodeLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var b []byte
	for v := n; v > 0; v >>= 8 {
		b = append([]byte{byte(v)}, b...)
	}
	return append([]byte{0x80 | byte(len(b))}, b...)
}
