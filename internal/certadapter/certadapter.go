// Package certadapter extracts the pieces of an X.509 certificate the SCT
// pipeline needs: embedded SCTs, the precertificate poison marker, the
// issuer's public-key hash, and the precertificate TBS (with its SCT-list
// extension stripped) used as a precert signing input.
package certadapter

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"fmt"

	"github.com/ivoronin/sctvet/internal/sct"
)

// OIDCTList is the X.509 extension OID carrying the embedded SCT list
// (RFC 6962 §3.3).
var OIDCTList = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 2}

// OIDCTPoison is the critical "poison" extension marking a precertificate
// (RFC 6962 §3.1).
var OIDCTPoison = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 3}

// EmbeddedSCTs locates the CT extension in certDER and decodes its
// TLS-encoded SctList. Returns nil if the extension is absent.
func EmbeddedSCTs(certDER []byte) ([]sct.SignedCertificateTimestamp, error) {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("certadapter: parse certificate: %w", err)
	}

	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(OIDCTList) {
			continue
		}

		var inner []byte
		if _, err := asn1.Unmarshal(ext.Value, &inner); err != nil {
			return nil, fmt.Errorf("certadapter: unwrap SCT list octet string: %w", err)
		}

		list, err := sct.ParseSctList(inner)
		if err != nil {
			return nil, fmt.Errorf("certadapter: parse embedded SCT list: %w", err)
		}
		return list.Entries, nil
	}
	return nil, nil
}

// IsPrecertificate reports whether certDER carries the critical CT poison
// extension.
func IsPrecertificate(certDER []byte) (bool, error) {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return false, fmt.Errorf("certadapter: parse certificate: %w", err)
	}
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(OIDCTPoison) {
			return true, nil
		}
	}
	return false, nil
}

// IssuerKeyHash returns the SHA-256 hash of issuerDER's DER-encoded
// SubjectPublicKeyInfo.
func IssuerKeyHash(issuerDER []byte) ([32]byte, error) {
	cert, err := x509.ParseCertificate(issuerDER)
	if err != nil {
		return [32]byte{}, fmt.Errorf("certadapter: parse issuer certificate: %w", err)
	}
	return sha256.Sum256(cert.RawSubjectPublicKeyInfo), nil
}

// OrderIssuerCandidates builds the deterministic candidate-issuer order a
// precert signature input is tried against: the presented chain (excluding
// the end-entity leaf, which callers pass separately) in presentation
// order, with the end-entity itself appended last as the degenerate
// self-issued candidate.
func OrderIssuerCandidates(chainDER [][]byte, eeDER []byte) [][]byte {
	out := make([][]byte, 0, len(chainDER)+1)
	out = append(out, chainDER...)
	out = append(out, eeDER)
	return out
}
