// Package siginput reconstructs the exact byte sequence a CT log signed
// over when it issued an SCT (RFC 6962 §3.2, the "digitally-signed" input).
package siginput

import (
	"github.com/ivoronin/sctvet/internal/codec"
	"github.com/ivoronin/sctvet/internal/sct"
)

// EntryType distinguishes the two signature-input shapes RFC 6962 defines.
type EntryType uint16

const (
	// EntryTypeX509 signs the raw end-entity certificate DER.
	EntryTypeX509 EntryType = 0
	// EntryTypePrecert signs an issuer-key hash plus the precert TBS.
	EntryTypePrecert EntryType = 1
)

// signatureType is always certificate_timestamp (0) for SCTs; the other
// RFC 6962 value, tree_hash, never appears in an SCT signature input.
const signatureType uint8 = 0

// BuildLeaf constructs the signature input for an SCT that signs the
// end-entity certificate directly (TLS- and OCSP-delivered SCTs): entry
// type 0, raw certificate DER.
func BuildLeaf(s sct.SignedCertificateTimestamp, eeDER []byte) []byte {
	return build(s, EntryTypeX509, nil, eeDER)
}

// BuildPrecert constructs the signature input for an embedded SCT, which
// signs the precertificate: entry type 1, issuer key hash, and the
// end-entity TBS with the SCT-list extension stripped.
func BuildPrecert(s sct.SignedCertificateTimestamp, issuerKeyHash [32]byte, tbsNoSCT []byte) []byte {
	return build(s, EntryTypePrecert, issuerKeyHash[:], tbsNoSCT)
}

func build(s sct.SignedCertificateTimestamp, entryType EntryType, issuerKeyHash []byte, body []byte) []byte {
	w := codec.NewWriter()
	w.U8(s.Version)
	w.U8(signatureType)
	w.U64(s.TimestampMillis)
	w.U16(uint16(entryType))

	switch entryType {
	case EntryTypeX509:
		w.Opaque24(body)
	case EntryTypePrecert:
		w.Fixed(issuerKeyHash)
		w.Opaque24(body)
	}

	w.Opaque16(s.Extensions)
	return w.Bytes()
}
