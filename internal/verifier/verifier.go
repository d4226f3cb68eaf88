// Package verifier orchestrates per-SCT verification: log lookup,
// algorithm mapping, signature-input construction, and cryptographic
// verification. A verifier never panics or returns an error on a
// cryptographic failure; failures are reported as VerificationResult
// values (spec §7: cryptographic outcomes are never exceptions).
package verifier

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"

	"github.com/ivoronin/sctvet/internal/certadapter"
	"github.com/ivoronin/sctvet/internal/ctlog"
	"github.com/ivoronin/sctvet/internal/sct"
	"github.com/ivoronin/sctvet/internal/siginput"
)

// Reason classifies why a VerificationResult did or did not succeed.
type Reason string

const (
	ReasonOK             Reason = "Ok"
	ReasonUnknownLog     Reason = "UnknownLog"
	ReasonBadSignature   Reason = "BadSignature"
	ReasonUnsupportedAlg Reason = "UnsupportedAlg"
	ReasonMalformedInput Reason = "MalformedInput"
)

// VerificationResult is the outcome of verifying one SCT.
type VerificationResult struct {
	SCT      sct.SignedCertificateTimestamp
	Log      *ctlog.Log
	Verified bool
	Reason   Reason

	// MatchedIssuerIndex records which issuer candidate (into the slice
	// passed to Verify) produced a successful precert verification; -1
	// when not applicable (leaf kind, or no candidate matched).
	MatchedIssuerIndex int
}

// Kind selects which signature-input shape a batch of SCTs uses.
type Kind int

const (
	// KindLeaf signs the end-entity certificate directly (TLS and OCSP
	// delivered SCTs).
	KindLeaf Kind = iota
	// KindPrecert signs the precertificate TBS (embedded SCTs).
	KindPrecert
)

// The TLS SignatureAndHashAlgorithm values observed in deployed CT logs.
const (
	hashSHA256 uint8 = 4
	signECDSA  uint8 = 3
	signRSA    uint8 = 1
)

// Verify checks every SCT in scts against the log registry, producing one
// VerificationResult per SCT in the same order. eeDER is the end-entity
// certificate DER; for KindPrecert, issuerCandidates supplies the ordered
// candidate issuers (certadapter.OrderIssuerCandidates).
func Verify(eeDER []byte, scts []sct.SignedCertificateTimestamp, registry *ctlog.Registry, kind Kind, issuerCandidates [][]byte) []VerificationResult {
	results := make([]VerificationResult, 0, len(scts))
	for _, s := range scts {
		results = append(results, verifyOne(eeDER, s, registry, kind, issuerCandidates))
	}
	return results
}

func verifyOne(eeDER []byte, s sct.SignedCertificateTimestamp, registry *ctlog.Registry, kind Kind, issuerCandidates [][]byte) VerificationResult {
	result := VerificationResult{SCT: s, MatchedIssuerIndex: -1}

	log, ok := registry.Lookup(ctlog.LogID(s.LogID))
	if !ok {
		result.Reason = ReasonUnknownLog
		return result
	}
	result.Log = log

	pubKey, err := x509.ParsePKIXPublicKey(log.Key)
	if err != nil {
		result.Reason = ReasonMalformedInput
		return result
	}

	verify, ok := verifyFuncFor(s.SignatureAlgorithmHash, s.SignatureAlgorithmSign, pubKey)
	if !ok {
		result.Reason = ReasonUnsupportedAlg
		return result
	}

	switch kind {
	case KindLeaf:
		input := siginput.BuildLeaf(s, eeDER)
		if verify(input, s.Signature) {
			result.Verified = true
			result.Reason = ReasonOK
		} else {
			result.Reason = ReasonBadSignature
		}

	case KindPrecert:
		tbs, err := certadapter.TBSForPrecertSigning(eeDER)
		if err != nil {
			result.Reason = ReasonMalformedInput
			return result
		}
		for i, candidate := range issuerCandidates {
			keyHash, err := certadapter.IssuerKeyHash(candidate)
			if err != nil {
				continue
			}
			input := siginput.BuildPrecert(s, keyHash, tbs)
			if verify(input, s.Signature) {
				result.Verified = true
				result.Reason = ReasonOK
				result.MatchedIssuerIndex = i
				return result
			}
		}
		result.Reason = ReasonBadSignature
	}

	return result
}

// verifyFunc checks a signature over a message, returning true on success.
type verifyFunc func(message, signature []byte) bool

func verifyFuncFor(hashAlg, signAlg uint8, pubKey any) (verifyFunc, bool) {
	if hashAlg != hashSHA256 {
		return nil, false
	}

	switch signAlg {
	case signECDSA:
		key, ok := pubKey.(*ecdsa.PublicKey)
		if !ok {
			return nil, false
		}
		return func(message, signature []byte) bool {
			digest := sha256.Sum256(message)
			return ecdsa.VerifyASN1(key, digest[:], signature)
		}, true

	case signRSA:
		key, ok := pubKey.(*rsa.PublicKey)
		if !ok {
			return nil, false
		}
		return func(message, signature []byte) bool {
			digest := sha256.Sum256(message)
			return rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature) == nil
		}, true

	default:
		return nil, false
	}
}
