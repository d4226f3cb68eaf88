// Package ocspadapter locates the CT SCT-list extension carried in a
// stapled OCSP response (RFC 6962 §3.3). Generic OCSP ASN.1 decoding is
// delegated to golang.org/x/crypto/ocsp; this package owns only the
// CT-specific extension lookup.
package ocspadapter

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/ocsp"

	"github.com/ivoronin/sctvet/internal/sct"
)

// OIDCTOCSPList is the OCSP single-extension OID carrying the SCT list for
// the certificate the response covers.
var OIDCTOCSPList = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 5}

// EmbeddedSCTs parses a DER-encoded OCSP response and returns the SCTs
// found in its CT extension. issuer verification is intentionally skipped
// (ParseResponse is called with a nil issuer): this adapter only recovers
// the embedded SCTs, never rules on revocation status. Returns nil if the
// extension is absent.
func EmbeddedSCTs(ocspDER []byte) ([]sct.SignedCertificateTimestamp, error) {
	resp, err := ocsp.ParseResponse(ocspDER, nil)
	if err != nil {
		return nil, fmt.Errorf("ocspadapter: parse OCSP response: %w", err)
	}

	for _, ext := range resp.Extensions {
		if !ext.Id.Equal(OIDCTOCSPList) {
			continue
		}

		var inner []byte
		if _, err := asn1.Unmarshal(ext.Value, &inner); err != nil {
			return nil, fmt.Errorf("ocspadapter: unwrap SCT list octet string: %w", err)
		}

		list, err := sct.ParseSctList(inner)
		if err != nil {
			return nil, fmt.Errorf("ocspadapter: parse SCT list: %w", err)
		}
		return list.Entries, nil
	}
	return nil, nil
}
