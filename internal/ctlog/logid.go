package ctlog

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LogID is the 32-byte SHA-256 hash of a CT log's DER-encoded
// SubjectPublicKeyInfo (RFC 6962 §3.2).
type LogID [sha256.Size]byte

const sha256Pairs = 32

var rawHexRe = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)

var separatorRe = regexp.MustCompile(`^[0-9A-Fa-f]{2}([:][0-9A-Fa-f]{2}){31}$`)

// separatedGrammar parses a colon-separated run of hex pairs, rejecting
// mixed or doubled separators the way a regexp alone would accept.
//
// Grammar:
//
//	logid := PAIR ( ':' PAIR )*
//	PAIR   := [0-9A-Fa-f]{2}
type separatedGrammar struct {
	Pairs []string `parser:"@Pair ( Sep @Pair )*"`
}

var separatedLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Pair", Pattern: `[0-9A-Fa-f]{2}`},
	{Name: "Sep", Pattern: `:`},
})

var separatedParser = participle.MustBuild[separatedGrammar](
	participle.Lexer(separatedLexer),
)

// ParseLogID accepts a log ID as raw 64-char hex, colon-separated hex
// pairs, or standard base64 (the encoding the log-list JSON itself uses).
func ParseLogID(input string) (LogID, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return LogID{}, fmt.Errorf("ctlog: empty log id")
	}

	switch {
	case rawHexRe.MatchString(input):
		b, err := hex.DecodeString(input)
		if err != nil {
			return LogID{}, fmt.Errorf("ctlog: invalid hex log id: %w", err)
		}
		return idFromBytes(b)

	case separatorRe.MatchString(input):
		parsed, err := separatedParser.ParseString("", input)
		if err != nil {
			return LogID{}, fmt.Errorf("ctlog: invalid log id format: %w", err)
		}
		if len(parsed.Pairs) != sha256Pairs {
			return LogID{}, fmt.Errorf("ctlog: invalid log id length: got %d pairs, want %d", len(parsed.Pairs), sha256Pairs)
		}
		b, err := hex.DecodeString(strings.Join(parsed.Pairs, ""))
		if err != nil {
			return LogID{}, fmt.Errorf("ctlog: invalid hex log id: %w", err)
		}
		return idFromBytes(b)

	default:
		b, err := base64.StdEncoding.DecodeString(input)
		if err != nil {
			return LogID{}, fmt.Errorf("ctlog: log id is neither hex nor base64: %w", err)
		}
		return idFromBytes(b)
	}
}

func idFromBytes(b []byte) (LogID, error) {
	if len(b) != sha256.Size {
		return LogID{}, fmt.Errorf("ctlog: log id must be %d bytes, got %d", sha256.Size, len(b))
	}
	var id LogID
	copy(id[:], b)
	return id, nil
}

// String renders the canonical colon-hex form.
func (id LogID) String() string {
	parts := make([]string, len(id))
	for i, b := range id {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

// Base64 renders the standard base64 form the log-list JSON uses.
func (id LogID) Base64() string {
	return base64.StdEncoding.EncodeToString(id[:])
}
