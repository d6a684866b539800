// Package frontmatterops reads, rewrites and fingerprints content files at the
// level of their front matter fields.
package frontmatterops

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/htmlgen/internal/frontmatter"
)

// Fields that never take part in a fingerprint: the fingerprint itself and the
// body copies that loaders add to the field map.
var fingerprintExcluded = map[string]struct{}{
	mdfp.FingerprintField: {},
	"content":             {},
	"body":                {},
}

// ComputeFingerprint computes the content fingerprint of a document from its
// fields and raw body. Fields are serialized as sorted YAML with LF newlines and
// a single trailing newline trimmed before hashing.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	fieldsForHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, skip := fingerprintExcluded[k]; skip {
			continue
		}
		fieldsForHash[k] = v
	}

	frontmatterForHash := ""
	if len(fieldsForHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(fieldsForHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		frontmatterForHash = trimSingleTrailingNewline(string(serialized))
	}

	return mdfp.CalculateFingerprintFromParts(frontmatterForHash, string(body)), nil
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
