package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonwraymond/usarops/readiness"
)

// Fingerprint derives the canonical cache/task key for a task force and
// its inclusion options.
// Format: readiness:<taskForceID>:<hash>
// where hash is the first 16 hex characters of SHA-256 over a
// canonicalized, order-independent encoding of the options.
func Fingerprint(taskForceID string, opts readiness.Options) string {
	canonical := canonicalizeOptions(opts)
	hash := sha256.Sum256(canonical)
	return fmt.Sprintf("readiness:%s:%s", taskForceID, hex.EncodeToString(hash[:8]))
}

// canonicalizeOptions produces a deterministic encoding of the options.
// Fields are emitted in sorted key order so the fingerprint is stable
// regardless of how the option set was assembled.
func canonicalizeOptions(opts readiness.Options) []byte {
	fields := map[string]bool{
		"include_personnel": opts.IncludePersonnel,
		"include_equipment": opts.IncludeEquipment,
		"include_missions":  opts.IncludeMissions,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyBytes, _ := json.Marshal(k)
		result = append(result, keyBytes...)
		result = append(result, ':')
		valBytes, _ := json.Marshal(fields[k])
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result
}
