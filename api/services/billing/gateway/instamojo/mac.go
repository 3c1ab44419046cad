package instamojo

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// ComputeMAC returns the hex-encoded HMAC-SHA1 Instamojo computes over a
// webhook payload: every field except mac, sorted by field name, values
// joined with "|", keyed with the account salt.
func ComputeMAC(fields map[string]string, salt string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "mac" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = fields[k]
	}

	mac := hmac.New(sha1.New, []byte(salt))
	mac.Write([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyMAC reports whether the mac field of a webhook payload matches the
// signature recomputed from the remaining fields. The comparison is
// constant-time.
func VerifyMAC(fields map[string]string, salt string) bool {
	provided := fields["mac"]
	expected := ComputeMAC(fields, salt)
	return hmac.Equal([]byte(expected), []byte(provided))
}
