package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// hashKey builds "kind:graph:params". The graph fingerprint stays readable so
// every entry for one graph shares a prefix; the parameters are hashed.
func hashKey(kind string, fp uint64, params ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(params, "\x00")))
	return kind + ":" + strconv.FormatUint(fp, 16) + ":" + hex.EncodeToString(sum[:16])
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
