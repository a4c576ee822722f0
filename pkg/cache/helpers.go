package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ListKey generates a deterministic cache key for a list endpoint from
// its filter parameters.
//
// The same prefix and params always produce the same key, so identical
// list requests hit the same cached entry, and writes can invalidate
// every variant with the "<prefix>:*" pattern.
func ListKey(prefix string, params map[string]string) string {
	h := sha256.New()

	// Sort params for deterministic key generation
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(params[k]))
	}

	hash := hex.EncodeToString(h.Sum(nil))[:16]
	return fmt.Sprintf("%s:%s", prefix, hash)
}

// Helper functions for int64 conversion
func parseInt64(data []byte) (int64, error) {
	str := string(data)
	return strconv.ParseInt(str, 10, 64)
}

func formatInt64(value int64) []byte {
	return []byte(strconv.FormatInt(value, 10))
}
