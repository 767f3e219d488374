package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Key types reported to observability hooks.
const (
	KeyTypeFeatures = "features"
	KeyTypeHPWL     = "hpwl"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphHash returns a content hash of the working nodes and edges of g in
// long record form. Extra params (normalization settings, grid pitches)
// are folded into the hash.
func GraphHash(g *netlist.Graph, params ...any) string {
	h := sha256.New()
	fmt.Fprintln(h, netlist.RecordVersion)
	for _, n := range g.Nodes() {
		fmt.Fprintln(h, n.Record(netlist.Long, -1))
	}
	for _, e := range g.Edges() {
		fmt.Fprintln(h, e.Record(netlist.Long, -1))
	}
	if len(params) > 0 {
		data, _ := json.Marshal(params)
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FeatureKey is the key of the feature vector of component id with k
// neighbor blocks in the full or simplified layout.
func FeatureKey(graphHash string, id, k int, simplified bool) string {
	return hashKey(KeyTypeFeatures, graphHash, id, k, simplified)
}

// HPWLKey is the key of the whole-design wirelength.
func HPWLKey(graphHash string, includeUnplaced bool) string {
	return hashKey(KeyTypeHPWL, graphHash, includeUnplaced)
}
