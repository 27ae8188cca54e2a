package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

// hashKey builds prefix:sha256(contentHash, opts). The fields are written
// NUL-separated in a fixed order, so equal inputs give equal keys.
func hashKey(prefix, contentHash string, opts ExportKeyOpts) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\x00%t", contentHash, opts.Format, opts.Width, opts.Height, opts.Curves)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ContentHash hashes what an export of doc depends on: name, kind, nodes
// and connections. The id and timestamps are left out.
func ContentHash(doc *canvas.Document) (string, error) {
	data, err := json.Marshal(struct {
		Name        string              `json:"name"`
		Kind        canvas.DocumentKind `json:"type"`
		Nodes       []canvas.Node       `json:"nodes"`
		Connections []canvas.Connection `json:"connections"`
	}{doc.Name, doc.Kind, doc.Nodes(), doc.Connections()})
	if err != nil {
		return "", fmt.Errorf("hash canvas: %w", err)
	}
	return Hash(data), nil
}
