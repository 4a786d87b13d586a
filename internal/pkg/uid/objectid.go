package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"sync/atomic"
	"time"
)

// ErrStableNodeIdentityUnavailable indicates neither machine-id nor
// hostname could anchor this process to a node.
var ErrStableNodeIdentityUnavailable = errors.New("uid: cannot determine stable node identity (machine-id/hostname unavailable)")

// ObjectIDGenerator produces 32-byte IDs rendered as 64-char hex. The
// layout packs a millisecond timestamp, a stable node hash, the pid, a
// counter and random tail bytes, so IDs sort roughly by creation time and
// stay unique across replicas.
type ObjectIDGenerator struct {
	nodeID  [6]byte
	pid     uint16
	counter uint32
}

// NewObjectIDGenerator derives the node bytes from the stable node
// identity and seeds the counter from crypto/rand.
func NewObjectIDGenerator() (*ObjectIDGenerator, error) {
	src, err := stableNodeIdentity()
	if err != nil {
		return nil, err
	}

	g := &ObjectIDGenerator{pid: uint16(os.Getpid())}

	sum := sha256.Sum256([]byte(src))
	copy(g.nodeID[:], sum[:6])

	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	g.counter = binary.BigEndian.Uint32(b[:])

	return g, nil
}

// Generate returns a new 64-char hex ID.
//
// Layout: 6-byte millisecond timestamp, 6-byte node id, 2-byte pid,
// 4-byte counter, 14 random bytes. All multi-byte fields are big-endian.
func (g *ObjectIDGenerator) Generate() string {
	var raw [32]byte

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixMilli()))
	copy(raw[0:6], ts[2:8])

	copy(raw[6:12], g.nodeID[:])
	binary.BigEndian.PutUint16(raw[12:14], g.pid)
	binary.BigEndian.PutUint32(raw[14:18], atomic.AddUint32(&g.counter, 1))

	// Random tail; when the source fails, hash the deterministic prefix
	// instead so the ID is still filled.
	if _, err := rand.Read(raw[18:]); err != nil {
		sum := sha256.Sum256(raw[:18])
		copy(raw[18:], sum[:14])
	}

	var hexBuf [64]byte
	hex.Encode(hexBuf[:], raw[:])
	return string(hexBuf[:])
}
