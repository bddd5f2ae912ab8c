package curve

import (
	"crypto/sha256"
	"encoding/binary"
)

// Key is the 128-bit opaque symmetric key produced by the random
// oracle — the only kind of value a batch of OTs ever outputs.
type Key [16]byte

// RandomOracle hashes a curve point together with a nonce into a
// 128-bit key. The point is absorbed as the ASCII bytes of its
// compressed-hex encoding (Point.Marshal, with no length prefix — that
// framing only applies on the wire, not here); the nonce is absorbed as
// its 8 raw little-endian bytes. The digest is SHA-256; the output key
// is the digest's first 16 bytes with the byte order reversed, to
// reproduce the source's lane-reversed load of the hash output
// byte-for-byte.
//
// This system only ever calls RandomOracle with nonce 0 (sender's
// branch 0), nonce 1 (sender's branch 1, and the receiver's choice bit
// when set), or nonce 0 (the receiver's choice bit when clear) — no
// other nonce value is used.
func RandomOracle(p *Point, nonce uint64) Key {
	h := sha256.New()
	h.Write([]byte(p.Marshal()))

	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)
	h.Write(nonceBuf[:])

	digest := h.Sum(nil)

	var key Key
	for i := 0; i < len(key); i++ {
		key[i] = digest[len(key)-1-i]
	}
	return key
}
