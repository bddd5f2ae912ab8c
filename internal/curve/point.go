package curve

import (
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"math/big"
)

// ErrWireDecode indicates a point encoding could not be accepted: the
// payload was not valid hex, the decoded bytes are not on the curve, or
// the decoded point is the identity element. A correct peer never
// produces any of these; they only arise from a malformed or malicious
// message.
var ErrWireDecode = errors.New("curve: invalid point encoding")

// Point is an element of the P-256 group, owned by whichever side
// created it. A Point carries the curve it belongs to so Unmarshal can
// validate membership without a separate Context handle.
type Point struct {
	curve elliptic.Curve
	x, y  *big.Int
}

// Marshal encodes p as the hex of its SEC1 compressed serialization —
// the same form produced by a conversion using
// POINT_CONVERSION_COMPRESSED, hex-encoded. This is the form absorbed
// by the random oracle (oracle.go) and, with a length prefix added by
// the transport layer, the form put on the wire by pkg/ot.
func (p *Point) Marshal() string {
	return hex.EncodeToString(elliptic.MarshalCompressed(p.curve, p.x, p.y))
}

// Unmarshal decodes s — hex of a SEC1-compressed point, either case —
// into p. It rejects non-hex input, points not on the curve, and the
// point at infinity, returning ErrWireDecode in each case.
func (p *Point) Unmarshal(s string) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ErrWireDecode
	}
	x, y := elliptic.UnmarshalCompressed(p.curve, raw)
	if x == nil || y == nil {
		return ErrWireDecode
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		// the point at infinity has no valid SEC1 compressed encoding
		// under UnmarshalCompressed; reject explicitly regardless.
		return ErrWireDecode
	}
	p.x, p.y = x, y
	return nil
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}
