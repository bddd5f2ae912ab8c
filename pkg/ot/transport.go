package ot

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/wwentiif/fbpcf/internal/curve"
	"github.com/wwentiif/fbpcf/internal/util"
)

// Agent is the contract this protocol requires of the external
// party-communication agent: a reliable, ordered duplex byte stream
// between the two parties. The fixed-width length prefixes of this
// protocol's wire format are framed on top of it by sendSingleUint64
// and receiveSingleUint64 below. The agent's own
// reliability, reconnection and authentication policy is out of scope
// here.
type Agent interface {
	// Send writes all of b, returning once delivered to the transport.
	Send(b []byte) error
	// Receive reads exactly size bytes.
	Receive(size uint64) ([]byte, error)
}

// streamAgent adapts any io.ReadWriter — typically a net.Conn — into
// an Agent. All operations are blocking, matching the suspension-point
// model in the design: every transport call may block, all curve
// arithmetic and hashing never does.
type streamAgent struct {
	rw io.ReadWriter
}

// NewStreamAgent returns an Agent backed by rw.
func NewStreamAgent(rw io.ReadWriter) Agent {
	return &streamAgent{rw: rw}
}

func (a *streamAgent) Send(b []byte) error {
	if _, err := a.rw.Write(b); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (a *streamAgent) Receive(size uint64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(a.rw, buf); err != nil {
		return nil, &TransportError{Err: err}
	}
	return buf, nil
}

// sendSingleUint64 writes v as 8 little-endian bytes. This is a fresh
// deployment, not an interop shim for an existing peer, so the length
// prefix is normalized to little-endian on both sides rather than left
// in the host's native byte order (see design notes on wire-compat
// hazards across architectures).
func sendSingleUint64(a Agent, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return a.Send(buf[:])
}

// receiveSingleUint64 reads 8 little-endian bytes into a uint64.
func receiveSingleUint64(a Agent) (uint64, error) {
	buf, err := a.Receive(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// sendPoint writes a point as a length-prefixed hex blob: an 8-byte
// little-endian length, followed by that many bytes of lower-case hex
// of the point's compressed SEC1 encoding. The write is abandoned, and
// ctx.Err returned, if ctx is done before the agent accepts it.
func sendPoint(ctx context.Context, a Agent, p *curve.Point) error {
	enc := []byte(p.Marshal())
	return util.Sel(ctx, func() error {
		if err := sendSingleUint64(a, uint64(len(enc))); err != nil {
			return err
		}
		return a.Send(enc)
	})
}

// receivePoint reads a length-prefixed hex blob and decodes it into a
// fresh point bound to curveCtx. A length prefix longer than the hex of
// a compressed point, a payload of the wrong length, non-hex payload,
// off-curve point, or the identity element all surface as
// WireDecodeError; a prefix that claims more bytes than the peer
// delivers surfaces as the agent's read error (a TransportError for a
// stream agent). The read is abandoned, and ctx.Err returned, if ctx
// is done before the agent delivers it.
func receivePoint(ctx context.Context, a Agent, curveCtx *curve.Context) (*curve.Point, error) {
	// hex of a 33-byte SEC1 compressed P-256 point
	const maxPointHexLen = 66

	var p *curve.Point
	err := util.Sel(ctx, func() error {
		size, err := receiveSingleUint64(a)
		if err != nil {
			return err
		}
		if size > maxPointHexLen {
			return &WireDecodeError{Err: curve.ErrWireDecode}
		}
		enc, err := a.Receive(size)
		if err != nil {
			return err
		}
		p = curveCtx.NewPoint()
		if err := p.Unmarshal(string(enc)); err != nil {
			return &WireDecodeError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
