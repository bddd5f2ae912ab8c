// Package curve provides the P-256 group arithmetic, scalar sampling and
// random-oracle key derivation that the Naor–Pinkas base OT protocol in
// pkg/ot is built on. It owns the group parameters (component A of the
// design) and the point wire codec (component B); pkg/ot owns the message
// schedule and the transport framing around it.
package curve

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrInit indicates the P-256 group or its order could not be
// constructed. This should never happen with the standard library's
// built-in P-256 implementation; it exists for symmetry with the
// source protocol, which builds its group from OpenSSL at runtime.
var ErrInit = errors.New("curve: failed to initialize P-256 group")

// Context owns the group parameters for one protocol session: the
// P-256 curve and its prime order q. Both are immutable for the
// lifetime of the Context, so a Context is safe for concurrent use by
// multiple goroutines as long as each session drives its own batch
// sequentially (see package ot for the session/thread model).
type Context struct {
	curve elliptic.Curve
	order *big.Int
}

// NewContext constructs a Context bound to NIST P-256 (secp256r1,
// a.k.a. prime256v1).
func NewContext() (*Context, error) {
	c := elliptic.P256()
	params := c.Params()
	if params == nil || params.N == nil || params.N.Sign() <= 0 {
		return nil, ErrInit
	}
	return &Context{curve: c, order: new(big.Int).Set(params.N)}, nil
}

// Order returns q, the prime order of the generator g.
func (c *Context) Order() *big.Int {
	return new(big.Int).Set(c.order)
}

// RandomScalar returns a uniformly random Scalar in [0, max) using a
// cryptographic RNG. max must be positive.
func (c *Context) RandomScalar(max *big.Int) (*Scalar, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("curve: sampling range must be positive")
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, fmt.Errorf("curve: rng failure: %w", err)
	}
	return &Scalar{buf: n.Bytes()}, nil
}

// NewPoint returns a blank point bound to this context, suitable as a
// decode target for Unmarshal.
func (c *Context) NewPoint() *Point {
	return &Point{curve: c.curve, x: new(big.Int), y: new(big.Int)}
}

// MulBase returns g^k, the scalar multiplication of the base point by k.
func (c *Context) MulBase(k *Scalar) *Point {
	x, y := c.curve.ScalarBaseMult(k.buf)
	return &Point{curve: c.curve, x: x, y: y}
}

// Mul returns P^k.
func (c *Context) Mul(p *Point, k *Scalar) *Point {
	x, y := c.curve.ScalarMult(p.x, p.y, k.buf)
	return &Point{curve: c.curve, x: x, y: y}
}

// Add returns P + Q.
func (c *Context) Add(p, q *Point) *Point {
	x, y := c.curve.Add(p.x, p.y, q.x, q.y)
	return &Point{curve: c.curve, x: x, y: y}
}

// Invert returns -P.
func (c *Context) Invert(p *Point) *Point {
	negY := new(big.Int).Neg(p.y)
	negY.Mod(negY, c.curve.Params().P)
	return &Point{curve: c.curve, x: new(big.Int).Set(p.x), y: negY}
}
