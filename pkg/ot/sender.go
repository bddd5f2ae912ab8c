package ot

import (
	"context"
	"math/big"

	"github.com/wwentiif/fbpcf/internal/curve"
	otlog "github.com/wwentiif/fbpcf/pkg/log"
)

// Key is the 128-bit symmetric key a batch of OTs produces one pair of
// per transfer: (m0[i], m1[i]) for the sender, the single key matching
// its choice bit for the receiver.
type Key = curve.Key

// Sender is the sending party's handle for one base OT batch: it holds
// the curve context and the wire agent for the lifetime of a session.
// A Sender is not safe for concurrent use — drive one batch at a time.
type Sender struct {
	ctx   *curve.Context
	agent Agent
}

// NewSender constructs a Sender communicating over agent. It fails
// only if the P-256 group cannot be initialized.
func NewSender(agent Agent) (*Sender, error) {
	c, err := curve.NewContext()
	if err != nil {
		return nil, &CurveInitError{Err: err}
	}
	return &Sender{ctx: c, agent: agent}, nil
}

// Send runs the sender side of a batch of n base OTs and returns the
// two message keys m0[i], m1[i] for every i in [0, n). The receiver's
// Receive must be driven concurrently against the paired Agent.
//
// The message schedule is security-critical: this function receives
// every s[i] from the receiver before it sends any gr[i] back. The two
// loops below must stay in that order and must not be interleaved or
// merged — mixing the phases would let an on-path adversary choose its
// own s[i] values after observing gr[j] for j < i.
func (s *Sender) Send(ctx context.Context, n int) (m0, m1 []Key, err error) {
	log := otlog.GetLoggerFromContextWithName(ctx, "sender").WithValues("n", n)
	log.V(1).Info("starting base OT batch")

	order := s.ctx.Order()

	c, err := s.ctx.RandomScalar(order)
	if err != nil {
		return nil, nil, &RngError{Err: err}
	}
	defer c.Zeroize()
	gc := s.ctx.MulBase(c)

	if err := sendPoint(ctx, s.agent, gc); err != nil {
		return nil, nil, err
	}

	sPoints := make([]*curve.Point, n)
	for i := 0; i < n; i++ {
		p, err := receivePoint(ctx, s.agent, s.ctx)
		if err != nil {
			return nil, nil, err
		}
		sPoints[i] = p
	}
	log.V(1).Info("received all choice points")

	m0 = make([]Key, n)
	m1 = make([]Key, n)

	for i := 0; i < n; i++ {
		r, err := nonZeroScalar(s.ctx, order)
		if err != nil {
			return nil, nil, err
		}

		gr := s.ctx.MulBase(r)
		if err := sendPoint(ctx, s.agent, gr); err != nil {
			r.Zeroize()
			return nil, nil, err
		}

		pr := s.ctx.Mul(sPoints[i], r)
		m0[i] = curve.RandomOracle(pr, 0)

		cr := s.ctx.Mul(gc, r)
		qr := s.ctx.Add(cr, s.ctx.Invert(pr))
		m1[i] = curve.RandomOracle(qr, 1)

		r.Zeroize()
	}

	log.V(1).Info("completed base OT batch")
	return m0, m1, nil
}

// nonZeroScalar samples a scalar in [0, max) and resamples on a zero
// draw, so the derived point g^r is never the identity — the identity
// element has no valid compressed wire encoding.
func nonZeroScalar(c *curve.Context, max *big.Int) (*curve.Scalar, error) {
	for {
		r, err := c.RandomScalar(max)
		if err != nil {
			return nil, &RngError{Err: err}
		}
		if !r.IsZero() {
			return r, nil
		}
	}
}
