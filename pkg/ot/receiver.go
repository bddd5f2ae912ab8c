package ot

import (
	"context"
	"math/big"

	"github.com/wwentiif/fbpcf/internal/curve"
	otlog "github.com/wwentiif/fbpcf/pkg/log"
)

// Receiver is the receiving party's handle for one base OT batch. A
// Receiver is not safe for concurrent use — drive one batch at a time.
type Receiver struct {
	ctx   *curve.Context
	agent Agent
}

// NewReceiver constructs a Receiver communicating over agent. It fails
// only if the P-256 group cannot be initialized.
func NewReceiver(agent Agent) (*Receiver, error) {
	c, err := curve.NewContext()
	if err != nil {
		return nil, &CurveInitError{Err: err}
	}
	return &Receiver{ctx: c, agent: agent}, nil
}

// Receive runs the receiver side of a batch of len(choice) base OTs
// and returns, for each i, the single key m_{choice[i]}[i] from the
// sender's pair. Sender.Send must be driven concurrently against the
// paired Agent.
//
// Every iteration computes both candidate branch points before
// deciding which one to send: the cost of deriving the unchosen branch
// is paid unconditionally so that neither the instruction path nor the
// point arithmetic performed depends on the choice bit.
func (r *Receiver) Receive(ctx context.Context, choice []bool) ([]Key, error) {
	n := len(choice)
	log := otlog.GetLoggerFromContextWithName(ctx, "receiver").WithValues("n", n)
	log.V(1).Info("starting base OT batch")

	order := r.ctx.Order()
	orderMinus1 := new(big.Int).Sub(order, big.NewInt(1))

	gc, err := receivePoint(ctx, r.agent, r.ctx)
	if err != nil {
		return nil, err
	}

	ds := make([]*curve.Scalar, n)
	defer func() {
		for _, d := range ds {
			if d != nil {
				d.Zeroize()
			}
		}
	}()
	for i := 0; i < n; i++ {
		d, err := twoStepScalar(r.ctx, orderMinus1)
		if err != nil {
			return nil, err
		}
		ds[i] = d

		gd := r.ctx.MulBase(d)
		branch0 := gd                               // g^d: the point sent when choice[i] == false
		branch1 := r.ctx.Add(gc, r.ctx.Invert(gd)) // C - g^d: the point sent when choice[i] == true

		var s *curve.Point
		if choice[i] {
			s = branch1
		} else {
			s = branch0
		}
		if err := sendPoint(ctx, r.agent, s); err != nil {
			return nil, err
		}
	}
	log.V(1).Info("sent all choice points")

	keys := make([]Key, n)
	for i := 0; i < n; i++ {
		gr, err := receivePoint(ctx, r.agent, r.ctx)
		if err != nil {
			return nil, err
		}

		grd := r.ctx.Mul(gr, ds[i])
		var nonce uint64
		if choice[i] {
			nonce = 1
		}
		keys[i] = curve.RandomOracle(grd, nonce)

		ds[i].Zeroize()
	}

	log.V(1).Info("completed base OT batch")
	return keys, nil
}

// twoStepScalar samples a scalar in [1, max] by sampling uniformly in
// [0, max) and adding one, landing in [1, max]. This matches the
// two-step construction used for the receiver's own scalar so its
// range excludes zero without rejection sampling.
func twoStepScalar(c *curve.Context, max *big.Int) (*curve.Scalar, error) {
	d, err := c.RandomScalar(max)
	if err != nil {
		return nil, &RngError{Err: err}
	}
	plusOne := d.PlusOne()
	d.Zeroize()
	return plusOne, nil
}
