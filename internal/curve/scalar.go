package curve

import "math/big"

// Scalar is a sensitive integer in [0, q). Scalars are produced by
// Context.RandomScalar (and derived from one by PlusOne) and are held in a plain byte buffer rather than
// a math/big.Int so that Zeroize can reliably wipe the backing storage
// once the scalar is no longer needed (per the memory discipline in the
// spec: scalars and the points derived from them are sensitive for the
// lifetime of the batch).
type Scalar struct {
	buf []byte // big-endian, no leading zero padding; empty means zero
}

// Int returns the integer value of s as a *big.Int.
func (s *Scalar) Int() *big.Int {
	return new(big.Int).SetBytes(s.buf)
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	for _, b := range s.buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// PlusOne returns a new Scalar holding s+1. Used for the receiver's
// two-step [1, q-1] sampling: sample in [0, q-1), then add 1.
func (s *Scalar) PlusOne() *Scalar {
	one := new(big.Int).Add(s.Int(), big.NewInt(1))
	return &Scalar{buf: one.Bytes()}
}

// Zeroize overwrites the scalar's backing bytes with zero. Callers
// must call Zeroize once a scalar is no longer needed; every scalar
// sampled by Sender.Send and Receiver.Receive is zeroized before the
// batch returns.
func (s *Scalar) Zeroize() {
	for i := range s.buf {
		s.buf[i] = 0
	}
}
