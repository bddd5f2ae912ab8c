package ot

// Error kinds surfaced by this package, per the error taxonomy in the
// design: every failure aborts the current batch, nothing is retried
// inside the protocol, and no error ever carries scalar material.

// CurveInitError indicates the elliptic curve group or its order could
// not be constructed.
type CurveInitError struct{ Err error }

func (e *CurveInitError) Error() string { return "ot: curve initialization failed: " + e.Err.Error() }
func (e *CurveInitError) Unwrap() error { return e.Err }

// RngError indicates sampling a scalar failed.
type RngError struct{ Err error }

func (e *RngError) Error() string { return "ot: scalar sampling failed: " + e.Err.Error() }
func (e *RngError) Unwrap() error { return e.Err }

// CryptoInternalError indicates a curve or hashing primitive reported
// failure for a non-algebraic reason (e.g. memory); it is treated as
// non-recoverable.
type CryptoInternalError struct{ Err error }

func (e *CryptoInternalError) Error() string { return "ot: internal crypto failure: " + e.Err.Error() }
func (e *CryptoInternalError) Unwrap() error { return e.Err }

// WireDecodeError indicates a malformed length prefix, a non-hex
// payload, or an off-curve / identity point received from the peer.
type WireDecodeError struct{ Err error }

func (e *WireDecodeError) Error() string { return "ot: wire decode failed: " + e.Err.Error() }
func (e *WireDecodeError) Unwrap() error { return e.Err }

// TransportError indicates the underlying communication agent reported
// failure, or performed a short read/write.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "ot: transport failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
