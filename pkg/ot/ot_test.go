package ot

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand"
	"net"
	"testing"
	"time"
)

func genChoiceBits(n int, r *mrand.Rand) []bool {
	choice := make([]bool, n)
	for i := range choice {
		choice[i] = r.Intn(2) == 1
	}
	return choice
}

// runBatch drives one sender and one receiver over a loopback TCP
// connection and returns the sender's two key slices and the
// receiver's chosen keys.
func runBatch(t *testing.T, n int, choice []bool) (m0, m1 []Key, keys []Key) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %s", err)
	}
	defer ln.Close()

	errs := make(chan error, 2)
	senderDone := make(chan struct{})

	go func() {
		defer close(senderDone)
		conn, err := ln.Accept()
		if err != nil {
			errs <- fmt.Errorf("accept: %w", err)
			return
		}
		defer conn.Close()

		sender, err := NewSender(NewStreamAgent(conn))
		if err != nil {
			errs <- fmt.Errorf("new sender: %w", err)
			return
		}
		m0, m1, err = sender.Send(context.Background(), n)
		if err != nil {
			errs <- fmt.Errorf("send: %w", err)
		}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %s", err)
	}
	defer conn.Close()

	receiver, err := NewReceiver(NewStreamAgent(conn))
	if err != nil {
		t.Fatalf("new receiver: %s", err)
	}
	keys, err = receiver.Receive(context.Background(), choice)
	if err != nil {
		t.Fatalf("receive: %s", err)
	}

	select {
	case <-senderDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sender")
	}

	select {
	case err := <-errs:
		t.Fatal(err)
	default:
	}

	return m0, m1, keys
}

func checkBatch(t *testing.T, n int, choice []bool, m0, m1, keys []Key) {
	t.Helper()
	if len(m0) != n || len(m1) != n || len(keys) != n {
		t.Fatalf("wrong batch size: m0=%d m1=%d keys=%d want %d", len(m0), len(m1), len(keys), n)
	}
	for i := 0; i < n; i++ {
		want := m0[i]
		if choice[i] {
			want = m1[i]
		}
		if keys[i] != want {
			t.Fatalf("index %d: got %x, want %x (choice=%v)", i, keys[i], want, choice[i])
		}
		other := m1[i]
		if choice[i] {
			other = m0[i]
		}
		if keys[i] == other {
			t.Fatalf("index %d: received key equals the unchosen branch's key", i)
		}
	}
}

func TestBaseOtSingleChoiceZero(t *testing.T) {
	choice := []bool{false}
	m0, m1, keys := runBatch(t, 1, choice)
	checkBatch(t, 1, choice, m0, m1, keys)
}

func TestBaseOtSingleChoiceOne(t *testing.T) {
	choice := []bool{true}
	m0, m1, keys := runBatch(t, 1, choice)
	checkBatch(t, 1, choice, m0, m1, keys)
}

func TestBaseOtAlternating(t *testing.T) {
	const n = 128
	choice := make([]bool, n)
	for i := range choice {
		choice[i] = i%2 == 1
	}
	m0, m1, keys := runBatch(t, n, choice)
	checkBatch(t, n, choice, m0, m1, keys)
}

func TestBaseOtRandomBatch(t *testing.T) {
	const n = 1000
	r := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	choice := genChoiceBits(n, r)
	m0, m1, keys := runBatch(t, n, choice)
	checkBatch(t, n, choice, m0, m1, keys)
}

func TestBaseOtAllZero(t *testing.T) {
	const n = 32
	choice := make([]bool, n)
	m0, m1, keys := runBatch(t, n, choice)
	checkBatch(t, n, choice, m0, m1, keys)
}

func TestBaseOtAllOne(t *testing.T) {
	const n = 32
	choice := make([]bool, n)
	for i := range choice {
		choice[i] = true
	}
	m0, m1, keys := runBatch(t, n, choice)
	checkBatch(t, n, choice, m0, m1, keys)
}

func TestBaseOtEmptyBatch(t *testing.T) {
	m0, m1, keys := runBatch(t, 0, nil)
	checkBatch(t, 0, nil, m0, m1, keys)
}

// fakeAgent lets tests substitute arbitrary bytes for a peer's wire
// messages without standing up a real transport.
type fakeAgent struct {
	toSend [][]byte
	sent   [][]byte
}

func (a *fakeAgent) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	a.sent = append(a.sent, cp)
	return nil
}

func (a *fakeAgent) Receive(size uint64) ([]byte, error) {
	if len(a.toSend) == 0 {
		return nil, fmt.Errorf("fakeAgent: no more queued messages")
	}
	next := a.toSend[0]
	a.toSend = a.toSend[1:]
	if uint64(len(next)) != size {
		return nil, fmt.Errorf("fakeAgent: requested %d bytes, queued message is %d", size, len(next))
	}
	return next, nil
}

func TestReceivePointRejectsNonHex(t *testing.T) {
	payload := []byte("not hex!!")
	var lenBuf [8]byte
	lenBuf[0] = byte(len(payload))
	agent := &fakeAgent{toSend: [][]byte{lenBuf[:], payload}}

	sender, err := NewSender(agent)
	if err != nil {
		t.Fatalf("new sender: %s", err)
	}
	if _, _, err := sender.Send(context.Background(), 1); err == nil {
		t.Fatal("expected an error decoding a malformed point")
	} else if _, ok := err.(*WireDecodeError); !ok {
		t.Fatalf("got %T, want *WireDecodeError", err)
	}
}

func TestReceivePointRejectsIdentity(t *testing.T) {
	// the hex encoding of a single zero byte: not a valid SEC1
	// compressed tag, so UnmarshalCompressed rejects it outright.
	payload := []byte("00")
	var lenBuf [8]byte
	lenBuf[0] = byte(len(payload))
	agent := &fakeAgent{toSend: [][]byte{lenBuf[:], payload}}

	sender, err := NewSender(agent)
	if err != nil {
		t.Fatalf("new sender: %s", err)
	}
	if _, _, err := sender.Send(context.Background(), 1); err == nil {
		t.Fatal("expected an error decoding an invalid point encoding")
	} else if _, ok := err.(*WireDecodeError); !ok {
		t.Fatalf("got %T, want *WireDecodeError", err)
	}
}

func TestReceivePointRejectsCorruptedLengthPrefix(t *testing.T) {
	// the length prefix claims far more bytes than the peer actually
	// sends; the underlying connection closes before that many bytes
	// arrive, which must surface as a TransportError, not a hang or a
	// panic.
	client, server := net.Pipe()

	go func() {
		// drain the sender's initial g^c point before replying, since
		// net.Pipe is synchronous and the sender's first write would
		// otherwise block forever with nothing on the other end to
		// read it.
		var gcLenBuf [8]byte
		io.ReadFull(server, gcLenBuf[:])
		gcLen := binary.LittleEndian.Uint64(gcLenBuf[:])
		io.ReadFull(server, make([]byte, gcLen))

		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], 50)
		server.Write(lenBuf[:])
		server.Write([]byte("02"))
		server.Close()
	}()

	sender, err := NewSender(NewStreamAgent(client))
	if err != nil {
		t.Fatalf("new sender: %s", err)
	}
	if _, _, err := sender.Send(context.Background(), 1); err == nil {
		t.Fatal("expected an error reading a corrupted length prefix")
	} else if _, ok := err.(*TransportError); !ok {
		t.Fatalf("got %T, want *TransportError", err)
	}
}

func TestRandomSourceIsUsable(t *testing.T) {
	// sanity check that crypto/rand is wired and usable in this
	// environment before trusting the scalar-sampling tests above.
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("crypto/rand.Read: %s", err)
	}
}
