package frame

import (
	"math"
	"math/rand"
	"testing"
)

// testStream builds a byte stream of n records and returns it together with the records
func testStream(n int) ([]byte, []Response) {
	var stream []byte
	records := make([]Response, n)
	for i := 0; i < n; i++ {
		records[i] = Response{Price: float64(i) + 0.5, Delta: -float64(i) / 10, Vega: float64(i * i)}
		stream = append(stream, EncodeResponse(records[i])...)
	}
	return stream, records
}

// feed writes the chunks into a fresh accumulator and collects all records
func feed(chunks [][]byte) []Response {
	acc := NewAccumulator(0)
	var out []Response
	for _, c := range chunks {
		_, _ = acc.Write(c)
		acc.Drain(func(r Response) { out = append(out, r) })
	}
	return out
}

// TestAccumulatorTwoRecordsOneChunk tests that 48 bytes yield exactly two records in order
func TestAccumulatorTwoRecordsOneChunk(t *testing.T) {
	stream, records := testStream(2)

	out := feed([][]byte{stream})
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	for i := range records {
		if out[i] != records[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, records[i], out[i])
		}
	}
}

// TestAccumulatorPartialRecord tests that a record is only emitted once it is complete
func TestAccumulatorPartialRecord(t *testing.T) {
	acc := NewAccumulator(0)

	_, _ = acc.Write(make([]byte, 20))
	if _, ok := acc.Next(); ok {
		t.Fatalf("record emitted after 20 bytes")
	}
	if acc.Buffered() != 20 {
		t.Errorf("expected 20 buffered bytes, got %d", acc.Buffered())
	}

	_, _ = acc.Write(make([]byte, 4))
	r, ok := acc.Next()
	if !ok {
		t.Fatalf("no record after 24 bytes")
	}
	if r != (Response{}) {
		t.Errorf("expected zero record, got %+v", r)
	}
	if acc.Buffered() != 0 {
		t.Errorf("expected empty buffer, got %d bytes", acc.Buffered())
	}
}

// TestAccumulatorSplitIndependence tests that arbitrary chunking of the stream
// yields the same records as a single delivery
func TestAccumulatorSplitIndependence(t *testing.T) {
	stream, _ := testStream(50)
	want := feed([][]byte{stream})

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		var chunks [][]byte
		rest := stream
		for len(rest) > 0 {
			n := rng.Intn(60) + 1
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}

		got := feed(chunks)
		if len(got) != len(want) {
			t.Fatalf("round %d: expected %d records, got %d", round, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d: record %d differs: %+v != %+v", round, i, got[i], want[i])
			}
		}
	}
}

// TestAccumulatorByteByByte tests the worst case of one byte per delivery
func TestAccumulatorByteByByte(t *testing.T) {
	stream, records := testStream(3)

	chunks := make([][]byte, len(stream))
	for i := range stream {
		chunks[i] = stream[i : i+1]
	}

	out := feed(chunks)
	if len(out) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(out))
	}
}

// TestAccumulatorKeepsTail tests that a trailing partial record survives compaction
func TestAccumulatorKeepsTail(t *testing.T) {
	stream, records := testStream(4)

	acc := NewAccumulator(0)
	_, _ = acc.Write(stream[:3*ResponseSize+5])
	if n := acc.Drain(func(Response) {}); n != 3 {
		t.Fatalf("expected 3 records, got %d", n)
	}

	_, _ = acc.Write(stream[3*ResponseSize+5:])
	r, ok := acc.Next()
	if !ok || r != records[3] {
		t.Fatalf("expected %+v, got %+v (ok=%v)", records[3], r, ok)
	}
}

// TestAccumulatorNonFinite tests that non-finite values are decoded as is
func TestAccumulatorNonFinite(t *testing.T) {
	acc := NewAccumulator(0)
	_, _ = acc.Write(EncodeResponse(Response{Price: math.NaN(), Delta: math.Inf(1), Vega: math.Inf(-1)}))

	r, ok := acc.Next()
	if !ok {
		t.Fatalf("no record")
	}
	if !math.IsNaN(r.Price) || !math.IsInf(r.Delta, 1) || !math.IsInf(r.Vega, -1) {
		t.Errorf("unexpected record %+v", r)
	}
}

// TestAccumulatorReset tests that Reset drops buffered bytes
func TestAccumulatorReset(t *testing.T) {
	var acc Accumulator
	_, _ = acc.Write(make([]byte, 30))
	acc.Reset()
	if acc.Buffered() != 0 {
		t.Errorf("expected empty buffer, got %d", acc.Buffered())
	}
}
