package frame

// Accumulator collects the daemon's byte stream and splits it into
// complete response records. Bytes are appended at the back and consumed
// from the front; a trailing partial record stays buffered until the
// remaining bytes arrive.
//
// The zero value is ready to use. An Accumulator is not safe for
// concurrent use.
type Accumulator struct {
	buf []byte
	off int // start of the unconsumed bytes in buf
}

// NewAccumulator creates an accumulator with room for sizeHint bytes
func NewAccumulator(sizeHint int) *Accumulator {
	if sizeHint < ResponseSize {
		sizeHint = ResponseSize
	}
	return &Accumulator{buf: make([]byte, 0, sizeHint)}
}

// Write appends p to the buffer. It never fails and always consumes all of p,
// so an Accumulator can be used as an io.Writer.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.compact()
	a.buf = append(a.buf, p...)
	return len(p), nil
}

// Next removes and returns the oldest complete record.
// The second return value is false if fewer than ResponseSize bytes are buffered.
func (a *Accumulator) Next() (Response, bool) {
	if a.Buffered() < ResponseSize {
		return Response{}, false
	}
	r := decodeResponse(a.buf[a.off : a.off+ResponseSize])
	a.off += ResponseSize
	return r, true
}

// Drain calls fn for every complete record in order and returns how many
// records were handed out
func (a *Accumulator) Drain(fn func(Response)) int {
	n := 0
	for {
		r, ok := a.Next()
		if !ok {
			return n
		}
		fn(r)
		n++
	}
}

// Buffered returns the number of bytes not yet handed out as records
func (a *Accumulator) Buffered() int {
	return len(a.buf) - a.off
}

// Reset discards all buffered bytes
func (a *Accumulator) Reset() {
	a.buf = a.buf[:0]
	a.off = 0
}

// compact moves the unconsumed tail to the front of the buffer once the
// consumed prefix makes up at least half of it
func (a *Accumulator) compact() {
	if a.off == 0 {
		return
	}
	if a.off == len(a.buf) {
		a.Reset()
		return
	}
	if a.off >= len(a.buf)/2 {
		n := copy(a.buf, a.buf[a.off:])
		a.buf = a.buf[:n]
		a.off = 0
	}
}
