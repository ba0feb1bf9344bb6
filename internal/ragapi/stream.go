package ragapi

import (
	"io"
)

// Stream iterates over the chunked body of a streaming query response.
// Chunk boundaries carry no meaning; the answer text is split wherever the
// network happened to split it, and chunks arrive strictly in order.
type Stream struct {
	body io.ReadCloser
	buf  []byte
}

func newStream(body io.ReadCloser) *Stream {
	return &Stream{
		body: body,
		buf:  make([]byte, 4096),
	}
}

// Next returns the next chunk of answer text, or io.EOF when the stream has
// ended. The returned slice is only valid until the next call.
func (s *Stream) Next() ([]byte, error) {
	for {
		n, err := s.body.Read(s.buf)
		if n > 0 {
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Close releases the underlying connection. Safe to call after Next has
// returned io.EOF.
func (s *Stream) Close() error {
	return s.body.Close()
}
