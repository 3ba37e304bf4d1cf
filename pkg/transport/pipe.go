package transport

import "io"

// NewPipe returns two connected transports: whatever one side sends, the
// other receives. Closing either side ends the stream for both.
func NewPipe(opts ...Option) (*StdioTransport, *StdioTransport) {
	aReader, bWriter := io.Pipe()
	bReader, aWriter := io.Pipe()
	return NewStreamTransport(aReader, aWriter, opts...), NewStreamTransport(bReader, bWriter, opts...)
}
