package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
)

// StdioTransport frames messages as newline-delimited JSON over a reader and
// a writer. It is the transport MCP prescribes for command-line servers,
// where the client owns the server's stdin and stdout.
type StdioTransport struct {
	reader     io.Reader
	writer     io.Writer
	ownsWriter bool
	maxSize    int
	logger     logging.Logger

	// writeMu guards rawWriter.
	writeMu   sync.Mutex
	rawWriter *bufio.Writer

	// readErr is set before incoming is closed.
	incoming chan []byte
	readErr  error

	done     chan struct{}
	stopOnce sync.Once
	closeErr error
}

// NewStdioTransport returns a transport bound to the process's stdin and
// stdout. Closing it does not close stdout.
func NewStdioTransport(opts ...Option) *StdioTransport {
	return newStdio(os.Stdin, os.Stdout, false, buildOptions(opts))
}

// NewStreamTransport returns a transport over arbitrary streams, such as a
// child process's pipes. Close closes r and w when they implement io.Closer.
func NewStreamTransport(r io.Reader, w io.Writer, opts ...Option) *StdioTransport {
	return newStdio(r, w, true, buildOptions(opts))
}

func newStdio(r io.Reader, w io.Writer, ownsWriter bool, o Options) *StdioTransport {
	t := &StdioTransport{
		reader:     r,
		writer:     w,
		rawWriter:  bufio.NewWriter(w),
		ownsWriter: ownsWriter,
		maxSize:    o.MaxMessageSize,
		logger:     o.Logger.WithFields(logging.String("component", "stdio_transport")),
		incoming:   make(chan []byte, 16),
		done:       make(chan struct{}),
	}
	t.start()
	return t
}

// Send writes msg followed by a newline and flushes it.
func (t *StdioTransport) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg) > t.maxSize {
		return mcperrors.MessageTooLarge(len(msg), t.maxSize)
	}
	if bytes.IndexByte(msg, '\n') >= 0 {
		return mcperrors.TransportError("send", errors.New("message contains a newline"))
	}

	select {
	case <-t.done:
		return mcperrors.ConnectionClosed(nil)
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.rawWriter.Write(msg); err != nil {
		return mcperrors.TransportError("send", err)
	}
	if err := t.rawWriter.WriteByte('\n'); err != nil {
		return mcperrors.TransportError("send", err)
	}
	if err := t.rawWriter.Flush(); err != nil {
		return mcperrors.TransportError("send", err)
	}
	return nil
}

// Receive returns the next line.
func (t *StdioTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, io.EOF
	case msg, ok := <-t.incoming:
		if !ok {
			return nil, t.readErr
		}
		return msg, nil
	}
}

// start runs the read loop until the stream ends or Close is called.
func (t *StdioTransport) start() {
	var g errgroup.Group

	// Close closes the reader, which is what unblocks a pending Scan.
	g.Go(func() error {
		scanner := bufio.NewScanner(t.reader)
		scanner.Buffer(make([]byte, 0, 64*1024), t.maxSize+1)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			// Copy the line; the scanner reuses its buffer.
			data := make([]byte, len(line))
			copy(data, line)

			select {
			case t.incoming <- data:
			case <-t.done:
				return nil
			}
		}

		select {
		case <-t.done:
			return nil
		default:
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return mcperrors.MessageTooLarge(t.maxSize+1, t.maxSize)
			}
			return mcperrors.TransportError("receive", err)
		}
		return nil
	})

	go func() {
		err := g.Wait()
		if err == nil {
			err = io.EOF
		} else {
			t.logger.WithError(err).Warn("read loop stopped")
		}
		t.readErr = err
		close(t.incoming)
	}()
}

// Close stops the read loop, flushes pending output and closes owned streams.
func (t *StdioTransport) Close() error {
	t.stopOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		err := t.rawWriter.Flush()
		t.writeMu.Unlock()

		if closer, ok := t.reader.(io.Closer); ok {
			_ = closer.Close()
		}
		if t.ownsWriter {
			if closer, ok := t.writer.(io.Closer); ok {
				if cerr := closer.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}
		if err != nil && !errors.Is(err, io.ErrClosedPipe) {
			t.closeErr = mcperrors.TransportError("close", err)
		}
	})
	return t.closeErr
}
