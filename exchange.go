package snekfetch

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrStreamClosed is returned by reads on a Stream after Close.
var ErrStreamClosed = errors.New("stream closed")

// Exchange is one started request, redirects included. It can be consumed
// as an awaitable result (Wait, Then, End) and as a byte stream (Stream).
// Both views are fed from the same buffer of the final hop's body.
type Exchange struct {
	logger zerolog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	sealed bool
	res    *Response
	err    error
	done   chan struct{}

	streamOnce sync.Once
	stream     *Stream
}

func newExchange(logger zerolog.Logger) *Exchange {
	e := &Exchange{
		logger: logger,
		done:   make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// write appends a chunk of the final hop's body. It never waits for stream
// readers.
func (e *Exchange) write(p []byte) {
	e.mu.Lock()
	e.buf = append(e.buf, p...)
	e.mu.Unlock()
	e.cond.Broadcast()
}

func (e *Exchange) bytes() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

func (e *Exchange) succeed(res *Response) {
	e.finish(res, nil)
}

func (e *Exchange) fail(err error) {
	e.finish(nil, err)
}

func (e *Exchange) finish(res *Response, err error) {
	e.mu.Lock()
	if e.sealed {
		e.mu.Unlock()
		return
	}
	e.res = res
	e.err = err
	e.sealed = true
	e.mu.Unlock()
	e.cond.Broadcast()
	close(e.done)

	if err != nil {
		e.logger.Debug().Err(err).Msg("exchange failed")
	} else {
		e.logger.Debug().Int("status", res.Status).Int("bytes", len(res.Raw)).Msg("exchange finished")
	}
}

// Done is closed once the outcome is known.
func (e *Exchange) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the last hop has been read and classified. A status
// outside [200,300) is reported as *HTTPError.
func (e *Exchange) Wait() (*Response, error) {
	<-e.done
	return e.res, e.err
}

// Then waits and hands the outcome to exactly one of the two handlers,
// returning what that handler returns. A nil handler passes the outcome
// through.
func (e *Exchange) Then(onSuccess func(*Response) error, onFailure func(error) error) error {
	res, err := e.Wait()
	if err != nil {
		if onFailure == nil {
			return err
		}
		return onFailure(err)
	}
	if onSuccess == nil {
		return nil
	}
	return onSuccess(res)
}

// End waits and calls cb once. On an HTTP error cb also receives the
// error response.
func (e *Exchange) End(cb func(*Response, error)) {
	res, err := e.Wait()
	if httpErr, ok := err.(*HTTPError); ok {
		res = httpErr.Response
	}
	cb(res, err)
}

// Stream returns the exchange's body stream. There is only one; every call
// returns the same Stream.
func (e *Exchange) Stream() *Stream {
	e.streamOnce.Do(func() {
		e.stream = &Stream{e: e}
	})
	return e.stream
}

// Stream is a forward-only reader over the decompressed body of the final
// hop. Read blocks while it has caught up with the network. After the last
// byte it returns io.EOF, or the exchange error if the exchange failed.
type Stream struct {
	e      *Exchange
	off    int
	closed bool
}

var _ io.ReadCloser = (*Stream)(nil)

func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	e := s.e
	e.mu.Lock()
	defer e.mu.Unlock()
	for !s.closed && s.off == len(e.buf) && !e.sealed {
		e.cond.Wait()
	}
	if s.closed {
		return 0, ErrStreamClosed
	}
	if s.off < len(e.buf) {
		n := copy(p, e.buf[s.off:])
		s.off += n
		return n, nil
	}
	if e.err != nil {
		return 0, e.err
	}
	return 0, io.EOF
}

// Close detaches the reader. The exchange itself keeps running to
// completion.
func (s *Stream) Close() error {
	s.e.mu.Lock()
	s.closed = true
	s.e.mu.Unlock()
	s.e.cond.Broadcast()
	return nil
}
