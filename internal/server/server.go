// Package server wires the frame decoder, command registry, and keyspace
// together over TCP connections, running one goroutine per connection in
// place of the reference's single-threaded asio session coroutines.
package server

import (
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/rkv-project/rkv/internal/command"
	"github.com/rkv-project/rkv/internal/logging"
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

// readBufferSize is the initial per-connection receive buffer. It mirrors the
// reference echo_session's 1024-byte array; frames that don't fit span
// multiple reads, which the resumable parser handles, and the buffer doubles
// whenever a single pending token fills it.
const readBufferSize = 1024

// Server accepts TCP connections and runs the request/response loop for
// each one against a shared Keyspace and Registry.
type Server struct {
	keyspace *store.Keyspace
	registry *command.Registry
	log      *logging.Logger

	mu        sync.Mutex
	listeners []net.Listener
	conns     map[net.Conn]struct{}
	wg        sync.WaitGroup
	closing   bool
}

// New returns a Server ready to Serve on one or more listeners.
func New(keyspace *store.Keyspace, registry *command.Registry, log *logging.Logger) *Server {
	return &Server{
		keyspace: keyspace,
		registry: registry,
		log:      log,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections from ln until it is closed (by Shutdown or by
// an external caller), handling each on its own goroutine. It blocks until
// the listener's accept loop exits, then waits for in-flight connections to
// finish.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listeners = append(s.listeners, ln)
	s.mu.Unlock()

	s.log.Info("listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if closing {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		s.trackConn(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrackConn(conn)
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) trackConn(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = struct{}{}
}

func (s *Server) untrackConn(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// Shutdown closes every listener and every currently-open connection, then
// waits for all session goroutines to return.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closing = true
	for _, ln := range s.listeners {
		ln.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// handleConnection runs the read -> parse -> dispatch -> write loop for one
// connection until the client disconnects, a protocol error occurs, or the
// connection is closed out from under it during shutdown.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	parser := resp.NewParser()
	buf := make([]byte, readBufferSize)
	writeIdx := 0

readLoop:
	for {
		if writeIdx == len(buf) {
			buf = append(buf, make([]byte, len(buf))...)
		}
		n, err := conn.Read(buf[writeIdx:])
		if err != nil {
			if err == io.EOF {
				s.log.Debug("client %s disconnected", conn.RemoteAddr())
			} else {
				s.log.Warning("read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		total := writeIdx + n
		window := buf[:total]

		for {
			args, consumed, perr := parser.Parse(window)
			if perr == nil {
				// s.mu also serializes command execution across connections,
				// so handlers run atomically with respect to each other.
				s.mu.Lock()
				reply := s.registry.Dispatch(s.keyspace, args)
				s.mu.Unlock()
				bufs := reply.Buffers(nil)
				werr := writeAll(conn, bufs)
				resp.ReleaseBuffers(bufs)
				if werr != nil {
					s.log.Warning("write error to %s: %v", conn.RemoteAddr(), werr)
					return
				}
				parser.Reset()

				window = window[consumed:]
				if len(window) == 0 {
					writeIdx = 0
					continue readLoop
				}
				continue
			}

			if errors.Is(perr, resp.ErrWaiting) {
				remaining := window[consumed:]
				copy(buf, remaining)
				writeIdx = len(remaining)
				continue readLoop
			}

			s.log.Warning("protocol error from %s: %v", conn.RemoteAddr(), perr)
			return
		}
	}
}

func writeAll(conn net.Conn, bufs []*bytebufferpool.ByteBuffer) error {
	for _, b := range bufs {
		if _, err := conn.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
