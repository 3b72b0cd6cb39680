// Package server provides the TCP compute server for the Paillier
// suite.
//
// The protocol is one exchange per connection: the client sends a
// single JSON-encoded request and half-closes the stream, the server
// answers with a single JSON-encoded response and closes. The server
// holds no key material; every computation runs on ciphertexts only.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	paillier "github.com/rjmholt/simple-paillier"
)

// DefaultMaxMessageBytes caps how much of a request the server will
// read before answering with an error.
const DefaultMaxMessageBytes = 20000

// Config holds server configuration.
type Config struct {
	// Address is the TCP listen address, e.g. "localhost:1337".
	Address string
	// MaxMessageBytes caps the request size. Zero means
	// DefaultMaxMessageBytes.
	MaxMessageBytes int
	// ReadTimeout bounds reading one request. Zero means 30s.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing one response. Zero means 30s.
	WriteTimeout time.Duration
}

// Server is the Paillier compute server.
type Server struct {
	cfg    Config
	handle func([]byte) []byte

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// New creates a server from cfg, applying defaults for zero fields.
func New(cfg Config) *Server {
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	return &Server{cfg: cfg, handle: paillier.HandleMessage}
}

// ListenAndServe listens on the configured address and serves until
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, handling
// each connection on its own goroutine. The computation core is
// stateless, so concurrent exchanges need no coordination.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("Paillier compute server listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			log.Printf("accept: %v", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}

	s.wg.Wait()
	return nil
}

// Addr returns the listener address, or nil before Serve is called.
// Useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// handleConn runs one request/response exchange. Any failure is
// answered with an encoded ERROR response; the connection is never
// dropped without a reply unless the peer itself is gone.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

	data, err := s.readRequest(conn)
	var resp []byte
	switch {
	case err != nil:
		log.Printf("%s: read request: %v", conn.RemoteAddr(), err)
		resp = encodeError(err.Error())
	default:
		resp = s.safeHandle(conn.RemoteAddr(), data)
	}

	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if _, err := conn.Write(resp); err != nil {
		log.Printf("%s: write response: %v", conn.RemoteAddr(), err)
	}
}

// safeHandle runs one request through the computation core. A panic in
// the core becomes an encoded ERROR response, so a single hostile
// message cannot take the listener down with it.
func (s *Server) safeHandle(peer net.Addr, data []byte) (resp []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s: panic handling request: %v", peer, r)
			resp = encodeError(fmt.Sprintf("internal error: %v", r))
		}
	}()
	return s.handle(data)
}

// maxDrainBytes caps how much of an oversized request is discarded so
// the peer can still read the error response instead of a reset.
const maxDrainBytes = 1 << 20

// readRequest reads the complete request: everything up to the
// client's half-close, bounded by MaxMessageBytes.
func (s *Server) readRequest(conn net.Conn) ([]byte, error) {
	limit := int64(s.cfg.MaxMessageBytes)
	data, err := io.ReadAll(io.LimitReader(conn, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		io.Copy(io.Discard, io.LimitReader(conn, maxDrainBytes))
		return nil, fmt.Errorf("message exceeds %d byte limit", s.cfg.MaxMessageBytes)
	}
	return data, nil
}

func encodeError(msg string) []byte {
	out, _ := paillier.EncodeResponse(&paillier.ErrorResponse{Message: msg})
	return out
}
