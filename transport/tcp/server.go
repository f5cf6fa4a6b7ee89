package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/service"
)

// maxLineSize bounds a single request line.
const maxLineSize = 4096

// Server accepts line protocol connections and dispatches each command.
type Server struct {
	addr   string
	cmds   service.Commands
	logger *zap.Logger

	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewServer creates a server that will listen on addr.
func NewServer(addr string, cmds service.Commands, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:   addr,
		cmds:   cmds,
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
		quit:   make(chan struct{}),
	}
}

// ListenAndServe listens on the configured address and serves until Stop is
// called.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Stop is called.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.logger.Info("tcp command server listening", zap.String("addr", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("accepting connection", zap.Error(err))
			continue
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	start := time.Now()
	addr := conn.RemoteAddr().String()
	s.logger.Info("player connected", zap.String("remote_addr", addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 1024), maxLineSize)
	w := bufio.NewWriter(conn)

	for scanner.Scan() {
		reply := HandleCommand(ctx, s.cmds, scanner.Text())
		if _, err := w.WriteString(Escape(reply) + "\n"); err != nil {
			s.logger.Debug("write failed", zap.String("remote_addr", addr), zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			s.logger.Debug("flush failed", zap.String("remote_addr", addr), zap.Error(err))
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Debug("read failed", zap.String("remote_addr", addr), zap.Error(err))
	}

	s.logger.Info("player disconnected",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop closes the listener and every open connection, then waits for the
// connection goroutines to exit.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("tcp command server stopped")
}

// Addr returns the listening address, or "" before Serve is called.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
