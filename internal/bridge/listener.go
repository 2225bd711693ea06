// Package bridge accepts out-of-band overlay notifications on a unix socket.
// Each connection carries newline-delimited JSON mask messages.
package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/atomicstack/navshell/internal/logging"
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/overlay"
)

const maxLine = 64 << 10

// Handler receives every decoded message. It is called from connection
// goroutines.
type Handler func(overlay.MaskMessage)

type Listener struct {
	path    string
	ln      net.Listener
	handler Handler

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// Listen binds path, replacing a stale socket file, and starts serving.
func Listen(path string, handler Handler) (*Listener, error) {
	if path == "" {
		return nil, fmt.Errorf("bridge listen: empty socket path")
	}
	if handler == nil {
		return nil, fmt.Errorf("bridge listen: nil handler")
	}
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSocket != 0 {
		os.Remove(path)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("bridge listen: %w", err)
	}
	l := &Listener{path: path, ln: ln, handler: handler, conns: map[net.Conn]struct{}{}}
	l.wg.Add(1)
	go l.serve()
	return l, nil
}

// Addr returns the socket path.
func (l *Listener) Addr() string {
	return l.path
}

func (l *Listener) serve() {
	defer l.wg.Done()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logging.Error(fmt.Errorf("bridge accept: %w", err))
			}
			return
		}
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			conn.Close()
			return
		}
		l.conns[conn] = struct{}{}
		l.wg.Add(1)
		l.mu.Unlock()
		go l.read(conn)
	}
}

func (l *Listener) read(conn net.Conn) {
	defer l.wg.Done()
	defer func() {
		l.mu.Lock()
		delete(l.conns, conn)
		l.mu.Unlock()
		conn.Close()
	}()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := overlay.DecodeMaskMessage(line)
		if err != nil {
			events.Bridge.Rejected(err.Error())
			continue
		}
		l.handler(msg)
	}
}

// Close stops accepting, drops open connections, waits for their goroutines
// and removes the socket file.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	for conn := range l.conns {
		conn.Close()
	}
	l.mu.Unlock()
	err := l.ln.Close()
	l.wg.Wait()
	os.Remove(l.path)
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}
