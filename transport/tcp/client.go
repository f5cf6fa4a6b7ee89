package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
)

// Client speaks the line protocol over one connection. It implements
// service.Commands; calls are serialized.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send writes one command and returns the unescaped reply. Replies starting
// with ErrorPrefix come back as errors.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	if strings.ContainsAny(command, "\r\n") {
		return "", errors.New("command must be a single line")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A zero deadline clears any earlier one.
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("setting deadline: %w", err)
	}

	if _, err := io.WriteString(c.conn, command+"\n"); err != nil {
		return "", fmt.Errorf("write error: %w", err)
	}

	line, err := c.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", errors.New("connection closed by server")
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read error: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty response from server")
	}
	if msg, failed := strings.CutPrefix(line, ErrorPrefix); failed {
		return "", errors.New(Unescape(msg))
	}
	return Unescape(line), nil
}

func (c *Client) Join(ctx context.Context, name string) (string, error) {
	return c.Send(ctx, "JOIN "+name)
}

func (c *Client) Look(ctx context.Context, name string) (string, error) {
	return c.Send(ctx, "LOOK "+name)
}

func (c *Client) Steer(ctx context.Context, name, direction string) (string, error) {
	return c.Send(ctx, "STEER "+name+" "+direction)
}

func (c *Client) Status(ctx context.Context, name string) (string, error) {
	return c.Send(ctx, "STATUS "+name)
}

func (c *Client) LeaderboardText(ctx context.Context) (string, error) {
	return c.Send(ctx, "LEADERBOARD")
}
