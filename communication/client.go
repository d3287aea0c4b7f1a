package communication

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sternhalma/game"
)

const (
	// retryDelay and retryAttempts pace reconnects while the server side of
	// the socket is still coming up.
	retryDelay    = 500 * time.Millisecond
	retryAttempts = 20

	// maxFrameSize caps a single message payload. The largest legitimate
	// frame, a turn listing every jump chain, stays far below this.
	maxFrameSize = 1 << 20
)

// Client speaks the framed protocol over a unix domain socket. It is not safe
// for concurrent use; the game loop is strictly request-response.
type Client struct {
	path     string
	delay    time.Duration
	attempts int
	conn     net.Conn
}

type ClientOption func(c *Client)

// WithRetry overrides the connect retry schedule.
func WithRetry(delay time.Duration, attempts int) ClientOption {
	return func(c *Client) {
		c.delay = delay
		c.attempts = attempts
	}
}

func NewClient(path string, options ...ClientOption) *Client {
	c := &Client{
		path:     path,
		delay:    retryDelay,
		attempts: retryAttempts,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Connect dials the socket, retrying while the socket file is missing or the
// listener refuses, until the context is cancelled or attempts run out.
func (c *Client) Connect(ctx context.Context) error {
	log.Info().Str("socket", c.path).Msg("connecting to server")

	var dialer net.Dialer
	for attempt := 1; attempt <= c.attempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "unix", c.path)
		if err == nil {
			c.conn = conn
			log.Info().Msg("connection established")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error().Err(err).Msgf("connect failed, retrying %d/%d", attempt, c.attempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
	return errors.Errorf("failed to connect to %s after %d attempts", c.path, c.attempts)
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	log.Info().Msg("connection closed")
	return err
}

// Receive blocks until the next server message arrives.
func (c *Client) Receive() (ServerMessage, error) {
	payload, err := ReadFrame(c.conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read server message")
	}
	msg, err := DecodeServer(payload)
	if err != nil {
		return nil, err
	}
	log.Debug().Type("message", msg).Msg("received message")
	return msg, nil
}

// Send writes one client message.
func (c *Client) Send(msg ClientMessage) error {
	payload, err := EncodeClient(msg)
	if err != nil {
		return err
	}
	if err := WriteFrame(c.conn, payload); err != nil {
		return errors.Wrap(err, "failed to send client message")
	}
	log.Debug().Type("message", msg).Msg("sent message")
	return nil
}

// ReadFrame reads a 4-byte big-endian length prefix and then the payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameSize {
		return nil, errors.Wrapf(game.ErrProtocolDecode, "frame of %d bytes", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func WriteFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
