package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"saxslinecut/pkg/logger"
)

// Progress is one update pushed by the backend during a long fetch
type Progress struct {
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// ProgressOptions configures the heartbeat of a progress channel
type ProgressOptions struct {
	HeartbeatInterval time.Duration
	PingToken         string
	PongToken         string
}

// DefaultProgressOptions sends "ping" every 30 seconds and expects "pong"
func DefaultProgressOptions() ProgressOptions {
	return ProgressOptions{
		HeartbeatInterval: 30 * time.Second,
		PingToken:         "ping",
		PongToken:         "pong",
	}
}

const maxProgressBuffered = 100

// ProgressChannel is a websocket subscription to backend progress updates.
// The pong token is not JSON and is consumed by the channel itself; every
// other text message must decode as a Progress.
type ProgressChannel struct {
	ClientID string

	ws      *websocket.Conn
	opts    ProgressOptions
	log     logger.Logger
	updates chan Progress

	writeMu  sync.Mutex
	mu       sync.Mutex
	lastPong time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// DialProgress connects to the progress endpoint. The URL scheme may be
// http(s) or ws(s); a generated client id is added as the client_id query
// parameter.
func DialProgress(ctx context.Context, rawURL string, opts ProgressOptions, log logger.Logger) (*ProgressChannel, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid progress URL %q", rawURL)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	clientID := uuid.New().String()
	q := u.Query()
	q.Set("client_id", clientID)
	u.RawQuery = q.Encode()

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "progress channel connection failed")
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if log == nil {
		log = logger.Discard
	}

	p := &ProgressChannel{
		ClientID: clientID,
		ws:       ws,
		opts:     opts,
		log:      log,
		updates:  make(chan Progress, maxProgressBuffered),
		done:     make(chan struct{}),
	}
	go p.readLoop()
	if opts.HeartbeatInterval > 0 && opts.PingToken != "" {
		go p.heartbeat()
	}
	return p, nil
}

// Updates delivers progress messages; it is closed when the connection ends
func (p *ProgressChannel) Updates() <-chan Progress {
	return p.updates
}

// LastPong returns when the last pong token arrived (zero if never)
func (p *ProgressChannel) LastPong() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPong
}

// Ping sends the ping token immediately
func (p *ProgressChannel) Ping() error {
	return p.write(websocket.TextMessage, []byte(p.opts.PingToken))
}

// Close sends a close frame and tears down the connection
func (p *ProgressChannel) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if cerr := p.ws.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

func (p *ProgressChannel) write(messageType int, data []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.ws.WriteMessage(messageType, data)
}

func (p *ProgressChannel) readLoop() {
	defer close(p.updates)
	for {
		_, msg, err := p.ws.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
			default:
				p.log.Errorf("Progress channel read failed: %v", err)
			}
			return
		}

		if p.opts.PongToken != "" && strings.TrimSpace(string(msg)) == p.opts.PongToken {
			p.mu.Lock()
			p.lastPong = time.Now()
			p.mu.Unlock()
			continue
		}

		var update Progress
		if err := json.Unmarshal(msg, &update); err != nil {
			p.log.Errorf("Ignoring malformed progress message %q: %v", truncate(string(msg), 80), err)
			continue
		}
		p.log.Infof("Progress %.0f%%: %s", update.Progress, update.Message)

		select {
		case p.updates <- update:
		default:
			// Slow consumer: drop the oldest update to keep the newest
			select {
			case <-p.updates:
			default:
			}
			p.updates <- update
		}
	}
}

func (p *ProgressChannel) heartbeat() {
	ticker := time.NewTicker(p.opts.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			if err := p.Ping(); err != nil {
				p.log.Errorf("Failed to send ping: %v", err)
				return
			}
		}
	}
}
