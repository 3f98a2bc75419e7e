package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/scrollspy"
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

const (
	helloTimeout = 10 * time.Second
	writeTimeout = 5 * time.Second

	// maxMessageSize bounds one client frame; a batch for every section is a
	// few hundred bytes.
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// clientMessage is what the page's script sends.
type clientMessage struct {
	Type      string            `json:"type"` // "hello" or "batch"
	Supported bool              `json:"supported"`
	Entries   []scrollspy.Entry `json:"entries"`
}

// observeMessage registers the sections the client must observe.
type observeMessage struct {
	Type      string       `json:"type"`
	Sections  []section.ID `json:"sections"`
	Threshold float64      `json:"threshold"`
}

type stateMessage struct {
	Type string `json:"type"`
	stateResponse
}

// wsObserver adapts a page's websocket to scrollspy.Observer. The browser's
// IntersectionObserver produces the batches; this side only relays them.
type wsObserver struct {
	conn      *websocket.Conn
	threshold float64
	logger    *zap.Logger

	wmu     sync.Mutex
	once    sync.Once
	closed  chan struct{}
	readEnd chan struct{}
	started bool
}

func newWSObserver(conn *websocket.Conn, threshold float64, logger *zap.Logger) *wsObserver {
	conn.SetReadLimit(maxMessageSize)
	return &wsObserver{
		conn:      conn,
		threshold: threshold,
		logger:    logger,
		closed:    make(chan struct{}),
		readEnd:   make(chan struct{}),
	}
}

// Observe waits for the client's hello, sends the registration and starts
// relaying batches.
func (o *wsObserver) Observe(ctx context.Context, ids []section.ID) (<-chan scrollspy.Batch, error) {
	_ = o.conn.SetReadDeadline(time.Now().Add(helloTimeout))
	var hello clientMessage
	if err := o.conn.ReadJSON(&hello); err != nil {
		return nil, fmt.Errorf("reading hello: %w", err)
	}
	_ = o.conn.SetReadDeadline(time.Time{})

	if hello.Type != "hello" {
		return nil, fmt.Errorf("expected hello, got %q", hello.Type)
	}
	if !hello.Supported {
		return nil, scrollspy.ErrObservationUnsupported
	}
	if err := o.write(observeMessage{Type: "observe", Sections: ids, Threshold: o.threshold}); err != nil {
		return nil, fmt.Errorf("sending registration: %w", err)
	}

	batches := make(chan scrollspy.Batch)
	o.started = true
	go o.readLoop(ctx, batches)
	return batches, nil
}

func (o *wsObserver) readLoop(ctx context.Context, out chan<- scrollspy.Batch) {
	defer close(o.readEnd)
	defer close(out)
	for {
		_, data, err := o.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				o.logger.Debug("observer read", zap.Error(err))
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			o.sendError("invalid message format")
			continue
		}
		if msg.Type != "batch" {
			o.sendError("unknown message type: " + msg.Type)
			continue
		}
		select {
		case out <- scrollspy.Batch(msg.Entries):
		case <-ctx.Done():
			return
		case <-o.closed:
			return
		}
	}
}

// Disconnect closes the socket, which ends the read loop.
func (o *wsObserver) Disconnect() error {
	var err error
	o.once.Do(func() {
		close(o.closed)
		_ = o.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		err = o.conn.Close()
	})
	return err
}

// wait blocks until the client goes away.
func (o *wsObserver) wait() {
	if o.started {
		<-o.readEnd
		return
	}
	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (o *wsObserver) publish(st scrollspy.State, regions []section.ID) {
	msg := stateMessage{Type: "state", stateResponse: newStateResponse(st, regions)}
	if err := o.write(msg); err != nil {
		o.logger.Debug("observer write", zap.Error(err))
	}
}

func (o *wsObserver) write(v any) error {
	o.wmu.Lock()
	defer o.wmu.Unlock()
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return o.conn.WriteJSON(v)
}

func (o *wsObserver) sendError(message string) {
	if err := o.write(gin.H{"type": "error", "content": message}); err != nil {
		o.logger.Debug("observer write error", zap.Error(err))
	}
}

// handleObserve attaches the page's websocket to its view. Closing the socket
// unmounts the view.
func (s *Server) handleObserve(c *gin.Context) {
	id := c.Param("id")
	v, ok := s.views.get(id)
	if !ok {
		abortWithError(c, http.StatusNotFound, "VIEW_NOT_FOUND", errViewNotFound.Error())
		return
	}
	if !s.views.attach(id) {
		abortWithError(c, http.StatusConflict, "VIEW_ATTACHED", "view already has an observer")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.views.remove(id)
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	defer s.views.remove(id)

	logger := s.logger.With(zap.String("view", id))
	obs := newWSObserver(conn, s.cfg.ScrollSpy.Threshold, logger)
	regions := v.Regions()

	err = v.Observe(c.Request.Context(), obs, func(st scrollspy.State) {
		obs.publish(st, regions)
	})
	if err != nil {
		logger.Warn("observation ended", zap.Error(err))
	}
	obs.wait()
	logger.Debug("view unmounted")
}
