package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// replyTimeout bounds how long a pushed utterance waits for the turn loop
// to produce its response.
const replyTimeout = 30 * time.Second

// UtteranceRequest is the JSON body of a pushed utterance.
type UtteranceRequest struct {
	Text string `json:"text" example:"remind me to buy milk"`
}

// UtteranceReply is the JSON response carrying the assistant's answer.
type UtteranceReply struct {
	Reply string `json:"reply" example:"Got it! I've added a reminder: buy milk."`
}

// HTTP accepts utterances pushed over REST and WebSocket, for frontends
// that run speech-to-text elsewhere and send finished transcripts here.
type HTTP struct {
	port   int
	queue  chan *Utterance
	server *http.Server

	closeOnce sync.Once
	closed    chan struct{}
}

// NewHTTP creates an HTTP source listening on the given port.
func NewHTTP(port int) *HTTP {
	return &HTTP{
		port:   port,
		queue:  make(chan *Utterance, 16),
		closed: make(chan struct{}),
	}
}

func (h *HTTP) Name() string { return "http" }

// Start runs the HTTP server until the context is cancelled. It blocks, so
// callers run it in its own goroutine alongside the turn loop.
func (h *HTTP) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /utterance", h.handleUtterance)
	mux.HandleFunc("GET /ws", h.handleWS)

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	h.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", h.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http source listening", "port", h.port)

	go func() {
		<-ctx.Done()
		slog.Info("http source shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.server.Shutdown(shutdownCtx)
	}()

	if err := h.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http source listen: %w", err)
	}
	return nil
}

// handleUtterance processes a POST /utterance request.
//
// @Summary     Push a transcribed utterance
// @Description Accepts one finished transcript, runs it through the intent pipeline
// @Description and returns the assistant's spoken reply once the turn completes.
// @Tags        utterance
// @Accept      json
// @Produce     json
// @Param       utterance  body      UtteranceRequest  true  "Transcribed user speech"
// @Success     200  {object}  UtteranceReply  "Assistant reply"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     503  {string}  string  "Turn loop unavailable or reply timed out"
// @Router      /utterance [post]
func (h *HTTP) handleUtterance(w http.ResponseWriter, r *http.Request) {
	var req UtteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text must not be empty", http.StatusBadRequest)
		return
	}

	reply, err := h.push(r.Context(), req.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(UtteranceReply{Reply: reply})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWS upgrades to a WebSocket and treats every text message as one
// utterance, writing the assistant's reply back on the same connection.
//
// @Summary     Stream utterances over WebSocket
// @Description Each text frame is one transcript; the reply arrives as a text frame on the same socket.
// @Tags        utterance
// @Router      /ws [get]
func (h *HTTP) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}

		reply, err := h.push(r.Context(), text)
		if err != nil {
			reply = "Sorry, I couldn't process that right now."
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			return
		}
	}
}

// push queues one utterance for the turn loop and waits for its reply.
// Text is lowercase-normalized to match the source contract.
func (h *HTTP) push(ctx context.Context, text string) (string, error) {
	ut := &Utterance{Text: strings.ToLower(text), reply: make(chan string, 1)}

	select {
	case <-h.closed:
		return "", ErrClosed
	default:
	}

	select {
	case h.queue <- ut:
	case <-h.closed:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}

	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()

	select {
	case reply := <-ut.reply:
		return reply, nil
	case <-timer.C:
		return "", fmt.Errorf("timed out waiting for reply")
	case <-h.closed:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Next returns the next pushed utterance. Unlike the console source there is
// no listen window: the loop simply waits for the next client push.
func (h *HTTP) Next(ctx context.Context) (*Utterance, error) {
	select {
	case ut := <-h.queue:
		return ut, nil
	case <-h.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *HTTP) Close() error {
	h.closeOnce.Do(func() { close(h.closed) })
	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.server.Shutdown(ctx)
	}
	return nil
}
