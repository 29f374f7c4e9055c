// Package sse escreve frames no formato server-sent events sobre uma resposta HTTP.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/hugohenrick/pitchdeck/pkg/relay"
)

var (
	ErrStreamingUnsupported = errors.New("a resposta não suporta streaming")
	ErrClosed               = errors.New("stream já encerrado")
)

// Writer emite frames "data: <json>\n\n", com flush a cada frame.
// Após um frame terminal nenhuma escrita é aceita.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
	closed  bool
}

// NewWriter cria um Writer; o ResponseWriter precisa implementar http.Flusher
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Start envia os cabeçalhos do stream; é chamado implicitamente no primeiro frame
func (s *Writer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

func (s *Writer) start() {
	if s.started {
		return
	}
	s.started = true

	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.flusher.Flush()
}

// WriteFrame implementa relay.FrameWriter
func (s *Writer) WriteFrame(frame relay.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.start()

	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("erro ao serializar frame: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		s.closed = true
		return fmt.Errorf("erro ao escrever frame: %w", err)
	}
	s.flusher.Flush()

	if frame.IsTerminal() {
		s.closed = true
	}
	return nil
}
