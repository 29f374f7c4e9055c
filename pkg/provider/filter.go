package provider

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// terminalFunc indica se o evento (nome e dados) é o último do stream
type terminalFunc func(event, data string) bool

// openAITerminal reconhece o "[DONE]" das chat completions
func openAITerminal(_, data string) bool {
	return data == "[DONE]"
}

// anthropicTerminal reconhece o evento message_stop da API de mensagens
func anthropicTerminal(event, data string) bool {
	if event == "message_stop" {
		return true
	}
	var payload struct {
		Type string `json:"type"`
	}
	return json.Unmarshal([]byte(data), &payload) == nil && payload.Type == "message_stop"
}

// frameFilterMiddleware embrulha o corpo das respostas text/event-stream
// em um frameFilter antes que o decoder do SDK o leia
func frameFilterMiddleware(log logger.Logger, terminal terminalFunc) func(*http.Request, func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	return func(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
		resp, err := next(req)
		if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
			return resp, err
		}

		mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
		if mediaType != "text/event-stream" {
			return resp, nil
		}

		resp.Body = newFrameFilter(resp.Body, log, terminal)
		return resp, nil
	}
}

// frameFilter repassa os eventos SSE bloco a bloco. Eventos cujo "data" não é
// JSON válido são descartados e registrados; blocos sem dados (comentários,
// keep-alives) também. Se o corpo termina sem o evento final, a leitura
// retorna io.ErrUnexpectedEOF.
type frameFilter struct {
	body     io.ReadCloser
	scanner  *bufio.Scanner
	log      logger.Logger
	terminal terminalFunc

	block    []string
	pending  bytes.Buffer
	finished bool
	err      error
}

func newFrameFilter(body io.ReadCloser, log logger.Logger, terminal terminalFunc) *frameFilter {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &frameFilter{body: body, scanner: scanner, log: log, terminal: terminal}
}

// Read implementa io.Reader
func (f *frameFilter) Read(p []byte) (int, error) {
	for f.pending.Len() == 0 {
		if f.err != nil {
			return 0, f.err
		}
		f.fill()
	}
	return f.pending.Read(p)
}

// Close implementa io.Closer
func (f *frameFilter) Close() error {
	return f.body.Close()
}

// fill lê uma linha; linha vazia fecha o bloco corrente
func (f *frameFilter) fill() {
	if !f.scanner.Scan() {
		f.flush()
		switch {
		case f.scanner.Err() != nil:
			f.err = f.scanner.Err()
		case !f.finished:
			f.err = fmt.Errorf("stream encerrado antes do evento final: %w", io.ErrUnexpectedEOF)
		default:
			f.err = io.EOF
		}
		return
	}

	line := strings.TrimRight(f.scanner.Text(), "\r")
	if line == "" {
		f.flush()
		return
	}
	f.block = append(f.block, line)
}

// flush decide se o bloco corrente segue para o decoder
func (f *frameFilter) flush() {
	if len(f.block) == 0 {
		return
	}
	block := f.block
	f.block = nil

	var (
		event string
		data  []string
	)
	for _, line := range block {
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			event = strings.TrimSpace(v)
			continue
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(v, " "))
		}
	}

	payload := strings.Join(data, "\n")
	if strings.TrimSpace(payload) == "" {
		return
	}

	if f.terminal(event, payload) {
		f.finished = true
	} else if !json.Valid([]byte(payload)) {
		f.log.Warn("Evento malformado ignorado no stream", "event", event, "data", payload)
		return
	}

	for _, line := range block {
		f.pending.WriteString(line)
		f.pending.WriteByte('\n')
	}
	f.pending.WriteByte('\n')
}
