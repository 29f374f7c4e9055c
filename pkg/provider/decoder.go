package provider

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// ErrUpstream indica que o provedor encerrou o stream com um objeto de erro
var ErrUpstream = errors.New("erro retornado pelo provedor")

// Tamanho máximo de uma linha do stream
const maxLineSize = 1 << 20

// chunkPayload é o formato de cada evento no padrão de chat completions
type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Decoder lê linhas "data:" de um corpo SSE e produz fragmentos de texto.
// Linhas malformadas são registradas e ignoradas; "[DONE]" encerra a leitura.
// Um corpo que termina antes do "[DONE]" encerra com io.ErrUnexpectedEOF.
type Decoder struct {
	scanner  *bufio.Scanner
	log      logger.Logger
	fragment string
	err      error
	done     bool
}

// NewDecoder cria um Decoder sobre o reader informado
func NewDecoder(r io.Reader, log logger.Logger) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{scanner: scanner, log: log}
}

// Next avança até o próximo fragmento não vazio
func (d *Decoder) Next() bool {
	d.fragment = ""
	if d.done {
		return false
	}

	for d.scanner.Scan() {
		line := strings.TrimRight(d.scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			// event:, id:, retry: não carregam texto
			continue
		}
		data = strings.TrimSpace(data)

		if data == "[DONE]" {
			d.done = true
			return false
		}

		var payload chunkPayload
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			d.log.Warn("Linha malformada ignorada no stream", "error", err, "data", data)
			continue
		}

		if payload.Error != nil {
			d.err = fmt.Errorf("%w: %s", ErrUpstream, payload.Error.Message)
			d.done = true
			return false
		}

		if len(payload.Choices) == 0 || payload.Choices[0].Delta.Content == "" {
			continue
		}

		d.fragment = payload.Choices[0].Delta.Content
		return true
	}

	d.done = true
	if err := d.scanner.Err(); err != nil {
		d.err = fmt.Errorf("erro ao ler stream: %w", err)
	} else {
		d.err = fmt.Errorf("stream encerrado antes de [DONE]: %w", io.ErrUnexpectedEOF)
	}
	return false
}

// Fragment retorna o fragmento corrente
func (d *Decoder) Fragment() string {
	return d.fragment
}

// Err retorna o erro que encerrou a leitura, se houver
func (d *Decoder) Err() error {
	return d.err
}
