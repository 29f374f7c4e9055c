package relay

// Frame é um evento enviado ao cliente durante o streaming.
// Apenas um dos campos é preenchido em cada frame.
type Frame struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ContentFrame cria um frame com um fragmento de texto
func ContentFrame(content string) Frame {
	return Frame{Content: content}
}

// DoneFrame cria o frame terminal de sucesso
func DoneFrame() Frame {
	return Frame{Done: true}
}

// ErrorFrame cria o frame terminal de falha
func ErrorFrame(message string) Frame {
	return Frame{Error: message}
}

// IsTerminal indica se o frame encerra o stream
func (f Frame) IsTerminal() bool {
	return f.Done || f.Error != ""
}

// FrameWriter é o canal de saída para o cliente
type FrameWriter interface {
	// WriteFrame envia o frame imediatamente; um erro indica que o cliente não está mais acessível
	WriteFrame(frame Frame) error
}

// FrameWriterFunc adapta uma função ao contrato FrameWriter
type FrameWriterFunc func(frame Frame) error

// WriteFrame implementa FrameWriter
func (f FrameWriterFunc) WriteFrame(frame Frame) error {
	return f(frame)
}
