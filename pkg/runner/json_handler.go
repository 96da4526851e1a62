package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/minibot"
)

// JSONMessage is one input line in JSON mode. Plain text and JSON strings are accepted too.
type JSONMessage struct {
	Text string `json:"text"`
}

// JSONSystem is emitted for meta-messages in JSON mode.
type JSONSystem struct {
	System string `json:"system"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

// Output emits the reply as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, reply minibot.Reply) error {
	return h.Encoder.Encode(reply)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	// {"text": "..."} first, then a JSON string, then the raw line.
	var msg JSONMessage
	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &msg) == nil {
		text = msg.Text
	} else {
		var val string
		if err := json.Unmarshal([]byte(text), &val); err == nil {
			text = val
		}
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(JSONSystem{System: msg})
}
