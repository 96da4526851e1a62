package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/minibot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, handler.Output(context.Background(), minibot.Reply{Text: "Sonuç: 8", Source: "calc"}))
	require.NoError(t, handler.SystemOutput(context.Background(), "hello"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var reply minibot.Reply
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &reply))
	assert.Equal(t, minibot.Reply{Text: "Sonuç: 8", Source: "calc"}, reply)
	assert.JSONEq(t, `{"system":"hello"}`, lines[1])
}

func TestJSONHandler_Input(t *testing.T) {
	input := `{"text": "hesapla 1+1"}
"todo liste"
plain text
last line without newline`
	handler := NewJSONHandler(strings.NewReader(input), io.Discard)
	ctx := context.Background()

	for _, want := range []string{"hesapla 1+1", "todo liste", "plain text", "last line without newline"} {
		got, err := handler.Input(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_Session(t *testing.T) {
	input := "{\"text\": \"2^10\"}\n{\"text\": \"exit\"}\n"
	output := &bytes.Buffer{}

	r := NewRunner(WithHeadless(true), WithInputHandler(NewJSONHandler(strings.NewReader(input), output)))
	require.NoError(t, r.Run(context.Background(), minibot.New()))

	dec := json.NewDecoder(output)
	var first, last minibot.Reply
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&last))
	assert.Equal(t, "Sonuç: 1024", first.Text)
	assert.Equal(t, minibot.SourceMath, first.Source)
	assert.Equal(t, "Görüşürüz", last.Text)
}
