package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/minibot/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_PlainSession(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute(context.Background(), RunOptions{
		Plain:  true,
		Stdin:  strings.NewReader("selam\ntodo ekle süt\ntodo liste\nçık\n"),
		Stdout: out,
	})
	require.NoError(t, err)

	expected := "Mini Chatbot | çıkış: q / çık / exit\n" +
		"Sen: Bot: Selam! Ben mini chatbot 'yardım' yazabilirsin.\n" +
		"Sen: Bot: Eklendi : süt\n" +
		"Sen: Bot: Yapılacaklar:\n- 1. süt\n" +
		"Sen: Bot: Görüşürüz\n"
	assert.Equal(t, expected, out.String())
}

func TestExecute_HeadlessSkipsBannerAndPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute(context.Background(), RunOptions{
		Headless: true,
		Stdin:    strings.NewReader("hesapla 2^10\n"),
		Stdout:   out,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bot: Sonuç: 1024\nBot: Görüşürüz\n", out.String())
}

func TestExecute_JSONMode(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute(context.Background(), RunOptions{
		JSON:   true,
		Stdin:  strings.NewReader(`{"text":"3*3"}` + "\n" + `"şaka yap"` + "\n"),
		Stdout: out,
	})
	require.NoError(t, err)

	dec := json.NewDecoder(out)
	var first map[string]string
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "Mini Chatbot | çıkış: q / çık / exit", first["system"])

	var reply map[string]string
	require.NoError(t, dec.Decode(&reply))
	assert.Equal(t, "Sonuç: 9", reply["reply"])
	assert.Equal(t, "math", reply["source"])

	require.NoError(t, dec.Decode(&reply))
	assert.Equal(t, "joke", reply["source"])
}

func TestExecute_RejectsJSONWithPlain(t *testing.T) {
	err := Execute(context.Background(), RunOptions{JSON: true, Plain: true})
	assert.ErrorContains(t, err, "cannot be used together")
}

func TestExecute_CustomReplies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("goodbye: \"Hoşça kal\"\n"), 0o644))

	out := &bytes.Buffer{}
	err := Execute(context.Background(), RunOptions{
		Headless:    true,
		RepliesPath: path,
		Stdin:       strings.NewReader("q\n"),
		Stdout:      out,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bot: Hoşça kal\n", out.String())
}

func TestExecute_RedisKeepsTasksAcrossRuns(t *testing.T) {
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()

	run := func(input string) string {
		out := &bytes.Buffer{}
		require.NoError(t, Execute(context.Background(), RunOptions{
			Headless:  true,
			RedisURL:  url,
			SessionID: "ayse",
			Stdin:     strings.NewReader(input),
			Stdout:    out,
		}))
		return out.String()
	}

	run("todo ekle kitap oku\n")
	out := run("todo liste\n")
	assert.Contains(t, out, "- 1. kitap oku")
}

func TestExecute_RedisUnavailable(t *testing.T) {
	err := Execute(context.Background(), RunOptions{
		Headless: true,
		RedisURL: "redis://127.0.0.1:1",
		Stdin:    strings.NewReader(""),
		Stdout:   io.Discard,
	})
	assert.ErrorContains(t, err, "failed to connect to redis")

	err = Execute(context.Background(), RunOptions{RedisURL: "::bad::", Stdout: io.Discard})
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestCalc(t *testing.T) {
	tests := []struct {
		expr string
		tree bool
		want string
	}{
		{expr: "2+2*3", want: "Sonuç: 8\n"},
		{expr: "2^3^2", tree: true, want: "(2 ^ (3 ^ 2))\nSonuç: 512\n"},
		{expr: "1/0", want: "Hesaplanamadı: sıfıra bölünemez\n"},
		{expr: "x", tree: true, want: "Hesaplanamadı: ifade desteklenmiyor (sütun 1)\n"},
		{expr: "2 & 3", want: "Hesaplanamadı: ifade desteklenmiyor (sütun 3)\n"},
		{expr: strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300), want: "Hesaplanamadı: ifade anlaşılamadı (sütun 257)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out := &bytes.Buffer{}
			require.NoError(t, Calc(context.Background(), out, tt.expr, tt.tree))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCalc_RejectsOversizedExpression(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "16")

	out := &bytes.Buffer{}
	err := Calc(context.Background(), out, strings.Repeat("1+", 20)+"1", false)
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
	assert.Empty(t, out.String())
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, ServeOptions{
			Metrics: true,
			Stdout:  io.Discard,
			Ready:   func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	base := "http://" + strings.Replace(addr, "[::]", "127.0.0.1", 1)

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), MCPOptions{Transport: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}
