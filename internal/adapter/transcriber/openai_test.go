package transcriber

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/domain/transcription"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "yo", r.FormValue("language"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "chunk.webm", hdr.Filename)
		assert.Equal(t, "fake-audio", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":" E kaaro. ","language":"yoruba","duration":0,
			"segments":[{"start":0,"end":1.5,"text":" E kaaro.","avg_logprob":0}]}`)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL+"/", "secret", "", zaptest.NewLogger(t))
	res, err := c.Transcribe(context.Background(), strings.NewReader("fake-audio"),
		transcription.Options{FileName: "chunk.webm", Language: "yo-NG"})
	require.NoError(t, err)

	assert.Equal(t, "E kaaro.", res.Text)
	assert.Equal(t, "yoruba", res.Language)
	assert.Equal(t, 1.5, res.Duration)
	assert.Equal(t, 1.0, res.Confidence)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, "E kaaro.", res.Segments[0].Text)
}

func TestTranscribe_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, `{"error":"invalid file format"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "", "whisper-large", zaptest.NewLogger(t))
	_, err := c.Transcribe(context.Background(), strings.NewReader("x"), transcription.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestProviderLanguage(t *testing.T) {
	assert.Equal(t, "en", providerLanguage("en-NG"))
	assert.Equal(t, "ha", providerLanguage("HA"))
	assert.Equal(t, "", providerLanguage(""))
}
