// Package transcriber implements speech-to-text against an OpenAI-compatible
// /v1/audio/transcriptions endpoint.
package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"court-service/internal/domain/transcription"
)

const maxErrorBody = 4 << 10

// Client calls an OpenAI-compatible transcription API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	log        *zap.Logger
}

// New returns a Client for baseURL, e.g. https://api.openai.com.
func New(httpClient *http.Client, baseURL, apiKey, model string, log *zap.Logger) *Client {
	if model == "" {
		model = "whisper-1"
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + "/v1/audio/transcriptions",
		apiKey:     apiKey,
		model:      model,
		log:        log,
	}
}

type verboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Transcribe streams audio to the provider and decodes the verbose_json response.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, opts transcription.Options) (*transcription.Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(c.writeForm(mw, audio, opts))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var vr verboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	res := &transcription.Result{
		Text:     strings.TrimSpace(vr.Text),
		Language: vr.Language,
		Duration: vr.Duration,
		Segments: make([]transcription.ResultSegment, len(vr.Segments)),
	}
	var confidence float64
	for i, s := range vr.Segments {
		res.Segments[i] = transcription.ResultSegment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)}
		confidence += math.Exp(s.AvgLogprob)
	}
	if n := len(vr.Segments); n > 0 {
		res.Confidence = math.Round(confidence/float64(n)*1000) / 1000
		if res.Duration == 0 {
			res.Duration = vr.Segments[n-1].End
		}
	}

	c.log.Debug("transcription received",
		zap.Int("segments", len(vr.Segments)),
		zap.Float64("duration", res.Duration),
		zap.String("language", res.Language),
	)
	return res, nil
}

func (c *Client) writeForm(mw *multipart.Writer, audio io.Reader, opts transcription.Options) error {
	fields := [][2]string{
		{"model", c.model},
		{"response_format", "verbose_json"},
	}
	if lang := providerLanguage(opts.Language); lang != "" {
		fields = append(fields, [2]string{"language", lang})
	}
	if opts.Prompt != "" {
		fields = append(fields, [2]string{"prompt", opts.Prompt})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	name := filepath.Base(opts.FileName)
	if name == "." || name == "/" {
		name = "audio.webm"
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, audio); err != nil {
		return err
	}
	return mw.Close()
}

// providerLanguage reduces a locale such as yo-NG to the ISO-639-1 code the API expects.
func providerLanguage(locale string) string {
	lang, _, _ := strings.Cut(strings.TrimSpace(locale), "-")
	return strings.ToLower(lang)
}
