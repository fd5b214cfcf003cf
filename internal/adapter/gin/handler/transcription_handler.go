package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/adapter/stream"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/transcription"
	transcriptionuc "court-service/internal/usecase/transcription"
	apperrors "court-service/pkg/errors"
)

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// TranscriptionUsecase is the subset of the transcription usecase served over HTTP.
type TranscriptionUsecase interface {
	StartSession(ctx context.Context, p auth.Principal, in transcriptionuc.StartSessionRequest) (*transcription.Session, error)
	StopSession(ctx context.Context, p auth.Principal, id string) (*transcription.Session, error)
	GetSession(ctx context.Context, id string) (*transcriptionuc.SessionDetail, error)
	TranscribeChunk(ctx context.Context, p auth.Principal, in transcriptionuc.ChunkRequest) (*transcriptionuc.ChunkResponse, error)
	SubmitJob(ctx context.Context, p auth.Principal, in transcriptionuc.SubmitJobRequest) (*transcription.Job, error)
	ListJobs(ctx context.Context, p auth.Principal, page, limit int64) (*transcriptionuc.ListJobsResponse, error)
	GetJob(ctx context.Context, p auth.Principal, id string) (*transcription.Job, error)
	GetJobResult(ctx context.Context, p auth.Principal, id string) (*transcriptionuc.JobResult, error)
	DeleteJob(ctx context.Context, p auth.Principal, id string) error
}

// Subscriber subscribes to the live segments of a session.
type Subscriber interface {
	Subscribe(ctx context.Context, sessionID string) (*stream.Subscription, error)
}

// StreamMessage is one websocket frame of the live transcript stream.
type StreamMessage struct {
	Type    string          `json:"type"`
	Segment json.RawMessage `json:"segment,omitempty"`
}

// TranscriptionHandler handles live sessions, real-time chunks and offline jobs.
type TranscriptionHandler struct {
	uc        TranscriptionUsecase
	hub       Subscriber
	upgrader  websocket.Upgrader
	maxChunk  int64
	maxUpload int64
	log       *zap.Logger
}

// NewTranscriptionHandler creates a new TranscriptionHandler. allowedOrigins
// restricts websocket handshakes; empty or "*" accepts any origin.
func NewTranscriptionHandler(uc TranscriptionUsecase, hub Subscriber, allowedOrigins []string, log *zap.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		uc:  uc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		maxChunk:  defaultMaxChunkSize,
		maxUpload: defaultMaxUploadSize,
		log:       log,
	}
}

// WithUploadLimits sets the largest accepted real-time chunk and job recording.
func (h *TranscriptionHandler) WithUploadLimits(chunk, upload int64) *TranscriptionHandler {
	if chunk > 0 {
		h.maxChunk = chunk
	}
	if upload > 0 {
		h.maxUpload = upload
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// StartSession handles POST /transcription/session/start
func (h *TranscriptionHandler) StartSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req transcriptionuc.StartSessionRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.StartSession(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// StopSession handles POST /transcription/session/:id/stop
func (h *TranscriptionHandler) StopSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.uc.StopSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetSession handles GET /transcription/session/:id
func (h *TranscriptionHandler) GetSession(c *gin.Context) {
	detail, err := h.uc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RealTime handles POST /transcription/real-time. The form carries the audio in
// "audio_file" (or "audio") and JSON metadata in "metadata" (or "session_metadata").
func (h *TranscriptionHandler) RealTime(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if !parseUpload(c, "audio_file", h.maxChunk) {
		return
	}
	raw := formValue(c, "metadata", "session_metadata")
	if raw == "" {
		response.BadRequest(c, "metadata is required")
		return
	}
	var meta transcriptionuc.ChunkMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		response.BadRequest(c, "metadata must be valid JSON")
		return
	}

	fh, err := formFile(c, "audio_file", "audio")
	if err != nil {
		response.BadRequest(c, "audio_file is required")
		return
	}
	if !withinLimit(c, fh, "audio_file", h.maxChunk) {
		return
	}
	audio, err := readFormFile(fh, h.maxChunk)
	if err != nil {
		h.log.Error("failed to read audio chunk", zap.Error(err))
		response.Error(c, apperrors.NewInternalError("failed to read audio", err))
		return
	}

	out, err := h.uc.TranscribeChunk(c.Request.Context(), p, transcriptionuc.ChunkRequest{
		Metadata: meta,
		FileName: fh.Filename,
		Audio:    audio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Stream handles GET /transcription/session/:id/stream. The connection first
// receives the stored segments, then every new one until the client disconnects.
func (h *TranscriptionHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	detail, err := h.uc.GetSession(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if detail.Status != transcription.SessionActive {
		response.Error(c, apperrors.With(apperrors.ErrConflict, "transcription session %s is not active", id))
		return
	}

	sub, err := h.hub.Subscribe(ctx, id)
	if err != nil {
		h.log.Error("failed to subscribe to session", zap.String("session_id", id), zap.Error(err))
		response.Error(c, apperrors.Wrap(apperrors.ErrUnavailable, err, "live stream unavailable"))
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the client
		h.log.Warn("websocket upgrade failed", zap.String("session_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	for i := range detail.Segments {
		payload, err := json.Marshal(&detail.Segments[i])
		if err != nil {
			return
		}
		if err := writeFrame(conn, StreamMessage{Type: "segment", Segment: payload}); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	h.log.Info("transcript stream opened", zap.String("session_id", id))
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			h.log.Info("transcript stream closed", zap.String("session_id", id))
			return
		case msg, ok := <-sub.Messages():
			if !ok {
				return
			}
			if err := writeFrame(conn, StreamMessage{Type: "segment", Segment: json.RawMessage(msg.Payload)}); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}

// SubmitJob handles POST /transcription/jobs
func (h *TranscriptionHandler) SubmitJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if !parseUpload(c, "audio_file", h.maxUpload) {
		return
	}
	fh, err := formFile(c, "audio_file", "audio", "file")
	if err != nil {
		response.BadRequest(c, "audio_file is required")
		return
	}
	if !withinLimit(c, fh, "audio_file", h.maxUpload) {
		return
	}
	req := transcriptionuc.SubmitJobRequest{
		Language: c.PostForm("language"),
		FileName: fh.Filename,
	}
	if v := c.PostForm("session_id"); v != "" {
		req.SessionID = &v
	}
	if v := c.PostForm("case_id"); v != "" {
		caseID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || caseID < 1 {
			response.BadRequest(c, "case_id must be a positive integer")
			return
		}
		req.CaseID = &caseID
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperrors.NewInternalError("failed to read upload", err))
		return
	}
	defer f.Close()
	req.Body = f

	job, err := h.uc.SubmitJob(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// ListJobs handles GET /transcription/jobs
func (h *TranscriptionHandler) ListJobs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	resp, err := h.uc.ListJobs(c.Request.Context(), p, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /transcription/job/:id
func (h *TranscriptionHandler) GetJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	job, err := h.uc.GetJob(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetJobResult handles GET /transcription/job/:id/result
func (h *TranscriptionHandler) GetJobResult(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	res, err := h.uc.GetJobResult(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteJob handles DELETE /transcription/job/:id
func (h *TranscriptionHandler) DeleteJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.uc.DeleteJob(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// formFile returns the first present file field among names.
func formFile(c *gin.Context, names ...string) (*multipart.FileHeader, error) {
	var err error
	for _, name := range names {
		var fh *multipart.FileHeader
		if fh, err = c.FormFile(name); err == nil {
			return fh, nil
		}
	}
	if err == nil {
		err = errors.New("no file field")
	}
	return nil, err
}

// formValue returns the first non-empty form field among names.
func formValue(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.PostForm(name)); v != "" {
			return v
		}
	}
	return ""
}

func readFormFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}
