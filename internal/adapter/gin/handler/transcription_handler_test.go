package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/adapter/stream"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/transcription"
	transcriptionuc "court-service/internal/usecase/transcription"
	apperrors "court-service/pkg/errors"
)

var stenographer = auth.Principal{UserID: 11, Role: auth.RoleStenographer, Name: "Tolu"}

func setupHub(t *testing.T) *stream.Hub {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return stream.NewHub(client, zaptest.NewLogger(t))
}

func TestTranscriptionHandler_RealTime(t *testing.T) {
	meta := `{"session_id":"s-1","speaker_id":"j1","speaker_name":"Justice Bello","speaker_role":"judge","offset_seconds":12.5}`

	t.Run("Success", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		uc.On("TranscribeChunk", mock.Anything, stenographer, mock.MatchedBy(func(in transcriptionuc.ChunkRequest) bool {
			return in.Metadata.SessionID == "s-1" && in.Metadata.SpeakerName == "Justice Bello" &&
				in.Metadata.OffsetSeconds == 12.5 && in.FileName == "chunk.webm" && string(in.Audio) == "OggS-data"
		})).Return(&transcriptionuc.ChunkResponse{
			SessionID: "s-1",
			Text:      "The court is in session.",
			Segment:   &transcription.Segment{ID: "seg-1", SessionID: "s-1", Sequence: 1, Text: "The court is in session."},
		}, nil)

		body, ct := multipartBody(t, map[string]string{"metadata": meta}, "audio_file", "chunk.webm", []byte("OggS-data"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sequence":1`)
	})

	t.Run("Fallback Field Names", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		uc.On("TranscribeChunk", mock.Anything, stenographer, mock.MatchedBy(func(in transcriptionuc.ChunkRequest) bool {
			return in.Metadata.SessionID == "s-1" && in.FileName == "a.wav"
		})).Return(&transcriptionuc.ChunkResponse{SessionID: "s-1"}, nil)

		body, ct := multipartBody(t, map[string]string{"session_metadata": meta}, "audio", "a.wav", []byte("RIFF"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Missing Metadata", func(t *testing.T) {
		h := NewTranscriptionHandler(new(MockTranscriptionUsecase), nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		body, ct := multipartBody(t, nil, "audio_file", "chunk.webm", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "metadata is required", errorBody(t, w).Message)
	})

	t.Run("Malformed Metadata", func(t *testing.T) {
		h := NewTranscriptionHandler(new(MockTranscriptionUsecase), nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		body, ct := multipartBody(t, map[string]string{"metadata": "{not json"}, "audio_file", "chunk.webm", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Audio", func(t *testing.T) {
		h := NewTranscriptionHandler(new(MockTranscriptionUsecase), nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		body, ct := multipartBody(t, map[string]string{"metadata": meta}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "audio_file is required", errorBody(t, w).Message)
	})

	t.Run("Oversized Chunk", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t)).WithUploadLimits(16, 0)
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		body, ct := multipartBody(t, map[string]string{"metadata": meta}, "audio_file", "chunk.webm", make([]byte, 64))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "audio_file exceeds 16 bytes", errorBody(t, w).Message)
		uc.AssertNotCalled(t, "TranscribeChunk", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Body Beyond Cap Is Not Buffered", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t)).WithUploadLimits(16, 0)
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		body, ct := multipartBody(t, map[string]string{"metadata": meta}, "audio_file", "chunk.webm", make([]byte, 3<<20))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "audio_file exceeds 16 bytes", errorBody(t, w).Message)
		assert.Greater(t, body.Len(), 0, "the request body was not read to the end")
		uc.AssertNotCalled(t, "TranscribeChunk", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Provider Not Configured", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/real-time", h.RealTime)

		uc.On("TranscribeChunk", mock.Anything, stenographer, mock.Anything).
			Return(nil, apperrors.With(apperrors.ErrUnavailable, "transcription provider is not configured"))

		body, ct := multipartBody(t, map[string]string{"metadata": meta}, "audio_file", "chunk.webm", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/real-time", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unavailable", errorBody(t, w).Error)
	})
}

func TestTranscriptionHandler_Sessions(t *testing.T) {
	t.Run("Start Without Body", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/session/start", h.StartSession)

		uc.On("StartSession", mock.Anything, stenographer, transcriptionuc.StartSessionRequest{}).
			Return(&transcription.Session{ID: "s-1", Status: transcription.SessionActive, Language: "en-NG"}, nil)

		w := doJSON(r, http.MethodPost, "/transcription/session/start", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
	})

	t.Run("Stop Twice", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/session/:id/stop", h.StopSession)

		uc.On("StopSession", mock.Anything, stenographer, "s-1").
			Return(nil, apperrors.With(apperrors.ErrConflict, "transcription session s-1 is not active"))

		w := doJSON(r, http.MethodPost, "/transcription/session/s-1/stop", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestTranscriptionHandler_Jobs(t *testing.T) {
	t.Run("Submit", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/jobs", h.SubmitJob)

		uc.On("SubmitJob", mock.Anything, stenographer, mock.MatchedBy(func(in transcriptionuc.SubmitJobRequest) bool {
			data, _ := io.ReadAll(in.Body)
			return in.FileName == "hearing.mp3" && in.CaseID != nil && *in.CaseID == 3 &&
				in.Language == "en-NG" && string(data) == "ID3"
		})).Return(&transcription.Job{ID: "job-1", Status: transcription.JobPending}, nil)

		body, ct := multipartBody(t, map[string]string{"case_id": "3", "language": "en-NG"}, "audio_file", "hearing.mp3", []byte("ID3"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/jobs", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("Submit Invalid Case", func(t *testing.T) {
		h := NewTranscriptionHandler(new(MockTranscriptionUsecase), nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.POST("/transcription/jobs", h.SubmitJob)

		body, ct := multipartBody(t, map[string]string{"case_id": "abc"}, "audio_file", "hearing.mp3", []byte("ID3"))
		req := httptest.NewRequest(http.MethodPost, "/transcription/jobs", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Submit Recording Too Large", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t)).WithUploadLimits(0, 32)
		r := setupEngine(&stenographer)
		r.POST("/transcription/jobs", h.SubmitJob)

		body, ct := multipartBody(t, nil, "audio_file", "hearing.mp3", make([]byte, 33))
		req := httptest.NewRequest(http.MethodPost, "/transcription/jobs", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "audio_file exceeds 32 bytes", errorBody(t, w).Message)
		uc.AssertNotCalled(t, "SubmitJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("List", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.GET("/transcription/jobs", h.ListJobs)

		uc.On("ListJobs", mock.Anything, stenographer, int64(1), int64(20)).
			Return(&transcriptionuc.ListJobsResponse{Jobs: []transcription.Job{}}, nil)

		w := doJSON(r, http.MethodGet, "/transcription/jobs?limit=20", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Get Forbidden", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.GET("/transcription/job/:id", h.GetJob)

		uc.On("GetJob", mock.Anything, stenographer, "job-9").
			Return(nil, apperrors.With(apperrors.ErrForbidden, "not allowed to access this job"))

		w := doJSON(r, http.MethodGet, "/transcription/job/job-9", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Result Not Ready", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.GET("/transcription/job/:id/result", h.GetJobResult)

		uc.On("GetJobResult", mock.Anything, stenographer, "job-1").
			Return(nil, apperrors.NewValidationError("status", "job is not completed"))

		w := doJSON(r, http.MethodGet, "/transcription/job/job-1/result", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		uc := new(MockTranscriptionUsecase)
		h := NewTranscriptionHandler(uc, nil, nil, zaptest.NewLogger(t))
		r := setupEngine(&stenographer)
		r.DELETE("/transcription/job/:id", h.DeleteJob)

		uc.On("DeleteJob", mock.Anything, stenographer, "job-1").Return(nil)

		w := doJSON(r, http.MethodDelete, "/transcription/job/job-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"job-1"}`, w.Body.String())
	})
}

func TestTranscriptionHandler_Stream(t *testing.T) {
	hub := setupHub(t)
	uc := new(MockTranscriptionUsecase)
	h := NewTranscriptionHandler(uc, hub, nil, zaptest.NewLogger(t))
	r := setupEngine(nil)
	r.GET("/transcription/session/:id/stream", h.Stream)

	uc.On("GetSession", mock.Anything, "s-1").Return(&transcriptionuc.SessionDetail{
		Session:  &transcription.Session{ID: "s-1", Status: transcription.SessionActive},
		Segments: []transcription.Segment{{ID: "seg-1", SessionID: "s-1", Sequence: 1, Text: "All rise."}},
	}, nil)
	uc.On("GetSession", mock.Anything, "s-2").Return(&transcriptionuc.SessionDetail{
		Session: &transcription.Session{ID: "s-2", Status: transcription.SessionStopped},
	}, nil)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("Backfill Then Live", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"/transcription/session/s-1/stream", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		defer conn.Close()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		var msg StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "segment", msg.Type)
		var first transcription.Segment
		require.NoError(t, json.Unmarshal(msg.Segment, &first))
		assert.Equal(t, "All rise.", first.Text)

		require.NoError(t, hub.Publish(context.Background(), &transcription.Segment{
			ID: "seg-2", SessionID: "s-1", Sequence: 2, Text: "Please be seated.",
		}))

		require.NoError(t, conn.ReadJSON(&msg))
		var second transcription.Segment
		require.NoError(t, json.Unmarshal(msg.Segment, &second))
		assert.Equal(t, 2, second.Sequence)
		assert.Equal(t, "Please be seated.", second.Text)
	})

	t.Run("Stopped Session", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/transcription/session/s-2/stream", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://court.example.ng"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://court.example.ng")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
