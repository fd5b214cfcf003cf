// Package agency delivers transferred warrants to receiving agencies.
package agency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"court-service/internal/domain/warrant"
)

// Delivery modes.
const (
	ModeRecord = "record"
	ModeHTTP   = "http"
)

// Recorder accepts every delivery locally and issues an agency reference. It is used
// when agencies have no electronic intake.
type Recorder struct {
	log *zap.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{log: log}
}

// Deliver records the hand-off and returns a generated reference.
func (r *Recorder) Deliver(_ context.Context, w *warrant.Warrant, t *warrant.Transfer) (string, error) {
	ref := warrant.NewAgencyReference(t.AgencyID)
	r.log.Info("warrant delivery recorded",
		zap.String("warrant_id", w.ID),
		zap.String("agency", t.AgencyID),
		zap.String("reference", ref),
	)
	return ref, nil
}

// HTTPDeliverer posts warrants to per-agency intake endpoints.
type HTTPDeliverer struct {
	httpClient *http.Client
	endpoints  map[string]string
	log        *zap.Logger
}

// NewHTTPDeliverer creates an HTTPDeliverer. endpoints maps agency id to intake URL.
func NewHTTPDeliverer(httpClient *http.Client, endpoints map[string]string, log *zap.Logger) *HTTPDeliverer {
	return &HTTPDeliverer{httpClient: httpClient, endpoints: endpoints, log: log}
}

type deliveryPayload struct {
	TransferID       string            `json:"transfer_id"`
	WarrantID        string            `json:"warrant_id"`
	WarrantType      string            `json:"warrant_type"`
	Details          map[string]string `json:"details"`
	IssuedAt         time.Time         `json:"issued_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	VerificationCode string            `json:"verification_code"`
	Signature        string            `json:"signature"`
	Notes            string            `json:"notes,omitempty"`
}

// Deliver posts the warrant and returns the agency's reference, or a generated one
// when the agency acknowledges without a reference.
func (d *HTTPDeliverer) Deliver(ctx context.Context, w *warrant.Warrant, t *warrant.Transfer) (string, error) {
	endpoint, ok := d.endpoints[t.AgencyID]
	if !ok || endpoint == "" {
		return "", fmt.Errorf("no intake endpoint configured for agency %s", t.AgencyID)
	}

	body, err := json.Marshal(deliveryPayload{
		TransferID:       t.ID,
		WarrantID:        w.ID,
		WarrantType:      w.Type,
		Details:          w.Details,
		IssuedAt:         w.IssuedAt,
		ExpiresAt:        w.ExpiresAt,
		VerificationCode: w.VerificationCode,
		Signature:        w.Signature,
		Notes:            t.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", t.ID)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("agency %s rejected delivery with status %d: %s", t.AgencyID, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var ack struct {
		Reference string `json:"reference"`
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &ack); err != nil {
			d.log.Warn("unreadable agency acknowledgement", zap.String("agency", t.AgencyID), zap.Error(err))
		}
	}
	if ack.Reference == "" {
		ack.Reference = warrant.NewAgencyReference(t.AgencyID)
	}
	return ack.Reference, nil
}
