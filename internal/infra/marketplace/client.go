// Package marketplace is the HTTP gateway to the marketplace booking API,
// which owns every booking and decides every transition.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/pkg/jwt"
	"booking-lifecycle/internal/pkg/patch"

	"github.com/google/uuid"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	maxBodyBytes = 1 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	defaultLoc *time.Location
	logger     *slog.Logger
}

func NewClient(cfg config.MarketplaceConfig, defaultLoc *time.Location, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

// GetBooking reads a booking, with its stay either nested or embedded as a
// listing snapshot.
func (c *Client) GetBooking(ctx context.Context, id string) (booking.Snapshot, error) {
	raw, err := c.do(ctx, http.MethodGet, bookingPath(id), nil, "", "get booking")
	if err != nil {
		return booking.Snapshot{}, err
	}

	payload, err := decodeBooking(raw)
	if err != nil {
		return booking.Snapshot{}, infra.WrapErr(c.logger, infra.KindDecode, "decode booking", err)
	}
	snap, err := ToSnapshot(payload, c.defaultLoc)
	if err != nil {
		return booking.Snapshot{}, infra.WrapErr(c.logger, infra.KindDecode, "convert booking", err)
	}
	return snap, nil
}

func (c *Client) Accept(ctx context.Context, id string) (string, error) {
	return c.action(ctx, id, "accept", nil, "")
}

func (c *Client) Decline(ctx context.Context, id string) (string, error) {
	return c.action(ctx, id, "decline", nil, "")
}

func (c *Client) Complete(ctx context.Context, id string) (string, error) {
	return c.action(ctx, id, "complete", nil, "")
}

func (c *Client) CheckIn(ctx context.Context, id string, by booking.Actor, method string) (string, error) {
	return c.action(ctx, id, "check-in", checkInRequest{CheckedBy: by.String(), CheckInMethod: method}, "")
}

// Cancel asks the backend to cancel; the backend computes the final refund.
// Retries with the same idempotencyKey are safe.
func (c *Client) Cancel(ctx context.Context, id, reason, idempotencyKey string) (string, error) {
	return c.action(ctx, id, "cancel", cancelRequest{Reason: strings.TrimSpace(reason)}, idempotencyKey)
}

func (c *Client) action(ctx context.Context, id, name string, body any, idempotencyKey string) (string, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	raw, err := c.do(ctx, http.MethodPost, bookingPath(id)+"/"+name, body, idempotencyKey, name+" booking")
	if err != nil {
		return "", err
	}
	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", infra.WrapErr(c.logger, infra.KindDecode, "decode "+name+" response", err)
		}
	}
	return env.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey, op string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, infra.WrapErr(c.logger, infra.KindDecode, "encode "+op+" request", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := jwt.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, "read "+op+" response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	message := upstreamMessage(raw)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, infra.UpstreamErr(c.logger, infra.KindNotFound, resp.StatusCode, message, op)
	case resp.StatusCode >= 500:
		return nil, infra.UpstreamErr(c.logger, infra.KindTransport, resp.StatusCode, message, op)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, infra.UpstreamErr(c.logger, infra.KindRejected, resp.StatusCode, patch.FirstNonZero(message, http.StatusText(resp.StatusCode)), op)
	default:
		return nil, infra.UpstreamErr(c.logger, infra.KindRejected, resp.StatusCode, patch.FirstNonZero(message, fmt.Sprintf("Request rejected (%d)", resp.StatusCode)), op)
	}
}

func bookingPath(id string) string {
	return "/bookings/" + url.PathEscape(id)
}

// decodeBooking accepts the booking at the top level or under "booking" or "data".
func decodeBooking(raw []byte) (BookingPayload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BookingPayload{}, err
	}
	inner := raw
	switch {
	case len(env.Booking) > 0 && !bytes.Equal(env.Booking, []byte("null")):
		inner = env.Booking
	case len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")):
		inner = env.Data
	}
	var p BookingPayload
	if err := json.Unmarshal(inner, &p); err != nil {
		return BookingPayload{}, err
	}
	return p, nil
}

// upstreamMessage pulls the user-facing text out of an error body:
// {"message": "..."} or {"error": "..."} or {"error": {"message": "..."}}.
func upstreamMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	switch e := body.Error.(type) {
	case string:
		return e
	case map[string]any:
		if m, ok := e["message"].(string); ok {
			return m
		}
	}
	return ""
}
