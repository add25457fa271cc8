//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/infra/marketplace"

	"github.com/shopspring/decimal"
)

// RecordedRequest is one call the service made to the fake marketplace.
type RecordedRequest struct {
	Method         string
	Path           string
	Action         string
	Authorization  string
	IdempotencyKey string
	Body           map[string]any
}

type failure struct {
	status  int
	message string
}

// FakeMarketplace stands in for the marketplace booking API. It serves
// bookings put into it and applies transitions the way the real backend
// reports them.
type FakeMarketplace struct {
	server *httptest.Server

	mu       sync.Mutex
	now      time.Time
	bookings map[string]marketplace.BookingPayload
	refunds  map[string]decimal.Decimal
	failures map[string]failure
	requests []RecordedRequest
}

func NewFakeMarketplace() *FakeMarketplace {
	f := &FakeMarketplace{}
	f.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /bookings/{id}", f.getBooking)
	mux.HandleFunc("POST /bookings/{id}/{action}", f.transition)
	f.server = httptest.NewServer(mux)
	return f
}

func (f *FakeMarketplace) URL() string {
	return f.server.URL
}

func (f *FakeMarketplace) Close() {
	f.server.Close()
}

func (f *FakeMarketplace) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = make(map[string]marketplace.BookingPayload)
	f.refunds = make(map[string]decimal.Decimal)
	f.failures = make(map[string]failure)
	f.requests = nil
}

// SetNow is the instant stamped on check-ins and cancellations.
func (f *FakeMarketplace) SetNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *FakeMarketplace) PutBooking(p marketplace.BookingPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[p.ID] = p
}

// RecordRefundOnCancel makes the next cancellation of id record amount.
func (f *FakeMarketplace) RecordRefundOnCancel(id string, amount string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds[id] = decimal.RequireFromString(amount)
}

// FailAction makes every call to action on id answer with status and message.
func (f *FakeMarketplace) FailAction(id, action string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id+"/"+action] = failure{status: status, message: message}
}

func (f *FakeMarketplace) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Transitions returns the recorded POSTs for action.
func (f *FakeMarketplace) Transitions(action string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == http.MethodPost && r.Action == action {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeMarketplace) record(r *http.Request, action string) RecordedRequest {
	rec := RecordedRequest{
		Method:         r.Method,
		Path:           r.URL.Path,
		Action:         action,
		Authorization:  r.Header.Get("Authorization"),
		IdempotencyKey: r.Header.Get(marketplace.IdempotencyKeyHeader),
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	f.requests = append(f.requests, rec)
	return rec
}

func (f *FakeMarketplace) getBooking(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r, "")

	p, ok := f.bookings[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Booking not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": p})
}

func (f *FakeMarketplace) transition(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, action := r.PathValue("id"), r.PathValue("action")
	rec := f.record(r, action)

	if fail, ok := f.failures[id+"/"+action]; ok {
		writeJSON(w, fail.status, map[string]any{"error": map[string]any{"message": fail.message}})
		return
	}
	p, ok := f.bookings[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Booking not found"})
		return
	}

	now := f.now
	var message string
	switch action {
	case "accept":
		p.Status = string(booking.StatusConfirmed)
		p.PaymentStatus = string(booking.PaymentCaptured)
		message = "Booking accepted"
	case "decline":
		p.Status = string(booking.StatusDeclined)
		message = "Booking declined"
	case "complete":
		p.Status = string(booking.StatusCompleted)
		message = "Booking completed"
	case "check-in":
		p.CheckedInAt = &now
		p.CheckedInBy, _ = rec.Body["checked_by"].(string)
		message = "Guest checked in"
	case "cancel":
		p.Status = string(booking.StatusCancelled)
		p.CancelledAt = &now
		if amount, ok := f.refunds[id]; ok {
			p.RefundAmount = &amount
			p.RefundStatus = "pending"
		}
		message = "Booking cancelled"
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Unknown action"})
		return
	}
	f.bookings[id] = p
	writeJSON(w, http.StatusOK, map[string]any{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
