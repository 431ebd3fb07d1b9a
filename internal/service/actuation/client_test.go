package actuation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"signalguard/internal/dto"
	"signalguard/internal/model"
)

func TestClient_Send_Success(t *testing.T) {
	var got dto.SignalRequest
	var contentType, method string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewClient(server.URL, "green", time.Second).Send(context.Background())

	if !res.OK || res.Channel != model.ChannelActuation {
		t.Fatalf("Expected success, got %+v", res)
	}
	if method != http.MethodPost {
		t.Errorf("Expected POST, got %s", method)
	}
	if contentType != "application/json" {
		t.Errorf("Expected JSON content type, got %s", contentType)
	}
	if got.Signal != "green" {
		t.Errorf("Expected signal green, got %q", got.Signal)
	}
}

func TestClient_Send_NonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusServiceUnavailable} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		res := NewClient(server.URL, "green", time.Second).Send(context.Background())
		server.Close()

		if res.OK {
			t.Errorf("status %d: expected failure", status)
		}
		if !strings.Contains(res.Message, "status") {
			t.Errorf("status %d: unexpected message %q", status, res.Message)
		}
		if res.Err != nil {
			t.Errorf("status %d: refusal must not carry a transport error", status)
		}
	}
}

func TestClient_Send_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := NewClient(url, "green", time.Second).Send(context.Background())
	if res.OK {
		t.Fatal("Expected failure for closed server")
	}
	if !strings.Contains(res.Message, "transport error") {
		t.Errorf("Unexpected message %q", res.Message)
	}
	if res.Err == nil {
		t.Error("Expected transport error to be attached")
	}
}

func TestClient_Send_TimeoutBoundsSlowEndpoint(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	res := NewClient(server.URL, "green", 50*time.Millisecond).Send(context.Background())

	if res.OK {
		t.Fatal("Expected timeout failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Send blocked for %v despite 50ms timeout", elapsed)
	}
}

func TestClient_Send_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	NewClient(server.URL, "green", time.Second).Send(context.Background())
	if calls.Load() != 1 {
		t.Errorf("Expected exactly one attempt, got %d", calls.Load())
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	res := NewClient("://bad", "green", time.Second).Send(context.Background())
	if res.OK {
		t.Error("Expected failure for invalid URL")
	}
}
