package logger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLokiLogger_Push(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))
		Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		Expect(json.Unmarshal(body, &entry)).To(Succeed())

		received <- entry
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLokiLogger(zap.NewNop(), "todoapi", server.URL+"/")

	err := logger.Push(context.Background(), zapcore.InfoLevel, "HTTP Request",
		zap.String("method", "GET"),
		zap.Int("status", 200),
		zap.Duration("latency", time.Millisecond),
	)

	Expect(err).To(BeNil())

	var entry LokiLogEntry
	Eventually(received).Should(Receive(&entry))

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("service", "todoapi"))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "info"))
	Expect(entry.Streams[0].Values).To(HaveLen(1))

	var line map[string]interface{}
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())

	Expect(line).To(HaveKeyWithValue("message", "HTTP Request"))
	Expect(line).To(HaveKeyWithValue("method", "GET"))
	Expect(line).To(HaveKeyWithValue("status", BeNumerically("==", 200)))
}

func TestLokiLogger_PushFailureStatus(t *testing.T) {
	RegisterTestingT(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	logger := newLokiLogger(zap.NewNop(), "todoapi", server.URL)

	err := logger.Push(context.Background(), zapcore.ErrorLevel, "boom")

	Expect(err).To(MatchError(ContainSubstring("400")))
}

func TestNopLogger_SkipsLoki(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()

	Expect(logger.LokiEnabled()).To(BeFalse())
	Expect(logger.Push(context.Background(), zapcore.InfoLevel, "ignored")).To(Succeed())
	Expect(func() { logger.InfoWithTrace(context.Background(), "hello") }).NotTo(Panic())
}
