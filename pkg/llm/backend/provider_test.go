package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-notechat-be/pkg/llm"
)

func TestChatForwardsOptions(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, time.Second)
	reply, err := p.Chat(
		context.Background(),
		"hello",
		[]llm.Message{{Role: "user", Content: "earlier"}},
		llm.WithTemperature(0.2),
		llm.WithMaxTokens(256),
		llm.WithMode("agent"),
	)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if got["temperature"] != 0.2 {
		t.Errorf("temperature not forwarded: %v", got["temperature"])
	}
	if got["max_tokens"] != float64(256) {
		t.Errorf("max_tokens not forwarded: %v", got["max_tokens"])
	}
	if got["mode"] != "agent" {
		t.Errorf("mode not forwarded: %v", got["mode"])
	}
}

func TestChatOmitsUnsetOptions(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, time.Second)
	if _, err := p.Chat(context.Background(), "hello", nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	for _, field := range []string{"temperature", "max_tokens", "mode"} {
		if _, present := got[field]; present {
			t.Errorf("unset option %q should be omitted", field)
		}
	}
}
