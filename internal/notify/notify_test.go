package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMultiNotifier_Send(t *testing.T) {
	var called []string

	n1 := &mockNotifier{name: "a", sendFn: func(n Notification) error {
		called = append(called, "a")
		return nil
	}}
	n2 := &mockNotifier{name: "b", sendFn: func(n Notification) error {
		called = append(called, "b")
		return nil
	}}

	m := NewMultiNotifier(n1, n2)
	err := m.Send(context.Background(), Notification{Title: "test", Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(called) != 2 || called[0] != "a" || called[1] != "b" {
		t.Fatalf("expected both notifiers called, got: %v", called)
	}
}

func TestMultiNotifier_FirstErrorStillTriesAll(t *testing.T) {
	boom := errors.New("boom")
	var called []string

	n1 := &mockNotifier{name: "a", sendFn: func(n Notification) error {
		called = append(called, "a")
		return boom
	}}
	n2 := &mockNotifier{name: "b", sendFn: func(n Notification) error {
		called = append(called, "b")
		return errors.New("later")
	}}

	m := NewMultiNotifier(n1, n2)
	err := m.Send(context.Background(), Notification{Title: "test"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected first error, got: %v", err)
	}
	if len(called) != 2 {
		t.Fatalf("expected both notifiers called, got: %v", called)
	}
}

func TestMultiNotifier_Name(t *testing.T) {
	m := NewMultiNotifier(
		&mockNotifier{name: "x"},
		&mockNotifier{name: "y"},
	)
	got := m.Name()
	want := "multi(x,y)"
	if got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}
}

func TestWebhookNotifier_Slack(t *testing.T) {
	var received map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	wh := NewWebhookNotifier(srv.URL, "slack", nil)
	err := wh.Send(context.Background(), Notification{Title: "Dagelijkse taken", Body: "3 open taken"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received["text"] != "Dagelijkse taken\n3 open taken" {
		t.Fatalf("unexpected payload: %v", received)
	}
}

func TestWebhookNotifier_Telegram(t *testing.T) {
	var received map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	extra := map[string]string{"chat_id": "123456"}
	wh := NewWebhookNotifier(srv.URL, "telegram", extra)
	err := wh.Send(context.Background(), Notification{Title: "alert", Body: "taak te laat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received["chat_id"] != "123456" {
		t.Fatalf("expected chat_id=123456, got: %v", received["chat_id"])
	}
	if received["text"] != "alert\ntaak te laat" {
		t.Fatalf("unexpected text: %v", received["text"])
	}
	if received["parse_mode"] != "HTML" {
		t.Fatalf("expected parse_mode=HTML, got: %v", received["parse_mode"])
	}
}

func TestWebhookNotifier_Custom(t *testing.T) {
	var received map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	extra := map[string]string{
		"template": `{"subject": "{{.Title}}", "message": "{{.Body}}"}`,
	}
	wh := NewWebhookNotifier(srv.URL, "custom", extra)
	err := wh.Send(context.Background(), Notification{Title: "digest", Body: "2 taken"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received["subject"] != "digest" {
		t.Fatalf("unexpected subject: %v", received["subject"])
	}
	if received["message"] != "2 taken" {
		t.Fatalf("unexpected message: %v", received["message"])
	}
}

func TestWebhookNotifier_Custom_MissingTemplate(t *testing.T) {
	wh := NewWebhookNotifier("http://localhost", "custom", nil)
	err := wh.Send(context.Background(), Notification{Title: "test", Body: "msg"})
	if err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestWebhookNotifier_Custom_InvalidJSON(t *testing.T) {
	extra := map[string]string{"template": `niet json {{.Title}}`}
	wh := NewWebhookNotifier("http://localhost", "custom", extra)
	err := wh.Send(context.Background(), Notification{Title: "test"})
	if err == nil {
		t.Fatal("expected error for a template that renders invalid JSON")
	}
}

func TestWebhookNotifier_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	wh := NewWebhookNotifier(srv.URL, "slack", nil)
	err := wh.Send(context.Background(), Notification{Title: "test", Body: "msg"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

// mockNotifier is a test helper.
type mockNotifier struct {
	name   string
	sendFn func(Notification) error
}

func (m *mockNotifier) Send(_ context.Context, n Notification) error {
	if m.sendFn != nil {
		return m.sendFn(n)
	}
	return nil
}

func (m *mockNotifier) Name() string { return m.name }
