package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lotoqueue/internal/config"
	"lotoqueue/internal/notifications"
)

type capture struct {
	calls    int
	title    string
	tags     string
	priority string
	body     string
}

func newServer(t *testing.T, status int) (*httptest.Server, *capture) {
	t.Helper()
	captured := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		captured.calls++
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		captured.body = string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func serviceFor(server *httptest.Server) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.RequestTimeout = 5
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "run"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNotifyRunCompleted(t *testing.T) {
	tests := []struct {
		name          string
		report        notifications.RunReport
		expectCalls   int
		expectTitle   string
		expectMessage string
		expectTags    string
	}{
		{
			name:          "all ok",
			report:        notifications.RunReport{Processed: 3, OK: 3, Duration: 65 * time.Second},
			expectCalls:   1,
			expectTitle:   "Lotoqueue - Run Complete",
			expectMessage: "Queue run complete: 3 rows published in 1m5s",
			expectTags:    "lotoqueue,run,completed",
		},
		{
			name:          "with failures",
			report:        notifications.RunReport{RunID: "abc", Processed: 3, OK: 1, Failed: 2, Duration: 2 * time.Second, DryRun: true},
			expectCalls:   1,
			expectTitle:   "Lotoqueue - Run Complete (with errors) [dry run]",
			expectMessage: "Queue run complete: 1 succeeded, 2 failed in 2s\nRun: abc",
			expectTags:    "lotoqueue,run,warning",
		},
		{
			name:   "idle run is silent",
			report: notifications.RunReport{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, captured := newServer(t, http.StatusOK)
			if err := serviceFor(server).NotifyRunCompleted(context.Background(), tc.report); err != nil {
				t.Fatalf("NotifyRunCompleted: %v", err)
			}
			if captured.calls != tc.expectCalls {
				t.Fatalf("expected %d calls, got %d", tc.expectCalls, captured.calls)
			}
			if tc.expectCalls == 0 {
				return
			}
			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
		})
	}
}

func TestNotifyErrorIsHighPriority(t *testing.T) {
	server, captured := newServer(t, http.StatusOK)
	if err := serviceFor(server).NotifyError(context.Background(), errors.New("sheet unreachable"), "run"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if captured.body != "Error with run: sheet unreachable" {
		t.Fatalf("unexpected body %q", captured.body)
	}
	if captured.priority != "high" {
		t.Fatalf("expected high priority, got %q", captured.priority)
	}
}

func TestSendReportsHTTPFailure(t *testing.T) {
	server, _ := newServer(t, http.StatusTooManyRequests)
	if err := serviceFor(server).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
