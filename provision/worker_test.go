package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordingTransport redirects admin-API calls to the test server regardless
// of the shop host in the URL.
type recordingTransport struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests []*http.Request
	bodies   []map[string]interface{}
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req.Clone(context.Background()))
	var body map[string]interface{}
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &body)
		req.Body = io.NopCloser(bytes.NewReader(raw))
	}
	t.bodies = append(t.bodies, body)
	t.mu.Unlock()

	target, _ := url.Parse(t.server.URL)
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newRecordingClient(t *testing.T, status int) (*http.Client, *recordingTransport) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	transport := &recordingTransport{server: server}
	return &http.Client{Transport: transport}, transport
}

func TestInstaller_InstallWebhooks(t *testing.T) {
	client, transport := newRecordingClient(t, http.StatusCreated)
	installer := NewInstallerWithClient(client)

	err := installer.InstallWebhooks(context.Background(), "shop1.example.com", "tok", []Webhook{
		{Topic: "orders/create", Address: "https://app.example.com/webhooks"},
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	require.Equal(t, "shop1.example.com", req.URL.Host)
	require.Equal(t, "/admin/webhooks.json", req.URL.Path)
	require.Equal(t, "tok", req.Header.Get(accessTokenHeader))

	hook := transport.bodies[0]["webhook"].(map[string]interface{})
	require.Equal(t, "orders/create", hook["topic"])
	require.Equal(t, "https://app.example.com/webhooks", hook["address"])
}

func TestInstaller_InstallScriptTags(t *testing.T) {
	client, transport := newRecordingClient(t, http.StatusCreated)
	installer := NewInstallerWithClient(client)

	err := installer.InstallScriptTags(context.Background(), "shop1.example.com", "tok", []ScriptTag{
		{Event: "onload", Src: "https://cdn.example.com/widget.js"},
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	require.Equal(t, "/admin/script_tags.json", transport.requests[0].URL.Path)

	tag := transport.bodies[0]["script_tag"].(map[string]interface{})
	require.Equal(t, "onload", tag["event"])
	require.Equal(t, "https://cdn.example.com/widget.js", tag["src"])
}

func TestInstaller_ErrorStatus(t *testing.T) {
	client, _ := newRecordingClient(t, http.StatusUnprocessableEntity)
	installer := NewInstallerWithClient(client)

	err := installer.InstallWebhooks(context.Background(), "shop1.example.com", "tok", []Webhook{
		{Topic: "orders/create", Address: "https://app.example.com/webhooks"},
	})
	require.Error(t, err)
}

func TestQueue_EnqueueNeverBlocks(t *testing.T) {
	queue := NewQueue(1)

	queue.Enqueue(Task{Shop: "shop1.example.com"})
	done := make(chan struct{})
	go func() {
		// Buffer is full; this must drop rather than block.
		queue.Enqueue(Task{Shop: "shop2.example.com"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	require.Len(t, queue.Tasks(), 1)
}

func TestWorker_ProcessesTasks(t *testing.T) {
	client, transport := newRecordingClient(t, http.StatusCreated)
	queue := NewQueue(4)
	worker := NewWorker(NewInstallerWithClient(client), queue.Tasks())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	queue.Enqueue(Task{
		Shop:       "shop1.example.com",
		Token:      "tok",
		Webhooks:   []Webhook{{Topic: "orders/create", Address: "https://app.example.com/webhooks"}},
		ScriptTags: []ScriptTag{{Event: "onload", Src: "https://cdn.example.com/widget.js"}},
	})

	require.Eventually(t, func() bool {
		transport.mu.Lock()
		defer transport.mu.Unlock()
		return len(transport.requests) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_FailureDoesNotStopLoop(t *testing.T) {
	client, transport := newRecordingClient(t, http.StatusInternalServerError)
	queue := NewQueue(4)
	worker := NewWorker(NewInstallerWithClient(client), queue.Tasks())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	for _, shop := range []string{"shop1.example.com", "shop2.example.com"} {
		queue.Enqueue(Task{
			Shop:     shop,
			Token:    "tok",
			Webhooks: []Webhook{{Topic: "orders/create", Address: "https://app.example.com/webhooks"}},
		})
	}

	require.Eventually(t, func() bool {
		transport.mu.Lock()
		defer transport.mu.Unlock()
		return len(transport.requests) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJobRunner_RunNow(t *testing.T) {
	var gotShop string
	runner := NewJobRunner(func(ctx context.Context, shop string) error {
		gotShop = shop
		return nil
	})

	require.NoError(t, runner.RunNow(context.Background(), "shop1.example.com"))
	require.Equal(t, "shop1.example.com", gotShop)
}

func TestJobRunner_Schedule(t *testing.T) {
	done := make(chan string, 1)
	runner := NewJobRunner(func(ctx context.Context, shop string) error {
		done <- shop
		return nil
	})

	runner.Schedule("shop1.example.com")

	select {
	case shop := <-done:
		require.Equal(t, "shop1.example.com", shop)
	case <-time.After(time.Second):
		t.Fatal("scheduled job never ran")
	}
}
