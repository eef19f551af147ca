package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/config"
	"github.com/nguyentantai21042004/scribe/internal/ingest"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
	"github.com/nguyentantai21042004/scribe/internal/models"
	"github.com/nguyentantai21042004/scribe/internal/sequencer"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/summarizer"
	"github.com/nguyentantai21042004/scribe/internal/transcoder"
)

// copyExecutor stands in for ffmpeg by copying input to output.
type copyExecutor struct{}

func (copyExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func (copyExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	var input string
	for i, a := range args {
		if a == "-i" {
			input = args[i+1]
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, input))
	if err != nil {
		return "", err
	}
	if string(data) == "corrupt" {
		return "", errors.New("Invalid data found when processing input")
	}
	return "", os.WriteFile(filepath.Join(dir, args[len(args)-1]), data, 0644)
}

// echoTranscriber treats the audio bytes as the spoken text.
type echoTranscriber struct{}

func (echoTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	return string(wav), nil
}

// echoModel summarizes by quoting the transcript at the end of the prompt.
type echoModel struct{}

func (echoModel) Generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	prompt := contents[0].Parts[0].Text
	_, transcript, _ := strings.Cut(prompt, "possibly in multiple languages:\n")
	return "summary of: " + strings.TrimSpace(transcript), nil
}

type testEnv struct {
	srv   *Server
	store store.Store
	hub   broadcast.Broadcaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Nop()

	st, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	hub := broadcast.New(log, m)
	tmp := t.TempDir()

	tc := transcoder.New(config.FFmpegConfig{BinaryPath: "ffmpeg", SampleRate: 16000, Channels: 1}, tmp, 2, copyExecutor{}, log)
	seq := sequencer.New(st)
	pipeline := ingest.New(st, seq, tc, echoTranscriber{}, hub, m, log)
	sum := summarizer.New(st, echoModel{}, hub, seq, m, "gemini-2.5-flash", tmp, log)

	cfg := config.ServerConfig{
		Address:        ":0",
		RequestTimeout: 5,
		MaxUploadBytes: 1 << 10,
		AllowedOrigins: []string{"*"},
	}
	srv := New(cfg, Deps{
		Pipeline:    pipeline,
		Summarizer:  sum,
		Store:       st,
		Broadcaster: hub,
		Metrics:     m,
		Gatherer:    reg,
		SendBuffer:  16,
	}, log)
	t.Cleanup(func() { srv.cancel() })

	return &testEnv{srv: srv, store: st, hub: hub}
}

func uploadRequest(t *testing.T, sessionID string, audio []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if sessionID != "" {
		mw.WriteField("sessionId", sessionID)
	}
	if audio != nil {
		fw, err := mw.CreateFormFile("audio", "blob.webm")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(audio)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload-chunk", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func summarizeRequestFor(sessionID string) *http.Request {
	body, _ := json.Marshal(summarizeRequest{SessionID: sessionID})
	req := httptest.NewRequest(http.MethodPost, "/summarize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestUploadThenSummarize(t *testing.T) {
	env := newTestEnv(t)

	for _, word := range []string{"hello", "world"} {
		rr := env.do(uploadRequest(t, "s1", []byte(word)))
		if rr.Code != http.StatusOK {
			t.Fatalf("upload %s: status = %d, body %s", word, rr.Code, rr.Body)
		}
		if got := decode[uploadResponse](t, rr); got.Transcript != word {
			t.Errorf("transcript = %q, want %q", got.Transcript, word)
		}
	}

	rr := env.do(summarizeRequestFor("s1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("summarize: status = %d, body %s", rr.Code, rr.Body)
	}
	if got := decode[summarizeResponse](t, rr); got.Summary != "summary of: hello world" {
		t.Errorf("summary = %q, want %q", got.Summary, "summary of: hello world")
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/sessions/s1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get session: status = %d", rr.Code)
	}
	view := decode[sessionView](t, rr)
	if view.State != string(models.StateCompleted) || view.EndedAt == nil {
		t.Errorf("session = %+v, want completed with ended_at", view)
	}
	if view.Summary == nil || *view.Summary != "summary of: hello world" {
		t.Errorf("summary = %v, want stored summary", view.Summary)
	}
	want := []chunkView{{0, "hello"}, {1, "world"}}
	if len(view.Chunks) != 2 || view.Chunks[0] != want[0] || view.Chunks[1] != want[1] {
		t.Errorf("chunks = %+v, want %+v", view.Chunks, want)
	}
}

func TestSummarizeTrimsSessionID(t *testing.T) {
	env := newTestEnv(t)

	if rr := env.do(uploadRequest(t, "s1", []byte("hello"))); rr.Code != http.StatusOK {
		t.Fatalf("upload: status = %d, body %s", rr.Code, rr.Body)
	}

	rr := env.do(summarizeRequestFor(" s1 "))
	if rr.Code != http.StatusOK {
		t.Fatalf("summarize: status = %d, body %s", rr.Code, rr.Body)
	}
	if got := decode[summarizeResponse](t, rr); got.Summary != "summary of: hello" {
		t.Errorf("summary = %q, want %q", got.Summary, "summary of: hello")
	}
}

func TestSummarizeWithoutTranscript(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(summarizeRequestFor("s2"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := decode[summarizeResponse](t, rr); got.Summary != msgNoTranscript {
		t.Errorf("summary = %q, want %q", got.Summary, msgNoTranscript)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if views := decode[[]sessionView](t, rr); len(views) != 0 {
		t.Errorf("sessions = %+v, want none", views)
	}
	rr = env.do(httptest.NewRequest(http.MethodGet, "/sessions/s2", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("get s2: status = %d, want 404", rr.Code)
	}
}

func TestSummarizeBadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "sessionId=s1"},
		{"missing id", `{}`},
		{"blank id", `{"sessionId":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(tt.body)))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestUploadBadRequests(t *testing.T) {
	env := newTestEnv(t)

	notMultipart := httptest.NewRequest(http.MethodPost, "/upload-chunk", strings.NewReader("x"))
	notMultipart.Header.Set("Content-Type", "text/plain")

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"missing session", uploadRequest(t, "", []byte("hello")), http.StatusBadRequest},
		{"missing audio", uploadRequest(t, "s1", nil), http.StatusBadRequest},
		{"empty audio", uploadRequest(t, "s1", []byte{}), http.StatusBadRequest},
		{"not multipart", notMultipart, http.StatusBadRequest},
		{"too large", uploadRequest(t, "s1", bytes.Repeat([]byte("a"), 4<<10)), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(tt.req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestUploadPipelineFailure(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(uploadRequest(t, "s1", []byte("corrupt")))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := decode[errorResponse](t, rr); got.Error != msgUploadFailed {
		t.Errorf("error = %q, want %q", got.Error, msgUploadFailed)
	}

	detail, err := env.store.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if detail.State != models.StateError {
		t.Errorf("State = %v, want %v", detail.State, models.StateError)
	}
}

func TestListSessionsShape(t *testing.T) {
	env := newTestEnv(t)
	env.do(uploadRequest(t, "s1", []byte("hello")))

	rr := env.do(httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var raw []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1 {
		t.Fatalf("sessions = %d, want 1", len(raw))
	}
	for _, key := range []string{"id", "created_at", "ended_at", "state", "summary", "chunks"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("session object missing %q", key)
		}
	}
	if raw[0]["summary"] != nil || raw[0]["ended_at"] != nil {
		t.Errorf("summary/ended_at = %v/%v, want null", raw[0]["summary"], raw[0]["ended_at"])
	}
	chunks := raw[0]["chunks"].([]any)
	first := chunks[0].(map[string]any)
	if first["ordinal"] != float64(0) || first["text"] != "hello" {
		t.Errorf("chunk = %v, want ordinal 0 text hello", first)
	}
	if len(first) != 2 {
		t.Errorf("chunk keys = %v, want only ordinal and text", first)
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.do(uploadRequest(t, "s1", []byte("hello")))

	rr := env.do(httptest.NewRequest(http.MethodGet, "/sessions/s1/export", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), `filename="session-s1.docx"`) {
		t.Errorf("Content-Disposition = %q", rr.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Error("export body is not a zip archive")
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/sessions/ghost/export", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown export: status = %d, want 404", rr.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := decode[healthResponse](t, rr); got.Status != "healthy" {
		t.Errorf("health = %+v", got)
	}

	rr = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "scribe_http_requests_total") {
		t.Errorf("metrics: status = %d, missing request counter", rr.Code)
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/upload-chunk", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := env.do(req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestWebsocketReceivesSessionEvents(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?sessionId=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount("s1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never joined s1")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if rr := env.do(uploadRequest(t, "s1", []byte("hello"))); rr.Code != http.StatusOK {
		t.Fatalf("upload: status = %d", rr.Code)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var names []string
	for len(names) < 2 {
		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read: %v", err)
		}
		names = append(names, frame.Event)

		if frame.Event == models.EventTranscriptUpdate {
			var u models.TranscriptUpdate
			json.Unmarshal(frame.Data, &u)
			if u.SessionID != "s1" || u.Ordinal != 0 || u.Text != "hello" {
				t.Errorf("transcript_update = %+v", u)
			}
		}
	}

	if names[0] != models.EventTranscriptUpdate || names[1] != models.EventSessionState {
		t.Errorf("events = %v, want transcript_update then session_state", names)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc-123", "session-abc-123"},
		{`a"b/c`, "session-a_b_c"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
