package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-cuisinequest/internal/auth"
	"backend-cuisinequest/internal/backend"
	"backend-cuisinequest/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

const testSecret = "secret"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:         testSecret,
		ServerPort:        ":0",
		BasePath:          "/api",
		StoreDriver:       config.DriverMemory,
		DefaultImageURL:   "https://img.example/placeholder.png",
		DefaultAuthorName: "Anonymous Chef",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(testConfig(), backend.NewMemory(), nil)
	t.Cleanup(s.Close)
	return s
}

func token(t *testing.T, userID, name string) string {
	t.Helper()
	tok, err := auth.NewService(testSecret).IssueToken(auth.Identity{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s.App, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 status")
	}
}

func TestFollowAndFeedFlow(t *testing.T) {
	s := newTestServer(t)
	viewer := token(t, "v", "Viewer")
	chef := token(t, "a", "Chef A")

	resp, raw := do(t, s.App, http.MethodPost, "/api/follows", viewer, map[string]string{"userId": "v", "followingId": "a"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("follow: %d %s", resp.StatusCode, raw)
	}
	resp, _ = do(t, s.App, http.MethodPost, "/api/follows", viewer, map[string]string{"userId": "v", "followingId": "a"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected second follow to fail, got %d", resp.StatusCode)
	}

	for _, title := range []string{"First", "Second"} {
		resp, raw = do(t, s.App, http.MethodPost, "/api/posts", chef, map[string]string{
			"userId": "a", "title": title, "description": "d", "body": "b",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create post: %d %s", resp.StatusCode, raw)
		}
		time.Sleep(2 * time.Millisecond)
	}

	resp, raw = do(t, s.App, http.MethodGet, "/api/posts", "", nil)
	var posts []map[string]any
	_ = json.Unmarshal(raw, &posts)
	if resp.StatusCode != http.StatusOK || len(posts) != 2 || posts[0]["title"] != "Second" {
		t.Fatalf("unexpected posts %s", raw)
	}
	if posts[0]["authorName"] != "Chef A" || posts[0]["imageUrl"] != "https://img.example/placeholder.png" {
		t.Fatalf("expected author name from token and default image, got %v", posts[0])
	}

	_, raw = do(t, s.App, http.MethodGet, "/api/feed?viewerId=v", "", nil)
	var items []map[string]any
	_ = json.Unmarshal(raw, &items)
	if len(items) != 2 || items[0]["isFollowingAuthor"] != true || items[0]["isOwnPost"] != false {
		t.Fatalf("unexpected feed %s", raw)
	}

	_, raw = do(t, s.App, http.MethodGet, "/api/follows?userId=v", "", nil)
	var following struct {
		FollowingIDs []string `json:"followingIds"`
	}
	_ = json.Unmarshal(raw, &following)
	if len(following.FollowingIDs) != 1 || following.FollowingIDs[0] != "a" {
		t.Fatalf("unexpected following %s", raw)
	}

	resp, _ = do(t, s.App, http.MethodDelete, "/api/follows?userId=v&followingId=a", viewer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unfollow: %d", resp.StatusCode)
	}
	resp, _ = do(t, s.App, http.MethodDelete, "/api/follows?userId=v&followingId=a", viewer, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not following, got %d", resp.StatusCode)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s.App, http.MethodPost, "/api/follows", "", map[string]string{"userId": "v", "followingId": "a"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.StatusCode)
	}
	resp, _ = do(t, s.App, http.MethodPost, "/api/posts", token(t, "v", ""), map[string]string{
		"userId": "someone-else", "title": "t", "description": "d", "body": "b",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected identity mismatch, got %d", resp.StatusCode)
	}
}

func TestLatencyEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s.App, http.MethodGet, "/api/posts", "", nil)
	do(t, s.App, http.MethodGet, "/api/posts", "", nil)

	_, raw := do(t, s.App, http.MethodGet, "/debug/latency", "", nil)
	var summaries []LatencySummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, sum := range summaries {
		if sum.Route == "GET /api/posts/" || sum.Route == "GET /api/posts" {
			found = sum.Count == 2
		}
	}
	if !found {
		t.Fatalf("expected two recorded requests, got %s", raw)
	}
}

func TestLiveUpdateReachesFollower(t *testing.T) {
	s := newTestServer(t)
	do(t, s.App, http.MethodPost, "/api/follows", token(t, "f1", ""), map[string]string{"userId": "f1", "followingId": "a"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = s.App.Listener(ln)
	}()
	defer func() { _ = s.App.Shutdown() }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/stream/ws/f1", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(time.Second)
	for s.Stream.Connected("f1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("websocket never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	do(t, s.App, http.MethodPost, "/api/posts", token(t, "a", "Chef A"), map[string]string{
		"userId": "a", "title": "Live", "description": "d", "body": "b",
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	var ev struct {
		Type string `json:"type"`
		Post struct {
			Title string `json:"title"`
		} `json:"post"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil || ev.Type != "post.created" || ev.Post.Title != "Live" {
		t.Fatalf("unexpected event %s", msg)
	}
}

func TestLatencyRecorderClamps(t *testing.T) {
	l := NewLatencyRecorder()
	l.Record("GET /x", 0)
	l.Record("GET /x", 2*time.Minute)
	snap := l.Snapshot()
	if len(snap) != 1 || snap[0].Count != 2 || snap[0].Max < 59_000_000 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
