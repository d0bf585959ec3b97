package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"taskmgr/internal/service"
)

type apiTask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

// fakeTasksAPI serves the handful of Tasks API routes the client uses.
// Lists are paged two items at a time to exercise page tokens.
type fakeTasksAPI struct {
	mu       sync.Mutex
	items    []apiTask
	seq      int
	status   int
	lastList string
	patched  map[string]any
}

func (f *fakeTasksAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"Request had invalid authentication credentials."}}`, f.status)
		return
	}

	// Path: .../lists/{list}/tasks[/{task}]
	i := strings.Index(r.URL.Path, "/lists/")
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path[i+len("/lists/"):], "/"), "/")
	if len(parts) < 2 || parts[1] != "tasks" {
		http.NotFound(w, r)
		return
	}
	f.lastList = parts[0]
	taskID := ""
	if len(parts) > 2 {
		taskID = parts[2]
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && taskID == "":
		start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
		end := start + 2
		if end > len(f.items) {
			end = len(f.items)
		}
		resp := map[string]any{"items": f.items[start:end]}
		if end < len(f.items) {
			resp["nextPageToken"] = strconv.Itoa(end)
		}
		json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && taskID == "":
		var t apiTask
		json.NewDecoder(r.Body).Decode(&t)
		f.seq++
		t.ID = fmt.Sprintf("g%d", f.seq)
		f.items = append(f.items, t)
		json.NewEncoder(w).Encode(t)

	case r.Method == http.MethodPatch:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.patched = body
		for i := range f.items {
			if f.items[i].ID == taskID {
				f.items[i].Title, _ = body["title"].(string)
				f.items[i].Notes, _ = body["notes"].(string)
				json.NewEncoder(w).Encode(f.items[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"Task not found."}}`)

	case r.Method == http.MethodDelete:
		for i := range f.items {
			if f.items[i].ID == taskID {
				f.items = append(f.items[:i], f.items[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"Task not found."}}`)

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeTasksAPI, listID string) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), listID, option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return c
}

func TestClient_ListAllFollowsPages(t *testing.T) {
	api := &fakeTasksAPI{items: []apiTask{
		{ID: "x1", Title: "A", Notes: "d"},
		{ID: "x2", Title: "B"},
		{ID: "x3", Title: "C"},
	}}
	c := newTestClient(t, api, "")

	got, err := c.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []service.Task{
		{ID: 1, Title: "A", Description: "d"},
		{ID: 2, Title: "B"},
		{ID: 3, Title: "C"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if api.lastList != DefaultListID {
		t.Errorf("expected default list, got %q", api.lastList)
	}
}

func TestClient_IDsAreStable(t *testing.T) {
	api := &fakeTasksAPI{items: []apiTask{{ID: "x1", Title: "A"}, {ID: "x2", Title: "B"}}}
	c := newTestClient(t, api, "work")
	ctx := context.Background()

	first, _ := c.ListAll(ctx)
	if err := c.Insert(ctx, service.Fields{Title: "C"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := c.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	if len(second) != 3 {
		t.Fatalf("expected 3 tasks, got %+v", second)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("id of %q changed from %d to %d", first[i].Title, first[i].ID, second[i].ID)
		}
	}
	if second[2].ID != 3 || second[2].Title != "C" {
		t.Errorf("expected inserted task to get id 3, got %+v", second[2])
	}
	if api.lastList != "work" {
		t.Errorf("expected configured list, got %q", api.lastList)
	}
}

func TestClient_UpdateSendsEmptyNotes(t *testing.T) {
	api := &fakeTasksAPI{items: []apiTask{{ID: "x1", Title: "A", Notes: "d"}}}
	c := newTestClient(t, api, "")
	ctx := context.Background()

	tasks, _ := c.ListAll(ctx)
	if err := c.UpdateByID(ctx, tasks[0].ID, service.Fields{Title: "A2", Description: ""}); err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}

	if _, ok := api.patched["notes"]; !ok {
		t.Error("expected notes to be sent even when empty")
	}
	if api.items[0].Title != "A2" || api.items[0].Notes != "" {
		t.Errorf("unexpected stored task: %+v", api.items[0])
	}
}

func TestClient_Delete(t *testing.T) {
	api := &fakeTasksAPI{items: []apiTask{{ID: "x1", Title: "A"}}}
	c := newTestClient(t, api, "")
	ctx := context.Background()

	tasks, _ := c.ListAll(ctx)
	if err := c.DeleteByID(ctx, tasks[0].ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if len(api.items) != 0 {
		t.Errorf("expected task deleted, got %+v", api.items)
	}

	err := c.DeleteByID(ctx, tasks[0].ID)
	if err == nil || err.Error() != "task not found: 1" {
		t.Errorf("expected unknown id error, got %v", err)
	}
}

func TestClient_UnknownID(t *testing.T) {
	c := newTestClient(t, &fakeTasksAPI{}, "")

	err := c.UpdateByID(context.Background(), 99, service.Fields{Title: "x"})
	var re *service.RemoteError
	if !errors.As(err, &re) || re.Op != "update" {
		t.Errorf("expected RemoteError for update, got %v", err)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	api := &fakeTasksAPI{status: http.StatusUnauthorized}
	c := newTestClient(t, api, "")

	_, err := c.ListAll(context.Background())
	if !service.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err.Error() != "token expired or revoked (run: taskmgr login)" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
