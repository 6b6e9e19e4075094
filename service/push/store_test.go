package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	s := NewFileTokenStore(path)
	if n, _ := s.Count(); n != 0 {
		t.Fatalf("fresh store count = %d, want 0", n)
	}

	for _, tok := range []string{"ExponentPushToken[bbb]", "ExponentPushToken[aaa]", "ExponentPushToken[bbb]"} {
		if err := s.Add(tok); err != nil {
			t.Fatalf("Add(%q): %v", tok, err)
		}
	}
	if n, _ := s.Count(); n != 2 {
		t.Errorf("count after duplicate add = %d, want 2", n)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all[0] != "ExponentPushToken[aaa]" || all[1] != "ExponentPushToken[bbb]" {
		t.Errorf("All = %v, want sorted pair", all)
	}

	// A new store over the same file sees the persisted set.
	reloaded := NewFileTokenStore(path)
	if n, _ := reloaded.Count(); n != 2 {
		t.Errorf("reloaded count = %d, want 2", n)
	}

	if err := reloaded.Remove("ExponentPushToken[aaa]"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	var onDisk []string
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("token file is not a JSON array: %v", err)
	}
	if len(onDisk) != 1 || onDisk[0] != "ExponentPushToken[bbb]" {
		t.Errorf("persisted tokens = %v", onDisk)
	}
}

func TestFileTokenStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewFileTokenStore(path)
	if n, _ := s.Count(); n != 0 {
		t.Errorf("count = %d, want 0 for corrupt file", n)
	}
	if err := s.Add("ExponentPushToken[x]"); err != nil {
		t.Fatalf("Add after corrupt load: %v", err)
	}
}

func TestSendToAllBatches(t *testing.T) {
	var batches [][]expoMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []expoMessage
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Errorf("decode batch: %v", err)
		}
		batches = append(batches, batch)
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer ts.Close()

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	for i := 0; i < 130; i++ {
		store.Add(fmt.Sprintf("ExponentPushToken[%03d]", i))
	}

	sender := NewExpoSender(ts.URL)
	report, err := sender.SendToAll(context.Background(), store, Notification{Title: "T", Body: "B"})
	if err != nil {
		t.Fatalf("SendToAll: %v", err)
	}
	if report.Sent != 130 || report.Tokens != 130 {
		t.Errorf("report = %+v, want 130/130", report)
	}
	if len(batches) != 2 || len(batches[0]) != 100 || len(batches[1]) != 30 {
		t.Fatalf("batch sizes = %v, want [100 30]", batchSizes(batches))
	}
	msg := batches[0][0]
	if msg.Sound != "default" || msg.Priority != "high" || msg.Title != "T" {
		t.Errorf("message fields = %+v", msg)
	}
}

func TestSendToAllDropsFailedBatch(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer ts.Close()

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	for i := 0; i < 130; i++ {
		store.Add(fmt.Sprintf("ExponentPushToken[%03d]", i))
	}

	sender := NewExpoSender(ts.URL)
	report, err := sender.SendToAll(context.Background(), store, Notification{Title: "T", Body: "B"})
	if err != nil {
		t.Fatalf("a dropped batch must not fail the broadcast: %v", err)
	}
	if report.Sent != 30 || report.Tokens != 130 {
		t.Errorf("report = %+v, want Sent=30 Tokens=130", report)
	}
}

func TestSendToAllEmptyStore(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty store")
	}))
	defer ts.Close()

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	report, err := NewExpoSender(ts.URL).SendToAll(context.Background(), store, Notification{})
	if err != nil {
		t.Fatalf("SendToAll: %v", err)
	}
	if report.Sent != 0 || report.Tokens != 0 {
		t.Errorf("report = %+v, want zeroes", report)
	}
}

func batchSizes(batches [][]expoMessage) []int {
	out := make([]int, len(batches))
	for i, b := range batches {
		out[i] = len(b)
	}
	return out
}
