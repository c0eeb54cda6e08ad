package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nzbgetcom/webconf/pkg/rpc"
	"github.com/nzbgetcom/webconf/pkg/schema"
)

type recordedCall struct {
	Method string
	Params []any
}

func newDaemon(t *testing.T, results map[string]any) (*RPCSource, func() []recordedCall) {
	t.Helper()

	var mu sync.Mutex
	var calls []recordedCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     string `json:"id"`
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		mu.Lock()
		calls = append(calls, recordedCall{Method: req.Method, Params: req.Params})
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"version": "1.1", "id": req.ID, "result": results[req.Method]})
	}))
	t.Cleanup(server.Close)

	source := NewRPCSource(rpc.NewClient(server.URL, "nzbget", "secret", 5*time.Second))
	return source, func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func TestRPCSourceReadsFromDisk(t *testing.T) {
	source, calls := newDaemon(t, map[string]any{
		"configtemplates": []rpc.ConfigTemplate{{Name: "", Template: "Foo=bar\n"}},
		"loadextensions":  []schema.Extension{{Name: "VideoSort"}},
	})
	ctx := context.Background()

	template, err := source.Template(ctx)
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}
	if template != "Foo=bar\n" {
		t.Errorf("Unexpected template %q", template)
	}
	exts, err := source.Extensions(ctx)
	if err != nil {
		t.Fatalf("Extensions failed: %v", err)
	}
	if len(exts) != 1 || exts[0].Name != "VideoSort" {
		t.Errorf("Unexpected extensions %+v", exts)
	}

	want := []recordedCall{
		{Method: "configtemplates", Params: []any{true}},
		{Method: "loadextensions", Params: []any{true}},
	}
	if diff := cmp.Diff(want, calls()); diff != "" {
		t.Errorf("Calls mismatch (-want +got):\n%s", diff)
	}
}
