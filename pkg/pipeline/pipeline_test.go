package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
	"github.com/asanagraph/asana-deps-graph/pkg/render"
)

const tasksBody = `{"data":[
	{"gid":"A","name":"Design","completed":false,"dependencies":[]},
	{"gid":"B","name":"Build","completed":false,"dependencies":[{"gid":"A"}]}
],"next_page":null}`

func testRunner(t *testing.T, handler http.HandlerFunc) (*Runner, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := asana.NewClient("test-pat", asana.WithBaseURL(server.URL))
	return NewRunner(client, nil), server.Close
}

func TestRunner_RunDOT(t *testing.T) {
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, tasksBody)
	})
	defer closeFn()

	out, err := r.Run(context.Background(), Options{ProjectID: "100"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, want := range []string{`"A" [label="Design"]`, `"B" [label="Build"]`, `"A" -> "B"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunner_RunMermaid(t *testing.T) {
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, tasksBody)
	})
	defer closeFn()

	out, err := r.Run(context.Background(), Options{ProjectID: "100", Format: render.FormatMermaid})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(out, "flowchart TB\n") {
		t.Errorf("expected flowchart output:\n%s", out)
	}
	if !strings.Contains(out, "A --> B") {
		t.Errorf("expected edge:\n%s", out)
	}
}

func TestRunner_InvalidFormatFailsBeforeFetch(t *testing.T) {
	fetched := false
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		fetched = true
		fmt.Fprint(w, tasksBody)
	})
	defer closeFn()

	_, err := r.Run(context.Background(), Options{ProjectID: "100", Format: "svg"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("expected INVALID_FORMAT, got %v", err)
	}
	if fetched {
		t.Error("expected no fetch for an invalid format")
	}
}

func TestRunner_FetchErrorYieldsNoOutput(t *testing.T) {
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer closeFn()

	out, err := r.Run(context.Background(), Options{ProjectID: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("expected empty output on failure, got %q", out)
	}
}

func TestRunner_EmptyProject(t *testing.T) {
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"data":[],"next_page":null}`)
	})
	defer closeFn()

	out, err := r.Run(context.Background(), Options{ProjectID: "100"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "digraph {\n}\n" {
		t.Errorf("expected empty digraph, got:\n%s", out)
	}
}

func TestRunner_CheckedDOT(t *testing.T) {
	r, closeFn := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, tasksBody)
	})
	defer closeFn()

	if _, err := r.Run(context.Background(), Options{ProjectID: "100", Check: true, Decorate: true}); err != nil {
		t.Fatalf("checked run failed: %v", err)
	}
}
