package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, reg *prom.Registry) string {
	t.Helper()
	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(body)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncFileResult("imported")
	r.IncFileResult("imported")
	r.IncFileResult("skipped")
	r.IncImportRun(OutcomeSuccess)
	r.ObserveImportDuration(120 * time.Millisecond)
	r.AddPruned(3)
	r.AddPruned(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 4 {
		t.Errorf("metric families = %d, want 4", len(mfs))
	}

	out := scrape(t, reg)
	for _, want := range []string{
		`specpress_import_files_total{status="imported"} 2`,
		`specpress_import_files_total{status="skipped"} 1`,
		`specpress_import_runs_total{outcome="success"} 1`,
		`specpress_import_pruned_total 3`,
		`specpress_import_duration_seconds_count 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q:\n%s", want, out)
		}
	}
}

func TestNewPrometheusRecorder_NilRegistry(t *testing.T) {
	r := NewPrometheusRecorder(nil)
	r.IncImportRun(OutcomeCanceled)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncFileResult("imported")
	r.IncImportRun(OutcomeSuccess)
	r.ObserveImportDuration(time.Second)
	r.AddPruned(1)
}
