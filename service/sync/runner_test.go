package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	entity "github.com/NguyenNhatCP/cuttingsync/model/entity/cutting"
)

type runnerHarness struct {
	runner      *Runner
	db          *gorm.DB
	dbPath      string
	sleeps      *[]time.Duration
	errPath     string
	successPath string
}

// newRunnerHarness wires a runner against baseURL. The destination is a
// file-backed sqlite database so rows survive the connection release that
// ends every run; reopenDB gives a fresh handle for assertions.
func newRunnerHarness(t *testing.T, baseURL string) *runnerHarness {
	t.Helper()
	dir := t.TempDir()
	errPath := filepath.Join(dir, "error-log.txt")
	successPath := filepath.Join(dir, "success-log.txt")
	audit, err := auditlog.New(errPath, successPath)
	if err != nil {
		t.Fatalf("open audit logs: %v", err)
	}
	t.Cleanup(func() { audit.Close() })

	dbPath := filepath.Join(dir, "cutting.db")
	db := openFileDB(t, dbPath)
	if err := db.AutoMigrate(
		&entity.Product{}, &entity.Material{}, &entity.Size{},
		&entity.Part{}, &entity.ProductOrder{}, &entity.PartSizeOrder{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	source := NewSourceClient(baseURL, "come back in 3 mi", audit)
	sleeps := &[]time.Duration{}
	source.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }

	r := NewRunner(db, source, NewBatchInserter(db, audit), audit)
	r.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	r.now = func() time.Time { return time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC) }
	return &runnerHarness{runner: r, db: db, dbPath: dbPath, sleeps: sleeps, errPath: errPath, successPath: successPath}
}

func openFileDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func (h *runnerHarness) reopenDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openFileDB(t, h.dbPath)
}

func (h *runnerHarness) readLog(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(raw)
}

func TestRunZeroPagesCompletesImmediately(t *testing.T) {
	pageHits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getTotalPages":
			fmt.Fprint(w, `{"data": 0}`)
		default:
			pageHits++
			fmt.Fprint(w, `{"data": []}`)
		}
	}))
	defer ts.Close()

	h := newRunnerHarness(t, ts.URL)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pageHits != 0 {
		t.Errorf("page fetches = %d, want 0", pageHits)
	}
	success := h.readLog(t, h.successPath)
	if !strings.Contains(success, "Data sync complete.") {
		t.Error("completion message missing from success log")
	}
	if strings.Count(success, "\n") != 1 {
		t.Errorf("success log lines = %d, want exactly the completion line", strings.Count(success, "\n"))
	}
}

func TestRunEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getTotalPages":
			if got := r.URL.Query().Get("fromDate"); got != "2025-06-15" {
				t.Errorf("fromDate = %q, want the run date", got)
			}
			fmt.Fprint(w, `{"data": 1}`)
		case "/getDataCuttingByPlanPC":
			fmt.Fprint(w, `{"data": [
				{"ART": "ART-EXISTING", "Model": "Trail", "Materials ID": "M1", "Materials Name": "Mesh",
				 "Factory": "F1", "SO": "SO1", "PO": "PO1", "Master Work Order": "MWO", "Last No": "L1",
				 "Production Process": "CUT", "Size": "42", "Part Id": "P1", "Part Name": "Tongue",
				 "Size Qty": 4, "UNIT": "PRS", "TargetCut": 2},
				{"ART": "ART-NEW", "Model": "Road", "Materials ID": "M2", "Materials Name": "Foam",
				 "Factory": "F1", "SO": "SO2", "PO": "PO2", "Master Work Order": "MWO", "Last No": "L2",
				 "Production Process": "CUT", "Size": "43", "Part Id": "P2", "Part Name": "Heel",
				 "Size Qty": 6, "UNIT": "PRS", "TargetCut": 3}
			]}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer ts.Close()

	h := newRunnerHarness(t, ts.URL)

	// The first record's ART is already in the destination.
	if err := h.db.Create(&entity.Product{ART: "ART-EXISTING", Model: "Trail"}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	db := h.reopenDB(t)
	var products, facts int64
	db.Model(&entity.Product{}).Count(&products)
	db.Model(&entity.PartSizeOrder{}).Count(&facts)
	if products != 2 {
		t.Errorf("product rows = %d, want 2 (existing ART must be reused)", products)
	}
	if facts != 2 {
		t.Errorf("fact rows = %d, want 2", facts)
	}

	success := h.readLog(t, h.successPath)
	if !strings.Contains(success, "Inserted chunk (page 1, records 1-2)") {
		t.Errorf("chunk summary missing from success log:\n%s", success)
	}
	if !strings.Contains(success, "Data sync complete.") {
		t.Error("completion message missing from success log")
	}

	// One chunk means one pacing pause.
	if len(*h.sleeps) != 1 || (*h.sleeps)[0] != 200*time.Millisecond {
		t.Errorf("sleeps = %v, want one 200ms chunk pause", *h.sleeps)
	}
}

func TestRunPageOneEmptyRetries(t *testing.T) {
	pageHits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getTotalPages":
			fmt.Fprint(w, `{"data": 1}`)
		default:
			pageHits++
			fmt.Fprint(w, `{"data": []}`)
		}
	}))
	defer ts.Close()

	h := newRunnerHarness(t, ts.URL)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pageHits != 3 {
		t.Errorf("page fetches = %d, want 3 (no fourth attempt)", pageHits)
	}
	want := []time.Duration{time.Second, time.Second}
	if len(*h.sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *h.sleeps, want)
	}
	for i, d := range want {
		if (*h.sleeps)[i] != d {
			t.Errorf("sleep[%d] = %v, want %v", i, (*h.sleeps)[i], d)
		}
	}

	errLog := h.readLog(t, h.errPath)
	if !strings.Contains(errLog, "No data on page 1. Retrying (1/3)...") {
		t.Error("page-one retry message missing from error log")
	}
	if !strings.Contains(errLog, "No data found on page 1 after retries.") {
		t.Error("empty-page message missing from error log")
	}
	// The run itself still completes.
	if !strings.Contains(h.readLog(t, h.successPath), "Data sync complete.") {
		t.Error("completion message missing from success log")
	}
}

func TestRunAbortsOnTransportExhaustion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/getTotalPages" {
			fmt.Fprint(w, `{"data": 2}`)
			return
		}
		w.WriteHeader(http.StatusRequestTimeout)
	}))
	defer ts.Close()

	h := newRunnerHarness(t, ts.URL)
	err := h.runner.Run(context.Background())
	if !errors.Is(err, ErrRetriesExceeded) {
		t.Fatalf("Run = %v, want ErrRetriesExceeded", err)
	}

	errLog := h.readLog(t, h.errPath)
	if !strings.Contains(errLog, "Unexpected error:") {
		t.Error("fatal error missing from error log")
	}
	if strings.Contains(h.readLog(t, h.successPath), "Data sync complete.") {
		t.Error("aborted run must not log completion")
	}

	// The destination connection is released even on the failure path.
	sqlDB, dbErr := h.db.DB()
	if dbErr != nil {
		t.Fatalf("unwrap db: %v", dbErr)
	}
	if pingErr := sqlDB.Ping(); pingErr == nil {
		t.Error("database connection still open after aborted run")
	}
}
