package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "fasttype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rec := record(30+i, 90, "word")
		rec.ProfileID = model.MainProfile
		rec.Date = time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		if _, err := st.LogSession(ctx, rec); err != nil {
			t.Fatalf("log session: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Lang: "en", Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].WPM != 31 || report.Sessions[1].WPM != 32 {
		t.Fatalf("unexpected sessions: %+v", report.Sessions)
	}
	if len(report.Window) != 1 {
		t.Fatalf("expected 1 window session, got %d", len(report.Window))
	}
	if report.Summary.BestWPM != 32 {
		t.Fatalf("expected best wpm 32, got %d", report.Summary.BestWPM)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 1, RenderOptions{Width: 60, Recent: 5, TopWords: 3}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Learning Curves", "Recent Sessions", "Most Missed Words"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
