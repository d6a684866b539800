package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Stage", KeyStage, "load", Stage("load")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "post.md", File("post.md")},
		{"Page", KeyPage, "/posts/", Page("/posts/")},
		{"Template", KeyTemplate, "blog", Template("blog")},
		{"URL", KeyURL, "https://example.com", URL("https://example.com")},
		{"Branch", KeyBranch, "main", Branch("main")},
		{"Subject", KeySubject, "htmlgen.runs", Subject("htmlgen.runs")},
		{"Op", KeyOp, "write", Op("write")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if got := Items(3).Value.Int64(); got != 3 {
		t.Fatalf("Items: got %d", got)
	}
	if got := Pages(7).Value.Int64(); got != 7 {
		t.Fatalf("Pages: got %d", got)
	}
	if got := Duration(1500 * time.Microsecond).Value.Float64(); got != 1.5 {
		t.Fatalf("Duration: got %v", got)
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("nil error should render empty, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
