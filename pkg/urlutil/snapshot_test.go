package urlutil

import (
	"net/url"
	"testing"
)

func TestBuildSnapshotURL(t *testing.T) {
	got := BuildSnapshotURL("archive.example", "20040101000000", "http://example.jp/")
	want := "https://archive.example/web/20040101000000id_/http://example.jp/"
	if got != want {
		t.Errorf("BuildSnapshotURL() = %q, want %q", got, want)
	}
}

func TestParseSnapshotURL(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		archiveHost  string
		wantTS       string
		wantOriginal string
		wantOK       bool
	}{
		{
			name:         "valid pinned snapshot",
			raw:          "https://archive.example/web/20040101000000id_/http://example.jp/page",
			archiveHost:  "archive.example",
			wantTS:       "20040101000000",
			wantOriginal: "http://example.jp/page",
			wantOK:       true,
		},
		{
			name:         "valid snapshot without id_ modifier",
			raw:          "https://archive.example/web/20040101000000/http://example.jp/page",
			archiveHost:  "archive.example",
			wantTS:       "20040101000000",
			wantOriginal: "http://example.jp/page",
			wantOK:       true,
		},
		{
			name:        "wrong host",
			raw:         "https://other.example/web/20040101000000id_/http://example.jp/page",
			archiveHost: "archive.example",
			wantOK:      false,
		},
		{
			name:        "non-replay path",
			raw:         "https://archive.example/cdx/search/cdx",
			archiveHost: "archive.example",
			wantOK:      false,
		},
		{
			name:        "host case insensitive",
			raw:         "https://ARCHIVE.example/web/20040101000000id_/http://example.jp/",
			archiveHost: "archive.example",
			wantTS:      "20040101000000",
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("url.Parse(%q) failed: %v", tt.raw, err)
			}

			ts, original, ok := ParseSnapshotURL(u, tt.archiveHost)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if ts != tt.wantTS {
				t.Errorf("timestamp = %q, want %q", ts, tt.wantTS)
			}
			if tt.wantOriginal != "" && original != tt.wantOriginal {
				t.Errorf("original = %q, want %q", original, tt.wantOriginal)
			}
		})
	}
}

func TestParseSnapshotURL_NilURL(t *testing.T) {
	_, _, ok := ParseSnapshotURL(nil, "archive.example")
	if ok {
		t.Error("expected ok=false for nil URL")
	}
}

func TestIsArchiveHost(t *testing.T) {
	if !IsArchiveHost("Archive.Example", "archive.example") {
		t.Error("expected case-insensitive match")
	}
	if IsArchiveHost("other.example", "archive.example") {
		t.Error("expected mismatch to be false")
	}
}

func TestHasTargetDomainPrefix(t *testing.T) {
	prefixes := []string{"example.jp", "http://other.example"}

	tests := []struct {
		name     string
		original string
		want     bool
	}{
		{"matches bare prefix", "http://example.jp/page", true},
		{"matches scheme-qualified prefix", "http://other.example/x", true},
		{"no match", "http://unrelated.example/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasTargetDomainPrefix(tt.original, prefixes); got != tt.want {
				t.Errorf("HasTargetDomainPrefix(%q) = %v, want %v", tt.original, got, tt.want)
			}
		})
	}
}
