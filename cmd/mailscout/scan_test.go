package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/mailscout/internal/config"
	"github.com/nao1215/mailscout/internal/database"
	"github.com/nao1215/mailscout/internal/pipeline"
)

// newPlumberSite serves one contact page with a title and two addresses,
// one of them blacklisted. Every other path is a 404.
func newPlumberSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/contact" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Plombier A</title></head><body>
			<p>Contact: jean@a.test</p>
			<a href="mailto:noreply@a.test">ne pas répondre</a>
		</body></html>`)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

// startAcceptRecorder starts a TCP listener that reports the remote
// address of every accepted connection.
func startAcceptRecorder(t *testing.T) (net.Listener, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan string, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- conn.RemoteAddr().String()
			_ = conn.Close()
		}
	}()
	return ln, accepted
}

// TestNewScanCmd tests the scan command flags.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"count", "n", "10"},
		{"urls", "u", ""},
		{"timeout", "t", "8s"},
		{"cap", "", "100"},
		{"output", "o", ""},
		{"proxy", "", ""},
		{"tor", "", "false"},
		{"csv", "", "false"},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected shorthand %q, got %q", tc.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("expected default %q, got %q", tc.defValue, flag.DefValue)
			}
		})
	}
}

// TestSelectFormat tests format selection from flags and file extension.
func TestSelectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Config
		want reportFormat
	}{
		{"default is text", config.Config{}, formatText},
		{"csv flag", config.Config{CSVReport: true}, formatCSV},
		{"json flag", config.Config{JSONReport: true}, formatJSON},
		{"markdown flag", config.Config{MarkdownReport: true}, formatMarkdown},
		{"csv extension", config.Config{ReportFile: "out/plombiers.CSV"}, formatCSV},
		{"json extension", config.Config{ReportFile: "r.json"}, formatJSON},
		{"md extension", config.Config{ReportFile: "r.md"}, formatMarkdown},
		{"unknown extension", config.Config{ReportFile: "r.txt"}, formatText},
		{"flag beats extension", config.Config{ReportFile: "r.csv", JSONReport: true}, formatJSON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := selectFormat(&tc.cfg); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// TestRunScanCmd runs full scans against local test sites.
func TestRunScanCmd(t *testing.T) {
	t.Parallel()

	t.Run("scrapes listed sites and prints CSV", func(t *testing.T) {
		t.Parallel()

		site, _ := newPlumberSite(t)
		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt",
			site.URL+"\nhttps://www.pagesjaunes.fr/annuaire/plombier\n")

		res := executeRoot(t, env.args("scan", "--urls", urls, "--csv")...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", res.err, res.stderr)
		}

		want := "Site,Nom,Emails\n" + site.URL + ",Plombier A,jean@a.test\n"
		if res.stdout != want {
			t.Errorf("expected CSV %q, got %q", want, res.stdout)
		}
		for _, line := range []string{"[1/2]", "[2/2]"} {
			if !strings.Contains(res.stderr, line) {
				t.Errorf("expected progress %q in stderr: %s", line, res.stderr)
			}
		}

		quota := executeRoot(t, env.args("quota")...)
		if quota.err != nil {
			t.Fatalf("quota failed: %v", quota.err)
		}
		if !strings.Contains(quota.stdout, "2 / 100 sites") {
			t.Errorf("expected both sites to be counted, got %s", quota.stdout)
		}
	})

	t.Run("writes the report file and a summary", func(t *testing.T) {
		t.Parallel()

		site, _ := newPlumberSite(t)
		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", site.URL+"\n")
		out := filepath.Join(env.dir, "reports", "plombiers.json")

		res := executeRoot(t, env.args("scan", "--urls", urls, "-o", out)...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(data), `"Emails": "jean@a.test"`) {
			t.Errorf("expected JSON records, got %s", data)
		}
		if !strings.Contains(res.stdout, "MAILSCOUT REPORT") {
			t.Errorf("expected text summary on stdout, got %s", res.stdout)
		}
		if !strings.Contains(res.stderr, "Report written to") {
			t.Errorf("expected confirmation on stderr, got %s", res.stderr)
		}
	})

	t.Run("applies the config file blacklist", func(t *testing.T) {
		t.Parallel()

		site, _ := newPlumberSite(t)
		env := newTestEnv(t, "blacklist:\n  - jean\n")
		urls := env.writeFile(t, "urls.txt", site.URL+"\n")

		res := executeRoot(t, env.args("scan", "--urls", urls, "--csv")...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if res.stdout != "Site,Nom,Emails\n" {
			t.Errorf("expected header only, got %q", res.stdout)
		}
		if !strings.Contains(res.stderr, "published an email address") {
			t.Errorf("expected no-emails warning, got %s", res.stderr)
		}
	})

	t.Run("refuses a run over the daily cap", func(t *testing.T) {
		t.Parallel()

		site, hits := newPlumberSite(t)
		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", site.URL+"\n")

		store, err := database.Open(env.dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		if err := store.IncrementCounter(context.Background(), 95); err != nil {
			t.Fatalf("failed to seed counter: %v", err)
		}
		_ = store.Close()

		res := executeRoot(t, env.args("scan", "--urls", urls, "-n", "10")...)
		if !errors.Is(res.err, pipeline.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", res.err)
		}
		if !strings.Contains(res.stderr, "Daily quota reached") {
			t.Errorf("expected quota message, got %s", res.stderr)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no requests, got %d", hits.Load())
		}
	})

	t.Run("cap flag overrides the default", func(t *testing.T) {
		t.Parallel()

		site, _ := newPlumberSite(t)
		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", site.URL+"\n"+site.URL+"/other\n")

		res := executeRoot(t, env.args("scan", "--urls", urls, "--cap", "1")...)
		if !errors.Is(res.err, pipeline.ErrQuotaExceeded) {
			t.Errorf("expected ErrQuotaExceeded, got %v", res.err)
		}
	})

	t.Run("refuses an over-cap run before contacting the proxy", func(t *testing.T) {
		t.Parallel()

		proxyLn, accepted := startAcceptRecorder(t)
		site, hits := newPlumberSite(t)
		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", site.URL+"\n"+site.URL+"/other\n")

		res := executeRoot(t, env.args("scan", "--urls", urls, "-n", "2", "--cap", "1",
			"--proxy", proxyLn.Addr().String())...)
		if !errors.Is(res.err, pipeline.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", res.err)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no site requests, got %d", hits.Load())
		}

		// Connections are accepted in order, so the marker must come first.
		marker, err := net.Dial("tcp", proxyLn.Addr().String())
		if err != nil {
			t.Fatalf("failed to dial listener: %v", err)
		}
		defer marker.Close()
		if first := <-accepted; first != marker.LocalAddr().String() {
			t.Errorf("expected no proxy connection before the marker, first was %s", first)
		}
	})

	t.Run("refuses an over-cap run before starting Tor", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", "https://a.test\nhttps://b.test\n")

		res := executeRoot(t, env.args("scan", "--urls", urls, "-n", "2", "--cap", "1", "--tor")...)
		if !errors.Is(res.err, pipeline.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", res.err)
		}
		if strings.Contains(res.stderr, "Starting embedded Tor") {
			t.Errorf("expected Tor to stay down, got %s", res.stderr)
		}
	})

	t.Run("warns when no sites are found", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		urls := env.writeFile(t, "urls.txt", "# nothing yet\n")

		res := executeRoot(t, env.args("scan", "--urls", urls)...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stderr, "no sites found") {
			t.Errorf("expected provider-empty warning, got %s", res.stderr)
		}
		if !strings.Contains(res.stdout, "No sites found for this query.") {
			t.Errorf("expected empty report, got %s", res.stdout)
		}
	})

	t.Run("requires a query or a URL list", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		res := executeRoot(t, env.args("scan")...)
		if !errors.Is(res.err, config.ErrNoQuery) {
			t.Errorf("expected ErrNoQuery, got %v", res.err)
		}
	})

	t.Run("rejects too many results", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		res := executeRoot(t, env.args("scan", "-n", "51", "plombier", "Paris")...)
		if !errors.Is(res.err, pipeline.ErrInvalidResultCount) {
			t.Errorf("expected ErrInvalidResultCount, got %v", res.err)
		}
	})

	t.Run("rejects conflicting formats", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		res := executeRoot(t, env.args("scan", "--csv", "--json", "plombier")...)
		if res.err == nil {
			t.Error("expected error for --csv with --json")
		}
	})

	t.Run("fails fast on an unreachable proxy", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		res := executeRoot(t, env.args("scan", "--proxy", "not-a-proxy", "plombier")...)
		if res.err == nil || !strings.Contains(res.err.Error(), "proxy check failed") {
			t.Errorf("expected proxy check failure, got %v", res.err)
		}
	})
}

// TestHistoryCmd tests listing and showing stored runs.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	site, _ := newPlumberSite(t)
	env := newTestEnv(t, "")
	urls := env.writeFile(t, "urls.txt", site.URL+"\n")

	empty := executeRoot(t, env.args("history")...)
	if empty.err != nil {
		t.Fatalf("unexpected error: %v", empty.err)
	}
	if !strings.Contains(empty.stdout, "No runs recorded yet.") {
		t.Errorf("expected empty history, got %s", empty.stdout)
	}

	if res := executeRoot(t, env.args("scan", "--urls", urls, "--csv")...); res.err != nil {
		t.Fatalf("scan failed: %v", res.err)
	}

	store, err := database.Open(env.dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 0)
	_ = store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %v (%v)", runs, err)
	}

	t.Run("lists runs", func(t *testing.T) {
		res := executeRoot(t, env.args("history")...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		for _, want := range []string{"ID", "Query", "urls.txt", shortID(runs[0].ID)} {
			if !strings.Contains(res.stdout, want) {
				t.Errorf("expected %q in %s", want, res.stdout)
			}
		}
	})

	t.Run("lists runs as markdown", func(t *testing.T) {
		res := executeRoot(t, env.args("history", "--markdown")...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "## Run History") || !strings.Contains(res.stdout, "|") {
			t.Errorf("expected markdown table, got %s", res.stdout)
		}
	})

	t.Run("shows a run by prefix", func(t *testing.T) {
		res := executeRoot(t, env.args("history", "--show", runs[0].ID[:8], "--csv")...)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, site.URL+",Plombier A,jean@a.test") {
			t.Errorf("expected stored record, got %s", res.stdout)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		res := executeRoot(t, env.args("history", "--show", "zzzz")...)
		if !errors.Is(res.err, errRunNotFound) {
			t.Errorf("expected errRunNotFound, got %v", res.err)
		}
	})
}

// TestUsageBar tests the quota bar rendering.
func TestUsageBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, limit, width int
		want                string
	}{
		{0, 100, 10, "[..........]"},
		{50, 100, 10, "[#####.....]"},
		{100, 100, 10, "[##########]"},
		{150, 100, 10, "[##########]"},
		{5, 0, 10, ""},
	}
	for _, tc := range tests {
		if got := usageBar(tc.total, tc.limit, tc.width); got != tc.want {
			t.Errorf("usageBar(%d, %d, %d) = %q, want %q", tc.total, tc.limit, tc.width, got, tc.want)
		}
	}
}
