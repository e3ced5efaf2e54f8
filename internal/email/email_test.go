package email

import (
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

// TestExtractText tests the text pass.
func TestExtractText(t *testing.T) {
	t.Parallel()

	t.Run("finds a plain address", func(t *testing.T) {
		t.Parallel()

		got := ExtractText("Contact: jean@a.test")
		want := []string{"jean@a.test"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("preserves case", func(t *testing.T) {
		t.Parallel()

		got := ExtractText("Write to Marie.Dupont@Example.FR today")
		if len(got) != 1 || got[0] != "Marie.Dupont@Example.FR" {
			t.Errorf("expected case-preserved address, got %v", got)
		}
	})

	t.Run("requires a dot in the domain", func(t *testing.T) {
		t.Parallel()

		got := ExtractText("user@localhost and @handle")
		if len(got) != 0 {
			t.Errorf("expected no matches, got %v", got)
		}
	})

	t.Run("accepts liberal matches", func(t *testing.T) {
		t.Parallel()

		got := ExtractText("a..b@x..com")
		if len(got) != 1 {
			t.Errorf("expected liberal match to be kept, got %v", got)
		}
	})

	t.Run("every match has one @ and a dot after it", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"foo@bar.com@baz.org",
			"x@@y.com a@b.c d@e",
			"<p>first.last+tag@sub.domain.co.uk</p>",
			"@@@...@@@",
			"john@doe.com,jane@doe.com;bob@doe.com",
		}
		for _, in := range inputs {
			for _, m := range ExtractText(in) {
				if strings.Count(m, "@") != 1 {
					t.Errorf("match %q from %q does not have exactly one @", m, in)
				}
				at := strings.Index(m, "@")
				if !strings.Contains(m[at:], ".") {
					t.Errorf("match %q from %q has no dot after @", m, in)
				}
			}
		}
	})

	t.Run("empty text yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		got := ExtractText("")
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %#v", got)
		}
	})
}

// TestExtract tests the combined text and link passes.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("unions text and mailto addresses", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<html><body>
			<p>Contact: jean@a.test</p>
			<a href="mailto:support@a.test">Write us</a>
		</body></html>`)

		got := Extract(doc)
		want := []string{"jean@a.test", "support@a.test"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("strips mailto query strings", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<a href="MAILTO:devis@plombier.fr?subject=Devis">devis</a>`)

		got := ExtractMailto(doc)
		want := []string{"devis@plombier.fr"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("splits multiple mailto recipients", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<a href="mailto:a@x.com,%20b@x.com">team</a>`)

		got := ExtractMailto(doc)
		want := []string{"a@x.com", "b@x.com"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("ignores mailto targets without @", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<a href="mailto:">empty</a><a href="mailto:nobody">n</a><a href="/contact">c</a>`)

		if got := ExtractMailto(doc); len(got) != 0 {
			t.Errorf("expected no addresses, got %v", got)
		}
	})

	t.Run("ignores script and style content", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<html><head>
			<style>.a{background:url(x@y.png)}</style>
			<script>var e = "tracker@analytics.com";</script>
		</head><body><p>visible@site.fr</p></body></html>`)

		got := Extract(doc)
		want := []string{"visible@site.fr"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("separates adjacent text nodes", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<table><tr><td>Paris</td><td>info@cabinet.fr</td></tr></table>`)

		got := Extract(doc)
		want := []string{"info@cabinet.fr"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("nil document yields empty slice", func(t *testing.T) {
		t.Parallel()

		got := Extract(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %#v", got)
		}
	})
}

// TestExtractHTML tests extraction straight from a reader.
func TestExtractHTML(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty slice", func(t *testing.T) {
		t.Parallel()

		if got := ExtractHTML(strings.NewReader("")); len(got) != 0 {
			t.Errorf("expected no addresses, got %v", got)
		}
	})

	t.Run("malformed markup still yields text matches", func(t *testing.T) {
		t.Parallel()

		got := ExtractHTML(strings.NewReader(`<div><p>contact@atelier.fr<span</div`))
		if !slices.Contains(got, "contact@atelier.fr") {
			t.Errorf("expected contact@atelier.fr, got %v", got)
		}
	})
}

// TestFilter tests blacklist filtering and deduplication.
func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("drops blacklisted addresses", func(t *testing.T) {
		t.Parallel()

		got := FilterAddresses([]string{"info@x.com", "noreply@x.com"})
		want := []string{"info@x.com"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("matches substrings not tokens", func(t *testing.T) {
		t.Parallel()

		in := []string{
			"supportteam@x.com",
			"sysadmin@x.com",
			"No-Reply@x.com",
			"DoNotReply@x.com",
			"contactform@x.com",
			"jean@x.com",
		}
		got := FilterAddresses(in)
		want := []string{"jean@x.com"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("lowercases and deduplicates case-insensitively", func(t *testing.T) {
		t.Parallel()

		got := FilterAddresses([]string{"Jean@A.test", "jean@a.test", "JEAN@A.TEST", "marie@a.test"})
		want := []string{"jean@a.test", "marie@a.test"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("drops empty strings", func(t *testing.T) {
		t.Parallel()

		got := FilterAddresses([]string{"", "  ", "a@b.fr"})
		want := []string{"a@b.fr"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		in := []string{"B@x.com", "a@x.com", "admin@x.com", "b@x.com"}
		once := FilterAddresses(in)
		twice := FilterAddresses(once)
		if !slices.Equal(once, twice) {
			t.Errorf("expected idempotent filter, got %v then %v", once, twice)
		}
	})

	t.Run("output never contains blacklisted substrings", func(t *testing.T) {
		t.Parallel()

		in := []string{"ADMIN@x.com", "x@support.fr", "ok@x.com", "noreply.bot@x.com"}
		for _, addr := range FilterAddresses(in) {
			for _, b := range DefaultBlacklist {
				if strings.Contains(strings.ToLower(addr), b) {
					t.Errorf("address %q contains blacklisted %q", addr, b)
				}
			}
		}
	})

	t.Run("extra substrings extend the blacklist", func(t *testing.T) {
		t.Parallel()

		f := NewFilter("Webmaster", "")
		got := f.Apply([]string{"webmaster@x.com", "jean@x.com", "admin@x.com"})
		want := []string{"jean@x.com"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if len(f.Blacklist()) != len(DefaultBlacklist)+1 {
			t.Errorf("expected %d blacklist entries, got %d", len(DefaultBlacklist)+1, len(f.Blacklist()))
		}
	})
}

// TestSet tests the ordered address set.
func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet()
	if !s.Add("A@x.com") {
		t.Error("expected first add to succeed")
	}
	if s.Add("a@x.com") {
		t.Error("expected duplicate add to fail")
	}
	if s.Add("") {
		t.Error("expected empty add to fail")
	}
	s.Add("b@x.com")

	if s.Len() != 2 {
		t.Errorf("expected 2 addresses, got %d", s.Len())
	}
	want := []string{"a@x.com", "b@x.com"}
	if got := s.Slice(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
