package normalize

import "testing"

func TestURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://example.com/p", "https://example.com/p", true},
		{"www.example.com/p", "https://www.example.com/p", true},
		{"  example.com  ", "https://example.com", true},
		{"nodots", "nodots", true},
		{"exa\x00mple.com", "https://example.com", true},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tc := range cases {
		got, ok := URL(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("URL(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.Example.com/path?x=1", "example.com", true},
		{"https://news.example.org/a", "news.example.org", true},
		{"https://example.com:8080/a", "example.com", true},
		{"not a url", "", false},
		{"/relative/only", "", false},
	}

	for _, tc := range cases {
		got, ok := Domain(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Domain(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
