package offscreen

import (
	"errors"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"blank", "", DefaultURL, false},
		{"whitespace", " \t\n", DefaultURL, false},
		{"trimmed", "  https://example.com/a  ", "https://example.com/a", false},
		{"no scheme", "example.com/path?q=1", "http://example.com/path?q=1", false},
		{"upper case host", "https://Example.COM/", "https://example.com/", false},
		{"idn host", "https://bücher.example/", "https://xn--bcher-kva.example/", false},
		{"idn with port", "http://bücher.example:8080/x", "http://xn--bcher-kva.example:8080/x", false},
		{"ipv4", "http://127.0.0.1:9000/", "http://127.0.0.1:9000/", false},
		{"ipv6", "http://[::1]:9000/", "http://[::1]:9000/", false},
		{"host and port", "localhost:8080", "http://localhost:8080", false},
		{"host port and path", "example.com:8080/path", "http://example.com:8080/path", false},
		{"ipv4 and port", "127.0.0.1:8080", "http://127.0.0.1:8080", false},
		{"bare host", "localhost", "http://localhost", false},
		{"about", "about:blank", "about:blank", false},
		{"data", "data:text/html,hi", "data:text/html,hi", false},
		{"mailto", "mailto:someone@example.com", "mailto:someone@example.com", false},
		{"file", "file:///tmp/page.html", "file:///tmp/page.html", false},
		{"missing host", "https://", "", true},
		{"bad escape", "http://example.com/%zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("NormalizeURL(%q) error = %v, want ErrInvalidURL", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasScheme(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"file:///tmp/a.html", true},
		{"about:blank", true},
		{"chrome:1", true},
		{"custom:page", true},
		{"localhost:8080", false},
		{"example.com:443/x", false},
		{"127.0.0.1:80", false},
		{"[::1]:80", false},
		{"example.com/a:b", false},
		{"example.com", false},
	}
	for _, tt := range tests {
		if got := hasScheme(tt.in); got != tt.want {
			t.Errorf("hasScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
