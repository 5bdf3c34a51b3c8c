package pathenc

import (
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "simple path",
			path: "/Users/foo/bar",
			want: "-Users-foo-bar",
		},
		{
			name: "hyphens are kept",
			path: "/Users/foo/my-project",
			want: "-Users-foo-my-project",
		},
		{
			name: "dots are kept",
			path: "/home/me/site.github.io",
			want: "-home-me-site.github.io",
		},
		{
			name: "root",
			path: "/",
			want: "-",
		},
		{
			name: "trailing separator",
			path: "/tmp/foo/",
			want: "-tmp-foo-",
		},
		{
			name: "spaces and unicode",
			path: "/Users/José/My Project",
			want: "-Users-José-My Project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.path)
			if got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEncodeOnlyTouchesSeparators(t *testing.T) {
	paths := []string{
		"/a/b/c",
		"/var/lib/some.dir/with-hyphen_and_underscore",
		"/x",
		"/deep/nested/path/that/goes/on/and/on",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			got := Encode(p)
			if strings.Contains(got, Separator) {
				t.Errorf("Encode(%q) = %q still contains a separator", p, got)
			}
			if len(got) != len(p) {
				t.Errorf("Encode(%q) changed length: %d -> %d", p, len(p), len(got))
			}
			for i := 0; i < len(p); i++ {
				if p[i] == '/' {
					if got[i] != '-' {
						t.Errorf("Encode(%q)[%d] = %q, want '-'", p, i, got[i])
					}
					continue
				}
				if got[i] != p[i] {
					t.Errorf("Encode(%q)[%d] = %q, want %q", p, i, got[i], p[i])
				}
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	p := "/workspace/test"
	if Encode(p) != Encode(p) {
		t.Errorf("Encode(%q) not deterministic", p)
	}
}
