package inputs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/poltergeist/reflector/pkg/inputs"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{
			name:     "simple wildcard",
			patterns: []string{"*.txt"},
			path:     "input.txt",
			want:     true,
		},
		{
			name:     "wildcard stays in directory",
			patterns: []string{"*.txt"},
			path:     "days/input.txt",
			want:     false,
		},
		{
			name:     "double wildcard",
			patterns: []string{"**/*.txt"},
			path:     "2023/day14/input.txt",
			want:     true,
		},
		{
			name:     "double wildcard root",
			patterns: []string{"**/*.txt"},
			path:     "input.txt",
			want:     true,
		},
		{
			name:     "question mark",
			patterns: []string{"day1?.txt"},
			path:     "day14.txt",
			want:     true,
		},
		{
			name:     "question mark no match",
			patterns: []string{"day?.txt"},
			path:     "day14.txt",
			want:     false,
		},
		{
			name:     "character class",
			patterns: []string{"day[0-9].txt"},
			path:     "day5.txt",
			want:     true,
		},
		{
			name:     "negated character class",
			patterns: []string{"day[!0-9].txt"},
			path:     "days.txt",
			want:     true,
		},
		{
			name:     "dots are literal",
			patterns: []string{"in.txt"},
			path:     "inxtxt",
			want:     false,
		},
		{
			name:     "leading dot slash",
			patterns: []string{"./inputs/*.txt"},
			path:     "inputs/a.txt",
			want:     true,
		},
		{
			name:     "any of several",
			patterns: []string{"*.in", "*.txt"},
			path:     "example.txt",
			want:     true,
		},
		{
			name:     "unclosed bracket is literal",
			patterns: []string{"[day.txt"},
			path:     "[day.txt",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := inputs.NewMatcher(tt.patterns)
			if err != nil {
				t.Fatalf("NewMatcher() error = %v", err)
			}
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsPattern(t *testing.T) {
	tests := map[string]bool{
		"input.txt":    false,
		"inputs/*.txt": true,
		"day?.txt":     true,
		"day[12].txt":  true,
		"../input.txt": false,
	}
	for in, want := range tests {
		if got := inputs.IsPattern(in); got != want {
			t.Errorf("IsPattern(%q) = %v, want %v", in, got, want)
		}
	}
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("O\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"input.txt",
		"example.txt",
		"notes.md",
		"days/14/input.txt",
		"days/15/input.txt",
		".reflector/state/input.txt.json",
		".git/input.txt",
	)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "plain paths kept",
			args: []string{"missing.txt", "input.txt"},
			want: []string{"missing.txt", "input.txt"},
		},
		{
			name: "top level pattern",
			args: []string{"*.txt"},
			want: []string{"example.txt", "input.txt"},
		},
		{
			name: "recursive pattern skips hidden directories",
			args: []string{"**/input.txt"},
			want: []string{"days/14/input.txt", "days/15/input.txt", "input.txt"},
		},
		{
			name: "duplicates removed",
			args: []string{"input.txt", "*.txt"},
			want: []string{"input.txt", "example.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inputs.Expand(root, tt.args)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpand_NoMatch(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "input.txt")

	_, err := inputs.Expand(root, []string{"*.in"})
	if !errors.Is(err, inputs.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func BenchmarkMatcher_Match(b *testing.B) {
	m, err := inputs.NewMatcher([]string{"**/day[0-9]*/input.txt"})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("2023/day14/input.txt")
	}
}
