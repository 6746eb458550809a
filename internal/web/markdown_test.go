package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name: "emphasis and code",
			in:   "Why **Go**? Because `nil` is never an error.",
			want: []string{"<strong>Go</strong>", "<code>nil</code>"},
		},
		{
			name: "setup and punchline lines",
			in:   "Setup: SQL walks into a bar\nPunchline: JOIN us",
			want: []string{"Setup: SQL walks into a bar", "<br", "Punchline: JOIN us"},
		},
		{
			name:    "raw html is dropped",
			in:      "hi <script>alert(1)</script> <img src=x onerror=alert(1)>",
			want:    []string{"hi"},
			notWant: []string{"<script", "onerror"},
		},
		{
			name: "angle brackets in code stay text",
			in:   "`<tags>`",
			want: []string{"<code>&lt;tags&gt;</code>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(renderMarkdown(tt.in))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}
