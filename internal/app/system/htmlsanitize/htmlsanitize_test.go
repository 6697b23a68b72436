package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Leaking faucet", "Leaking faucet"},
		{"  padded  ", "padded"},
		{"<b>Leak</b> in kitchen", "Leak in kitchen"},
		{"<script>alert(1)</script>hi", "hi"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"5 < 10", "5 < 10"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainText_DropsHandlersAndLinks(t *testing.T) {
	inputs := []string{
		`<a href="javascript:alert('xss')">Click</a>`,
		`<img src="x" onerror="alert('xss')">`,
		`<button onclick="steal()">Open</button>`,
	}
	for _, in := range inputs {
		got := htmlsanitize.PlainText(in)
		for _, bad := range []string{"javascript:", "onerror", "onclick", "<"} {
			if strings.Contains(got, bad) {
				t.Errorf("PlainText(%q) = %q, still contains %q", in, got, bad)
			}
		}
	}
}

func TestPlainText_ConcurrentUse(t *testing.T) {
	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- htmlsanitize.PlainText("<i>Parking</i> permit") }()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != "Parking permit" {
			t.Errorf("expected %q, got %q", "Parking permit", got)
		}
	}
}
