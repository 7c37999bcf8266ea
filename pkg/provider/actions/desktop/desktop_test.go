package desktop

import "testing"

func TestOpenerArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos   string
		action string
		want   []string
	}{
		{"linux", "https://mail.google.com", []string{"xdg-open", "https://mail.google.com"}},
		{"darwin", "/Applications/Notes.app", []string{"open", "/Applications/Notes.app"}},
		{"windows", `C:\Windows\System32\notepad.exe`, []string{"cmd", "/c", "start", "", `C:\Windows\System32\notepad.exe`}},
		// cmd would otherwise cut the query string at the &.
		{"windows", "https://example.com/search?q=a&lang=en", []string{"cmd", "/c", "start", "", "https://example.com/search?q=a^&lang=en"}},
	}

	for _, tt := range tests {
		got := openerArgs(tt.goos, tt.action)
		if len(got) != len(tt.want) {
			t.Errorf("openerArgs(%q, %q) = %v, want %v", tt.goos, tt.action, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("openerArgs(%q, %q)[%d] = %q, want %q", tt.goos, tt.action, i, got[i], tt.want[i])
			}
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action string
		want   bool
	}{
		{"https://mail.google.com", true},
		{"http://example.com", true},
		{"HTTPS://EXAMPLE.COM", true},
		{`C:\Windows\System32\notepad.exe`, false},
		{"/usr/bin/gedit", false},
		{"httpdocs/readme.txt", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.action); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}
}
