package gorbie

import "testing"

func TestCommandFlagDefaults(t *testing.T) {
	cmd := NewCommand("demo", func(*NotebookCtx) {})
	tests := []struct {
		flag string
		want string
	}{
		{"headless", "false"},
		{"out-dir", "./gorbie_capture"},
		{"scale", "2"},
		{"headless-wait-ms", "2000"},
		{"width", "960"},
		{"height", "800"},
		{"show-fps", "false"},
		{"verbose", "false"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("flag --%s not registered", tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestCommandParsesFlags(t *testing.T) {
	cmd := NewCommand("demo", func(*NotebookCtx) {})
	if err := cmd.ParseFlags([]string{"--headless", "--out-dir", "/tmp/shots", "--scale", "3.5"}); err != nil {
		t.Fatal(err)
	}
	if v, _ := cmd.Flags().GetBool("headless"); !v {
		t.Error("--headless not set")
	}
	if v, _ := cmd.Flags().GetString("out-dir"); v != "/tmp/shots" {
		t.Errorf("out-dir = %q", v)
	}
	if v, _ := cmd.Flags().GetFloat64("scale"); v != 3.5 {
		t.Errorf("scale = %v", v)
	}
}

func TestCommandUsesName(t *testing.T) {
	cmd := NewCommand("orbit", func(*NotebookCtx) {})
	if cmd.Use != "orbit" {
		t.Errorf("Use = %q", cmd.Use)
	}
}
