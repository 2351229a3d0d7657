package cmd

import (
	"runtime/debug"
	"testing"
)

func TestVersionFrom(t *testing.T) {
	vcs := func(kv ...string) []debug.BuildSetting {
		var out []debug.BuildSetting
		for i := 0; i+1 < len(kv); i += 2 {
			out = append(out, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return out
	}
	tests := []struct {
		name     string
		version  string
		settings []debug.BuildSetting
		want     string
		wantErr  bool
	}{
		{name: "module version", version: "v1.2.3", want: "v1.2.3"},
		{
			name:     "pseudo version",
			version:  "(devel)",
			settings: vcs("vcs.revision", "0123456789abcdef0123", "vcs.time", "2025-03-01T12:00:00Z"),
			want:     "0.0.0-0123456789ab-20250301120000",
		},
		{
			name:     "short revision",
			version:  "(devel)",
			settings: vcs("vcs.revision", "abc123"),
			want:     "0.0.0-abc123",
		},
		{
			name:     "time only",
			settings: vcs("vcs.time", "2025-03-01T12:00:00Z"),
			want:     "0.0.0-20250301120000",
		},
		{name: "nothing known", version: "(devel)", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := &debug.BuildInfo{Main: debug.Module{Version: tc.version}, Settings: tc.settings}
			got, err := versionFrom(info)
			if (err != nil) != tc.wantErr {
				t.Fatalf("versionFrom() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("versionFrom() = %q, want %q", got, tc.want)
			}
		})
	}
}
