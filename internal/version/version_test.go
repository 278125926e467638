package version

import "testing"

func TestShort(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"dev", "dev"},
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"v0.4.0-rc1", "0.4.0-rc1"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			original := Version
			defer func() { Version = original }()

			Version = tt.version
			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}
