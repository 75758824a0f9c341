package analyze

import "testing"

func TestIsFingerPresent(t *testing.T) {
	tests := []struct {
		name string
		mean ChannelMean
		want bool
	}{
		{"just inside all bounds", ChannelMean{Red: 171, Green: 99, Blue: 99}, true},
		{"red at boundary", ChannelMean{Red: 170, Green: 99, Blue: 99}, false},
		{"green at boundary", ChannelMean{Red: 200, Green: 100, Blue: 50}, false},
		{"blue at boundary", ChannelMean{Red: 200, Green: 50, Blue: 100}, false},
		{"strong finger signal", ChannelMean{Red: 230, Green: 40, Blue: 30}, true},
		{"no finger", ChannelMean{Red: 120, Green: 110, Blue: 105}, false},
		{"dark frame", ChannelMean{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFingerPresent(tt.mean); got != tt.want {
				t.Errorf("IsFingerPresent(%+v) = %v, want %v", tt.mean, got, tt.want)
			}
		})
	}
}
