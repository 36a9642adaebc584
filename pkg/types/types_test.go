package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/poltergeist/reflector/pkg/types"
	"gopkg.in/yaml.v3"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Direction
		wantErr bool
	}{
		{"north", types.North, false},
		{"N", types.North, false},
		{" south ", types.South, false},
		{"w", types.West, false},
		{"East", types.East, false},
		{"up", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := types.ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDirection_Properties(t *testing.T) {
	tests := []struct {
		dir      types.Direction
		opposite types.Direction
		vertical bool
		mirrored bool
	}{
		{types.North, types.South, true, false},
		{types.South, types.North, true, true},
		{types.West, types.East, false, false},
		{types.East, types.West, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			if got := tt.dir.Opposite(); got != tt.opposite {
				t.Errorf("Opposite() = %s, want %s", got, tt.opposite)
			}
			if got := tt.dir.Vertical(); got != tt.vertical {
				t.Errorf("Vertical() = %v, want %v", got, tt.vertical)
			}
			if got := tt.dir.Mirrored(); got != tt.mirrored {
				t.Errorf("Mirrored() = %v, want %v", got, tt.mirrored)
			}
		})
	}
}

func TestCycleOrder(t *testing.T) {
	want := [4]types.Direction{types.North, types.West, types.South, types.East}
	if types.CycleOrder != want {
		t.Errorf("CycleOrder = %v, want %v", types.CycleOrder, want)
	}

	for i, d := range types.Directions {
		if int(d) != i {
			t.Errorf("Directions[%d] = %s has index %d", i, d, int(d))
		}
	}
}

func TestDirection_Text(t *testing.T) {
	var cfg struct {
		Scoring types.Direction `json:"scoring" yaml:"scoring"`
	}

	if err := json.Unmarshal([]byte(`{"scoring": "west"}`), &cfg); err != nil {
		t.Fatalf("json: %v", err)
	}
	if cfg.Scoring != types.West {
		t.Errorf("json scoring = %s, want west", cfg.Scoring)
	}

	if err := yaml.Unmarshal([]byte("scoring: e\n"), &cfg); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if cfg.Scoring != types.East {
		t.Errorf("yaml scoring = %s, want east", cfg.Scoring)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"scoring":"east"}` {
		t.Errorf("unexpected json %s", data)
	}

	if err := json.Unmarshal([]byte(`{"scoring": "up"}`), &cfg); err == nil {
		t.Error("expected error for unknown direction")
	}
	if _, err := types.Direction(9).MarshalText(); err == nil {
		t.Error("expected error marshaling invalid direction")
	}
}

func TestPosition_String(t *testing.T) {
	if got := (types.Position{X: 3, Y: 7}).String(); got != "3:7" {
		t.Errorf("String() = %q", got)
	}
}

func TestReflectorConfig_Defaults(t *testing.T) {
	var cfg types.ReflectorConfig
	if !cfg.CycleDetection() {
		t.Error("cycle detection should default to on")
	}

	off := false
	cfg.DetectCycles = &off
	if cfg.CycleDetection() {
		t.Error("cycle detection should be off")
	}

	if cfg.Notifications.IsEnabled() {
		t.Error("nil notifications should be disabled")
	}
	on := true
	cfg.Notifications = &types.NotificationConfig{Enabled: &on}
	if !cfg.Notifications.IsEnabled() {
		t.Error("notifications should be enabled")
	}

	if got := cfg.Watch.DebounceDuration(); got != 200*time.Millisecond {
		t.Errorf("nil watch debounce = %v", got)
	}
	cfg.Watch = &types.WatchConfig{Debounce: 50}
	if got := cfg.Watch.DebounceDuration(); got != 50*time.Millisecond {
		t.Errorf("debounce = %v", got)
	}
}
