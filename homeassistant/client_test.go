package homeassistant

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct{}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
func (t *fakeToken) Error() error { return nil }

type recordingClient struct {
	mqtt.Client
	topics   []string
	payloads [][]byte
}

func (r *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, payload.([]byte))

	return &fakeToken{}
}

func TestRegisterFan(t *testing.T) {
	recording := &recordingClient{}

	if err := NewClient(recording).RegisterFan(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recording.topics) != 1 || recording.topics[0] != "homeassistant/fan/pc/config" {
		t.Fatalf("published on %v, want homeassistant/fan/pc/config", recording.topics)
	}

	var cfg map[string]interface{}
	if err := json.Unmarshal(recording.payloads[0], &cfg); err != nil {
		t.Fatalf("invalid discovery JSON: %v", err)
	}

	if cfg["unique_id"] != "pc_fan" {
		t.Errorf("unique_id = %v", cfg["unique_id"])
	}
	if cfg["command_topic"] != CommandTopic || cfg["percentage_command_topic"] != SpeedCommandTopic {
		t.Errorf("unexpected command topics in %v", cfg)
	}
	if cfg["speed_range_max"] != float64(4) {
		t.Errorf("speed_range_max = %v, want 4", cfg["speed_range_max"])
	}
	if cfg["availability_topic"] != AvailabilityTopic {
		t.Errorf("availability_topic = %v", cfg["availability_topic"])
	}
}

func TestRegisterSensor(t *testing.T) {
	cases := []struct {
		name       string
		class      string
		unit       string
		wantState  string
		wantConfig string
	}{
		{
			name:       "PC Temperature",
			class:      "temperature",
			unit:       "°C",
			wantState:  "pc/temperature/pc_temperature",
			wantConfig: "homeassistant/sensor/pc_temperature/config",
		},
		{
			name:       "PC Filter Life",
			unit:       "%",
			wantState:  "pc/pc_filter_life",
			wantConfig: "homeassistant/sensor/pc_filter_life/config",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recording := &recordingClient{}

			stateTopic, err := NewClient(recording).RegisterSensor(tc.name, tc.class, tc.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if stateTopic != tc.wantState {
				t.Errorf("state topic = %v, want %v", stateTopic, tc.wantState)
			}
			if len(recording.topics) != 1 || recording.topics[0] != tc.wantConfig {
				t.Errorf("published on %v, want %v", recording.topics, tc.wantConfig)
			}

			var cfg map[string]interface{}
			if err := json.Unmarshal(recording.payloads[0], &cfg); err != nil {
				t.Fatalf("invalid discovery JSON: %v", err)
			}
			if cfg["state_topic"] != tc.wantState || cfg["unit_of_measurement"] != tc.unit {
				t.Errorf("unexpected discovery config %v", cfg)
			}
		})
	}
}
