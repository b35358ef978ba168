package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"heartbeat", topics.DeviceHeartbeat("a1b2c3d4e5f60718"), "rollcall/heartbeat/a1b2c3d4e5f60718"},
		{"scan", topics.DeviceScan("a1b2c3d4e5f60718"), "rollcall/scan/a1b2c3d4e5f60718"},
		{"command", topics.DeviceCommand("a1b2c3d4e5f60718"), "rollcall/command/a1b2c3d4e5f60718"},
		{"system status", topics.SystemStatus(), "rollcall/system/status"},
		{"all heartbeats", topics.AllHeartbeats(), "rollcall/heartbeat/+"},
		{"all scans", topics.AllScans(), "rollcall/scan/+"},
		{"everything", topics.AllTopics(), "rollcall/#"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestDeviceIDFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"rollcall/heartbeat/a1b2c3d4e5f60718", "a1b2c3d4e5f60718"},
		{"rollcall/scan/ffff000011112222", "ffff000011112222"},
		{"rollcall/system/status", "status"},
		{"nodevino", ""},
	}

	for _, tt := range tests {
		if got := DeviceIDFromTopic(tt.topic); got != tt.want {
			t.Errorf("DeviceIDFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 0, false); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("rollcall/scan/x", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Subscribe("", 0, func(string, []byte) error { return nil }); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("rollcall/#", 3, func(string, []byte) error { return nil }); err != ErrInvalidQoS {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
}
