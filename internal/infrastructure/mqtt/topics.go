package mqtt

import "fmt"

// Topic prefixes for the Rollcall broker link.
//
// Controller topics use the flat scheme: rollcall/{category}/{deviceID}.
// Device IDs are the 16-hex derived identifiers from the presence registry,
// so a controller's topics stay stable across reboots.
const (
	// TopicPrefix is the base for all Rollcall topics.
	TopicPrefix = "rollcall"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "rollcall/system"
)

// Topics provides builders for Rollcall MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	hbTopic := topics.DeviceHeartbeat("a1b2c3d4e5f60718")
//	// Returns: "rollcall/heartbeat/a1b2c3d4e5f60718"
type Topics struct{}

// DeviceHeartbeat returns the topic a controller publishes heartbeats on.
//
// Example: rollcall/heartbeat/a1b2c3d4e5f60718
func (Topics) DeviceHeartbeat(deviceID string) string {
	return fmt.Sprintf("%s/heartbeat/%s", TopicPrefix, deviceID)
}

// DeviceScan returns the topic a controller publishes credential scans on.
//
// Example: rollcall/scan/a1b2c3d4e5f60718
func (Topics) DeviceScan(deviceID string) string {
	return fmt.Sprintf("%s/scan/%s", TopicPrefix, deviceID)
}

// DeviceCommand returns the topic for commands to a controller.
//
// Example: rollcall/command/a1b2c3d4e5f60718
func (Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, deviceID)
}

// SystemStatus returns the backend status topic.
//
// Example: rollcall/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllHeartbeats returns a pattern matching heartbeats from every controller.
//
// Pattern: rollcall/heartbeat/+
func (Topics) AllHeartbeats() string {
	return fmt.Sprintf("%s/heartbeat/+", TopicPrefix)
}

// AllScans returns a pattern matching scans from every controller.
//
// Pattern: rollcall/scan/+
func (Topics) AllScans() string {
	return fmt.Sprintf("%s/scan/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Rollcall topics.
// Use with caution, this receives ALL traffic.
//
// Pattern: rollcall/#
func (Topics) AllTopics() string {
	return "rollcall/#"
}

// DeviceIDFromTopic extracts the trailing device ID segment from a
// per-device topic. Returns an empty string if the topic has no device
// segment.
func DeviceIDFromTopic(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return ""
}
