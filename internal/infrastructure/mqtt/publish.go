package mqtt

import (
	"fmt"
)

// Maximum payload size for MQTT messages (256KB). Heartbeats and scans are
// tiny; anything near this limit indicates a misbehaving controller.
const maxPayloadSize = 256 << 10

// Publish sends a message to the specified MQTT topic.
//
// QoS levels: 0 at most once, 1 at least once, 2 exactly once. Retained
// messages are stored by the broker and delivered to new subscribers; use
// them for status topics, not for scans or commands.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishCommand publishes a command to a controller with the configured
// default QoS. Commands are never retained.
func (c *Client) PublishCommand(deviceID string, payload []byte) error {
	return c.Publish(Topics{}.DeviceCommand(deviceID), payload, byte(c.cfg.QoS), false)
}

// PublishRetained publishes a retained message with the configured default QoS.
//
// Use for state updates where new subscribers should receive the current state.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
