package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteHeartbeat records a heartbeat arrival from a controller.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Room number is tagged so dashboards can group fleet health per room.
func (c *Client) WriteHeartbeat(deviceID, roomNumber string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"heartbeats",
		map[string]string{
			"device_id":   deviceID,
			"room_number": roomNumber,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteScanEvent records a resolved credential scan.
//
// Status is "present", "late", or a rejection reason; source is the reader
// type. Used for arrival-curve and reader-usage dashboards.
func (c *Client) WriteScanEvent(deviceID, roomNumber, source, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"scan_events",
		map[string]string{
			"device_id":   deviceID,
			"room_number": roomNumber,
			"source":      source,
			"status":      status,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFleetGauge records the current size of the device fleet.
//
// Typically written on each registry sweep so dashboards can chart
// online/total device counts over time.
func (c *Client) WriteFleetGauge(online, total int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_fleet",
		nil,
		map[string]interface{}{
			"online": online,
			"total":  total,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., scans buffered by a
// controller during a network outage).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
