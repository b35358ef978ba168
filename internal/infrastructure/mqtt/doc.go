// Package mqtt wraps paho.mqtt.golang for the Rollcall broker link.
//
// Room controllers that cannot reach the HTTP API directly (or that prefer
// a persistent connection) publish heartbeats and credential scans over
// MQTT. The wrapper adds connection management with automatic reconnection,
// subscription restoration after reconnect, panic recovery around message
// handlers, and a Last Will publication so other services can detect an
// unexpected backend outage.
//
// Topic layout (see topics.go):
//
//	rollcall/heartbeat/{deviceID}   controller liveness announcements
//	rollcall/scan/{deviceID}        credential scans from readers
//	rollcall/command/{deviceID}     commands to a controller (e.g. door lock)
//	rollcall/system/status          backend online/offline status (retained)
//
// The broker link is optional: deployments where every controller speaks
// HTTP can disable it in configuration.
package mqtt
