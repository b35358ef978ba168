// Package config handles loading and validating Rollcall Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (JWT secret, device API key, MQTT credentials, InfluxDB
//     token) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The device API key is a single shared secret for the whole fleet; rotate
//     it by updating controller firmware config and the server together
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Campus.Name)
package config
