package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "params": {
      "auto_backup": true,
      "request_timeout_ms": 500
  },
  "console": {
      "prompt": "pulp> ",
      "echo": true
  }
}`

const cfgBench = `{
  "params": {
      "auto_backup": false,
      "request_timeout_ms": 2000
  },
  "console": {
      "prompt": "bench> "
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico":  []byte(cfgPico),
	"bench": []byte(cfgBench),
}
