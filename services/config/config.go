package config

import (
	"context"
	"errors"

	"pulp-go/bus"
	"pulp-go/types"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

var (
	ErrNoDevice  = errors.New("config: missing device ID in context")
	ErrNoConfig  = errors.New("config: no embedded config for device")
	ErrNotObject = errors.New("config: embedded config is not a JSON object")
	ErrBadJSON   = errors.New("config: embedded config is not valid JSON")
	ErrBadKey    = errors.New("config: key has the wrong shape")
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Publish resolves the device config and publishes each top-level key as a
// retained message on config/<key>. The params and console keys are decoded
// into their typed payloads; other keys go out as parsed JSON.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return ErrNoDevice
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return ErrNoConfig
	}
	m, err := parse(raw)
	if err != nil {
		return err
	}

	n := 0
	for k, v := range m {
		p, err := decodeKey(k, v)
		if err != nil {
			println("Warn: [config] skipping", k+":", err.Error())
			continue
		}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), p, true))
		n++
	}
	println("Info: [config] published", n, "keys for", device)
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.Publish(ctx, conn); err != nil {
			println("Warn: [config]", err.Error())
		}
	}()
}

// parse turns raw JSON into its top-level object. tinyjson reports malformed
// input by panicking.
func parse(raw []byte) (m map[string]any, err error) {
	defer func() {
		if recover() != nil {
			m, err = nil, ErrBadJSON
		}
	}()
	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

func decodeKey(k string, v any) (any, error) {
	switch k {
	case "params":
		return decodeParams(v)
	case "console":
		return decodeConsole(v)
	}
	return v, nil
}

func decodeParams(v any) (types.ParamsConfig, error) {
	var c types.ParamsConfig
	m, ok := v.(map[string]any)
	if !ok {
		return c, ErrBadKey
	}
	if b, ok := m["auto_backup"]; ok {
		if c.AutoBackup, ok = b.(bool); !ok {
			return c, ErrBadKey
		}
	}
	if n, ok := m["request_timeout_ms"]; ok {
		ms, ok := number(n)
		if !ok || ms < 0 {
			return c, ErrBadKey
		}
		c.RequestTimeoutMs = ms
	}
	return c, nil
}

func decodeConsole(v any) (types.ConsoleConfig, error) {
	var c types.ConsoleConfig
	m, ok := v.(map[string]any)
	if !ok {
		return c, ErrBadKey
	}
	if p, ok := m["prompt"]; ok {
		if c.Prompt, ok = p.(string); !ok {
			return c, ErrBadKey
		}
	}
	if e, ok := m["echo"]; ok {
		if c.Echo, ok = e.(bool); !ok {
			return c, ErrBadKey
		}
	}
	return c, nil
}

func number(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
