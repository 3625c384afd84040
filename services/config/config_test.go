package config

import (
	"context"
	"testing"
	"time"

	"pulp-go/bus"
	"pulp-go/types"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"params": {"auto_backup": true, "request_timeout_ms": 750},
			"console": {"prompt": "> "},
			"mode": "dev"
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	// Subscribe; retained messages arrive whenever the publisher ran.
	sub := conn.Subscribe(bus.T(configPrefix, "#"))

	wantCount := 3
	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) != 2 || m.Topic[0] != configPrefix {
				t.Fatalf("unexpected topic: %#v", m.Topic)
			}
			key, ok := m.Topic[1].(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic[1])
			}
			if !m.Retained {
				t.Fatalf("config/%s not retained", key)
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained messages, got %d (%v)", wantCount, len(got), got)
	}
	if p, ok := got["params"].(types.ParamsConfig); !ok || !p.AutoBackup || p.RequestTimeoutMs != 750 {
		t.Fatalf("params payload = %#v", got["params"])
	}
	if c, ok := got["console"].(types.ConsoleConfig); !ok || c.Prompt != "> " || c.Echo {
		t.Fatalf("console payload = %#v", got["console"])
	}
	if s, ok := got["mode"].(string); !ok || s != "dev" {
		t.Fatalf("mode payload = %#v, want \"dev\"", got["mode"])
	}
}

func TestConfig_EmbeddedDevicesCarryParams(t *testing.T) {
	for device, raw := range embeddedConfigs {
		m, err := parse(raw)
		if err != nil {
			t.Fatalf("%s: %v", device, err)
		}
		p, err := decodeParams(m["params"])
		if err != nil {
			t.Fatalf("%s: params config: %v", device, err)
		}
		if p.RequestTimeoutMs <= 0 {
			t.Fatalf("%s: request timeout %d", device, p.RequestTimeoutMs)
		}
		if _, err := decodeConsole(m["console"]); err != nil {
			t.Fatalf("%s: console config: %v", device, err)
		}
	}
}

func TestConfig_Parse_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"array", `[1, 2]`, ErrNotObject},
		{"string", `"pico"`, ErrNotObject},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := parse([]byte(c.raw)); err != c.want {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
	if _, err := parse([]byte(`{"params": `)); err == nil {
		t.Fatal("truncated JSON parsed")
	}
}

func TestConfig_DecodeKey_WrongShapes(t *testing.T) {
	cases := []struct {
		key string
		v   any
	}{
		{"params", "yes"},
		{"params", map[string]any{"auto_backup": "true"}},
		{"params", map[string]any{"request_timeout_ms": -1.0}},
		{"console", map[string]any{"prompt": 3.0}},
		{"console", map[string]any{"echo": "on"}},
	}
	for _, c := range cases {
		if _, err := decodeKey(c.key, c.v); err != ErrBadKey {
			t.Fatalf("%s %#v: got %v, want ErrBadKey", c.key, c.v, err)
		}
	}
	if v, err := decodeKey("mode", "dev"); err != nil || v != "dev" {
		t.Fatalf("passthrough = %#v, %v", v, err)
	}
}

func TestConfig_Publish_MissingDevice(t *testing.T) {
	conn := bus.NewBus(4).NewConnection("test-missing-device")
	if err := NewConfigService().Publish(context.Background(), conn); err != ErrNoDevice {
		t.Fatalf("got %v, want ErrNoDevice", err)
	}
}

func TestConfig_Publish_NoConfigFound(t *testing.T) {
	conn := bus.NewBus(4).NewConnection("test-no-config")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := NewConfigService().Publish(ctx, conn); err != ErrNoConfig {
		t.Fatalf("got %v, want ErrNoConfig", err)
	}
}
