package console

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"pulp-go/bus"
	"pulp-go/registry"
	"pulp-go/services/params"
	"pulp-go/storage"
	"pulp-go/types"
)

type fakePort struct {
	in  chan []byte
	mu  sync.Mutex
	out strings.Builder
}

func newFakePort() *fakePort { return &fakePort{in: make(chan []byte, 8)} }

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}

func (p *fakePort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	select {
	case b := <-p.in:
		return copy(buf, b), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (p *fakePort) output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}

type zeroRandom struct{}

func (zeroRandom) Create(buf []byte) {
	for i := range buf {
		buf[i] = 0xA5
	}
}

// setup starts a params service on a fresh RAM registry and returns a console
// bound to the same bus.
func setup(t *testing.T) (*Console, *bus.Bus, *fakePort) {
	t.Helper()
	b := bus.NewBus(32)
	svc := params.NewService(b.NewConnection("params"))
	reg, err := registry.New(registry.Context{Notifier: svc, Random: zeroRandom{}},
		storage.NewRAM(registry.SnapshotSize, 0xFF), storage.NewRAM(registry.SnapshotSize, 0xFF))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, reg)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	port := newFakePort()
	c := New(b.NewConnection("console"), port)
	c.timeout = time.Second

	// Wait until the service reports ready.
	if out := c.Execute(context.Background(), "state"); out != "state ready (recovered)\r\n" {
		t.Fatalf("state = %q", out)
	}
	return c, b, port
}

func TestExecute_GetSet(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	out := c.Execute(ctx, "get audio")
	want := "audio:\r\n  loudness = 50\r\n  verbosity = 3\r\n  theme = 0\r\n"
	if out != want {
		t.Fatalf("get audio:\n got %q\nwant %q", out, want)
	}

	out = c.Execute(ctx, `set name text="pump house"`)
	if !strings.Contains(out, "text = pump house\r\n") {
		t.Fatalf("set name = %q", out)
	}
	out = c.Execute(ctx, "get name")
	if !strings.Contains(out, "text = pump house") {
		t.Fatalf("get name after set = %q", out)
	}
}

func TestExecute_Errors(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	cases := []struct {
		line string
		want string
	}{
		{"bogus", "error: unknown_command\r\n"},
		{"get", "usage: see help\r\n"},
		{"get nope", "error: unknown_kind\r\n"},
		{"set audio loudness", "usage: see help\r\n"},
		{"set audio loudness=101", "error: invalid_value\r\n"},
		{"set audio volume=1", "error: unknown_field\r\n"},
		{"backup", "usage: see help\r\n"},
		{"backup sideways", "usage: see help\r\n"},
		{"backup check", "error: integrity_failure\r\n"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := c.Execute(ctx, tc.line); got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.line, got, tc.want)
		}
	}
	if got := c.Execute(ctx, `get "audio`); !strings.HasPrefix(got, "error: ") {
		t.Fatalf("unterminated quote: got %q", got)
	}
}

func TestExecute_BackupCycle(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	for _, line := range []string{"backup create", "backup check", "check"} {
		if got := c.Execute(ctx, line); got != "ok\r\n" {
			t.Fatalf("%q: got %q", line, got)
		}
	}
	c.Execute(ctx, "set load limit=900")
	if got := c.Execute(ctx, "backup restore"); got != "ok\r\n" {
		t.Fatalf("restore: %q", got)
	}
	if got := c.Execute(ctx, "get load"); !strings.Contains(got, "limit = 2000") {
		t.Fatalf("load after restore = %q", got)
	}
	if got := c.Execute(ctx, "format"); got != "ok\r\n" {
		t.Fatalf("format: %q", got)
	}
}

func TestExecute_DumpAndHelp(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	out := c.Execute(ctx, "dump")
	rows := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(rows) != 12 {
		t.Fatalf("dump has %d rows, want 12:\n%s", len(rows), out)
	}
	if !strings.HasPrefix(rows[0], "0000: 50 50 01 00") {
		t.Fatalf("dump header row = %q", rows[0])
	}
	if !strings.Contains(c.Execute(ctx, "help"), "backup create|check|restore") {
		t.Fatal("help text incomplete")
	}
	if got := c.Execute(ctx, "kinds"); !strings.HasPrefix(got, "audio\r\ncharger\r\n") {
		t.Fatalf("kinds = %q", got)
	}
}

func TestExecute_TimeoutWithoutService(t *testing.T) {
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), newFakePort())
	c.timeout = 20 * time.Millisecond
	if got := c.Execute(context.Background(), "get audio"); got != "error: timeout\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRun_LineEditingAndConfig(t *testing.T) {
	c, b, port := setup(t)
	b.NewConnection("config").Publish(b.NewMessage(bus.T("config", "console"),
		types.ConsoleConfig{Prompt: "pulp> ", Echo: true}, true))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Give the config a moment to land before typing.
	time.Sleep(50 * time.Millisecond)
	port.in <- []byte("gex")
	port.in <- []byte{0x7F}
	port.in <- []byte("t visual\r")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		out := port.output()
		if strings.Contains(out, "brightness = 60") && strings.HasSuffix(out, "pulp> ") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	out := port.output()
	if !strings.Contains(out, "visual:\r\n  brightness = 60\r\n") {
		t.Fatalf("console output = %q", out)
	}
	if !strings.Contains(out, "gex\b \bt visual\r\nvisual:\r\n") {
		t.Fatalf("echo not written ahead of the reply: %q", out)
	}
	if !strings.HasSuffix(out, "pulp> ") {
		t.Fatalf("prompt not reprinted after command: %q", out)
	}
}

func TestWanted_FollowsFeatures(t *testing.T) {
	c, b, _ := setup(t)
	conn := b.NewConnection("boot")
	if !Wanted(context.Background(), conn, time.Second) {
		t.Fatal("console disabled by default features")
	}
	if out := c.Execute(context.Background(), "set features flags=0x1"); !strings.Contains(out, "flags = 0x1") {
		t.Fatalf("set features = %q", out)
	}
	if Wanted(context.Background(), conn, time.Second) {
		t.Fatal("console still wanted after clearing its feature bit")
	}
}

func TestWanted_DefaultsOnWithoutRegistry(t *testing.T) {
	conn := bus.NewBus(4).NewConnection("boot")
	if !Wanted(context.Background(), conn, 20*time.Millisecond) {
		t.Fatal("console must stay on when no features value is published")
	}
}
