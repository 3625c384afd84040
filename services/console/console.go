// Package console is a line-oriented maintenance shell for the parameter
// registry. It runs over any byte port (a uartx UART on the board) and talks
// to the params service over the bus only.
package console

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/shlex"

	"pulp-go/bus"
	"pulp-go/errcode"
	"pulp-go/param"
	"pulp-go/services/params"
	"pulp-go/types"
	"pulp-go/x/conv"
)

// Port is the byte stream the console speaks over. uartx.UART satisfies it.
type Port interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

const (
	eol            = "\r\n"
	maxLine        = 160
	defaultPrompt  = "> "
	defaultTimeout = 500 * time.Millisecond
)

var (
	topicConfigConsole = bus.T("config", "console")
	topicConfigParams  = bus.T("config", "params")
)

var errUsage = errors.New("usage")

type Console struct {
	conn    *bus.Connection
	port    Port
	prompt  string
	echo    bool
	timeout time.Duration
}

func New(conn *bus.Connection, port Port) *Console {
	return &Console{
		conn:    conn,
		port:    port,
		prompt:  defaultPrompt,
		timeout: defaultTimeout,
	}
}

// Wanted reports whether the features record enables the console. It waits up
// to wait for the retained value. Without one the console stays on, so a
// registry that never got ready can still be repaired.
func Wanted(ctx context.Context, conn *bus.Connection, wait time.Duration) bool {
	sub := conn.Subscribe(params.TopicValue(param.KindFeatures))
	defer conn.Unsubscribe(sub)

	select {
	case m := <-sub.Channel():
		if r, ok := m.Payload.(types.ParamReply); ok {
			if f, ok := r.Record.(*param.Features); ok {
				return f.Enabled(param.FeatureConsole)
			}
		}
		return true
	case <-time.After(wait):
		return true
	case <-ctx.Done():
		return false
	}
}

// Start runs the console in its own goroutine.
func (c *Console) Start(ctx context.Context) { go c.Run(ctx) }

// Run reads lines from the port and executes them until ctx is done.
func (c *Console) Run(ctx context.Context) {
	cfgConsole := c.conn.Subscribe(topicConfigConsole)
	cfgParams := c.conn.Subscribe(topicConfigParams)
	defer c.conn.Unsubscribe(cfgConsole)
	defer c.conn.Unsubscribe(cfgParams)

	inputs := make(chan input, 4)
	go c.readLines(ctx, inputs)

	c.writeString(c.prompt)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-cfgConsole.Channel():
			if cfg, ok := m.Payload.(types.ConsoleConfig); ok {
				if cfg.Prompt != "" {
					c.prompt = cfg.Prompt
				}
				c.echo = cfg.Echo
			}
		case m := <-cfgParams.Channel():
			if cfg, ok := m.Payload.(types.ParamsConfig); ok && cfg.RequestTimeoutMs > 0 {
				c.timeout = time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
			}
		case in, ok := <-inputs:
			if !ok {
				return
			}
			if c.echo {
				c.writeString(in.echo)
			}
			if in.line != "" {
				c.writeString(c.Execute(ctx, in.line))
				c.writeString(c.prompt)
			}
		}
	}
}

// input is one event from the port reader: text to echo back, and a complete
// line when one was terminated.
type input struct {
	echo string
	line string
}

// readLines assembles CR or LF terminated lines. Backspace and DEL erase.
// Echo text travels with the lines so that only Run writes to the port.
func (c *Console) readLines(ctx context.Context, out chan<- input) {
	defer close(out)
	buf := make([]byte, 32)
	line := make([]byte, 0, maxLine)
	echo := make([]byte, 0, 64)
	send := func(in input) bool {
		select {
		case out <- in:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for {
		n, err := c.port.RecvSomeContext(ctx, buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			switch {
			case b == '\r' || b == '\n':
				echo = append(echo, eol...)
				if len(line) == 0 {
					continue
				}
				if !send(input{echo: string(echo), line: string(line)}) {
					return
				}
				echo, line = echo[:0], line[:0]
			case b == 0x08 || b == 0x7F:
				if len(line) > 0 {
					line = line[:len(line)-1]
					echo = append(echo, "\b \b"...)
				}
			case b >= 0x20 && b < 0x7F && len(line) < maxLine:
				line = append(line, b)
				echo = append(echo, b)
			}
		}
		if len(echo) > 0 {
			if !send(input{echo: string(echo)}) {
				return
			}
			echo = echo[:0]
		}
	}
}

func (c *Console) writeString(s string) {
	if s != "" {
		c.port.Write([]byte(s))
	}
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

const helpText = "commands:" + eol +
	"  help" + eol +
	"  kinds" + eol +
	"  state" + eol +
	"  get <kind>" + eol +
	"  set <kind> <field>=<value>..." + eol +
	"  format | check | load" + eol +
	"  backup create|check|restore" + eol +
	"  dump" + eol

// Execute runs one command line and returns its output, every line ending in
// CRLF.
func (c *Console) Execute(ctx context.Context, line string) string {
	args, err := shlex.Split(line)
	if err != nil {
		return "error: " + err.Error() + eol
	}
	if len(args) == 0 {
		return ""
	}

	var out strings.Builder
	switch args[0] {
	case "help", "?":
		out.WriteString(helpText)
	case "kinds":
		for _, k := range param.Kinds() {
			out.WriteString(k.String() + eol)
		}
	case "state":
		err = c.state(ctx, &out)
	case "get":
		err = c.get(ctx, &out, args[1:])
	case "set":
		err = c.set(ctx, &out, args[1:])
	case "format", "check", "load":
		err = c.command(ctx, &out, args[0])
	case "backup":
		err = c.backup(ctx, &out, args[1:])
	case "dump":
		err = c.dump(ctx, &out)
	default:
		err = errcode.UnknownCommand
	}

	switch {
	case err == errUsage:
		out.WriteString("usage: see help" + eol)
	case err != nil:
		out.WriteString("error: " + err.Error() + eol)
	}
	return out.String()
}

func (c *Console) request(ctx context.Context, topic bus.Topic, payload any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	reply, err := c.conn.RequestWait(ctx, c.conn.NewMessage(topic, payload, false))
	if err != nil {
		return nil, errcode.Timeout
	}
	if e, ok := reply.Payload.(types.ErrorReply); ok {
		return nil, errcode.Code(e.Error)
	}
	return reply.Payload, nil
}

func writeRecord(out *strings.Builder, p any) {
	r, ok := p.(types.ParamReply)
	if !ok {
		return
	}
	out.WriteString(r.Kind + ":" + eol)
	for _, f := range r.Fields {
		out.WriteString("  " + f.Name + " = " + f.Value + eol)
	}
}

func (c *Console) state(ctx context.Context, out *strings.Builder) error {
	sub := c.conn.Subscribe(params.TopicState)
	defer c.conn.Unsubscribe(sub)

	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.ParamState)
		if !ok {
			return errcode.InvalidPayload
		}
		out.WriteString("state " + st.State)
		if st.Recovered {
			out.WriteString(" (recovered)")
		}
		out.WriteString(eol)
		return nil
	case <-time.After(c.timeout):
		return errcode.Timeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Console) get(ctx context.Context, out *strings.Builder, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	k, ok := param.ParseKind(args[0])
	if !ok {
		return errcode.UnknownKind
	}
	p, err := c.request(ctx, params.TopicGet(k), nil)
	if err != nil {
		return err
	}
	writeRecord(out, p)
	return nil
}

func (c *Console) set(ctx context.Context, out *strings.Builder, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	k, ok := param.ParseKind(args[0])
	if !ok {
		return errcode.UnknownKind
	}
	fields := make(map[string]string, len(args)-1)
	for _, a := range args[1:] {
		name, value, found := strings.Cut(a, "=")
		if !found || name == "" {
			return errUsage
		}
		fields[name] = value
	}
	p, err := c.request(ctx, params.TopicSet(k), types.ParamSet{Fields: fields})
	if err != nil {
		return err
	}
	writeRecord(out, p)
	return nil
}

func (c *Console) command(ctx context.Context, out *strings.Builder, verb string) error {
	if _, err := c.request(ctx, params.TopicCmd(verb), nil); err != nil {
		return err
	}
	out.WriteString("ok" + eol)
	return nil
}

func (c *Console) backup(ctx context.Context, out *strings.Builder, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	switch args[0] {
	case "create":
		return c.command(ctx, out, params.VerbBackupCreate)
	case "check":
		return c.command(ctx, out, params.VerbBackupCheck)
	case "restore":
		return c.command(ctx, out, params.VerbBackupRestore)
	default:
		return errUsage
	}
}

func (c *Console) dump(ctx context.Context, out *strings.Builder) error {
	p, err := c.request(ctx, params.TopicDump, nil)
	if err != nil {
		return err
	}
	snap, ok := p.(types.SnapshotReply)
	if !ok {
		return errcode.InvalidPayload
	}
	conv.Dump(snap.Bytes, func(line []byte) {
		out.Write(line)
		out.WriteString(eol)
	})
	return nil
}
