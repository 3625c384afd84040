// Package params exposes the parameter registry on the bus. The registry is
// touched only from the service goroutine; everything else goes through
// requests.
package params

import (
	"context"
	"errors"

	"pulp-go/bus"
	"pulp-go/errcode"
	"pulp-go/param"
	"pulp-go/registry"
	"pulp-go/types"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

const (
	prefix = "params"

	VerbFormat        = "format"
	VerbCheck         = "check"
	VerbLoad          = "load"
	VerbBackupCreate  = "backup_create"
	VerbBackupCheck   = "backup_check"
	VerbBackupRestore = "backup_restore"
)

func TopicGet(k param.Kind) bus.Topic   { return bus.T(prefix, "get", k.String()) }
func TopicSet(k param.Kind) bus.Topic   { return bus.T(prefix, "set", k.String()) }
func TopicValue(k param.Kind) bus.Topic { return bus.T(prefix, "value", k.String()) }
func TopicCmd(verb string) bus.Topic    { return bus.T(prefix, "cmd", verb) }

var (
	TopicState  = bus.T(prefix, "state")
	TopicDump   = bus.T(prefix, "dump")
	topicConfig = bus.T("config", "params")
)

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

// Service owns a Registry. It is also the registry's Notifier: pass it in
// registry.Context before calling Run.
type Service struct {
	conn *bus.Connection
	reg  *registry.Registry
	cfg  types.ParamsConfig
}

func NewService(conn *bus.Connection) *Service {
	return &Service{conn: conn}
}

// OnChange publishes the new value of k, retained.
func (s *Service) OnChange(k param.Kind) {
	if s.reg == nil {
		return
	}
	rec, res := s.reg.Get(k)
	if !res.OK() {
		return
	}
	s.conn.Publish(s.conn.NewMessage(TopicValue(k), types.NewParamReply(rec), true))
}

// Start runs the service loop in its own goroutine.
func (s *Service) Start(ctx context.Context, reg *registry.Registry) {
	go s.Run(ctx, reg)
}

// Run initializes reg, serves requests until ctx is done, then shuts reg down.
func (s *Service) Run(ctx context.Context, reg *registry.Registry) {
	s.reg = reg

	cfgSub := s.conn.Subscribe(topicConfig)
	getSub := s.conn.Subscribe(bus.T(prefix, "get", bus.SingleWild))
	setSub := s.conn.Subscribe(bus.T(prefix, "set", bus.SingleWild))
	cmdSub := s.conn.Subscribe(bus.T(prefix, "cmd", bus.SingleWild))
	dumpSub := s.conn.Subscribe(TopicDump)
	defer s.conn.Disconnect()

	// Retained config is already queued if the config service ran first.
	select {
	case m := <-cfgSub.Channel():
		s.applyConfig(m)
	default:
	}

	res := reg.Initialize()
	println("Info: [params] initialize:", res.String())
	if res.OK() && !reg.Recovered() && s.cfg.AutoBackup {
		s.autoBackup()
	}
	s.publishState()
	s.publishAll()

	for {
		select {
		case <-ctx.Done():
			reg.Shutdown()
			s.publishState()
			println("Info: [params] service stopped")
			return
		case m := <-cfgSub.Channel():
			s.applyConfig(m)
		case m := <-getSub.Channel():
			s.handleGet(m)
		case m := <-setSub.Channel():
			s.handleSet(m)
		case m := <-cmdSub.Channel():
			s.handleCmd(m)
		case m := <-dumpSub.Channel():
			s.conn.Reply(m, types.SnapshotReply{OK: true, Bytes: s.reg.Bytes()}, false)
		}
	}
}

func (s *Service) applyConfig(m *bus.Message) {
	switch c := m.Payload.(type) {
	case types.ParamsConfig:
		s.cfg = c
	case *types.ParamsConfig:
		s.cfg = *c
	default:
		println("Warn: [params] ignoring malformed config")
		return
	}
	println("Info: [params] config applied, auto_backup", s.cfg.AutoBackup)
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// kindOf reads the kind from the last topic token.
func kindOf(m *bus.Message) (param.Kind, error) {
	if len(m.Topic) != 3 {
		return 0, errcode.InvalidTopic
	}
	name, ok := m.Topic[2].(string)
	if !ok {
		return 0, errcode.InvalidTopic
	}
	k, ok := param.ParseKind(name)
	if !ok {
		return 0, errcode.UnknownKind
	}
	return k, nil
}

func (s *Service) handleGet(m *bus.Message) {
	k, err := kindOf(m)
	if err != nil {
		s.replyErr(m, err)
		return
	}
	rec, res := s.reg.Get(k)
	if !res.OK() {
		s.replyErr(m, errcode.FromResult(res))
		return
	}
	s.conn.Reply(m, types.NewParamReply(rec), false)
}

func (s *Service) handleSet(m *bus.Message) {
	k, err := kindOf(m)
	if err != nil {
		s.replyErr(m, err)
		return
	}
	var fields map[string]string
	switch p := m.Payload.(type) {
	case types.ParamSet:
		fields = p.Fields
	case *types.ParamSet:
		fields = p.Fields
	case map[string]string:
		fields = p
	default:
		s.replyErr(m, errcode.InvalidPayload)
		return
	}
	if len(fields) == 0 {
		s.replyErr(m, errcode.InvalidPayload)
		return
	}

	rec, res := s.reg.Get(k)
	if !res.OK() {
		s.replyErr(m, errcode.FromResult(res))
		return
	}
	if err := applyFields(rec, fields); err != nil {
		s.replyErr(m, &errcode.E{C: fieldCode(err), Op: "set " + k.String(), Err: err})
		return
	}
	if res := s.reg.Set(rec); !res.OK() {
		s.replyErr(m, &errcode.E{C: errcode.FromResult(res), Op: "set " + k.String()})
		return
	}
	s.conn.Reply(m, types.NewParamReply(rec), false)
}

// applyFields assigns fields in wire order so the outcome does not depend on
// map iteration.
func applyFields(rec param.Record, fields map[string]string) error {
	seen := 0
	var err error
	rec.VisitFields(func(name, _ string) {
		v, ok := fields[name]
		if !ok || err != nil {
			return
		}
		seen++
		err = rec.SetField(name, v)
	})
	if err != nil {
		return err
	}
	if seen != len(fields) {
		return param.ErrUnknownField
	}
	return nil
}

func fieldCode(err error) errcode.Code {
	if errors.Is(err, param.ErrUnknownField) {
		return errcode.UnknownField
	}
	return errcode.InvalidValue
}

func (s *Service) handleCmd(m *bus.Message) {
	if len(m.Topic) != 3 {
		s.replyErr(m, errcode.InvalidTopic)
		return
	}
	verb, ok := m.Topic[2].(string)
	if !ok {
		s.replyErr(m, errcode.InvalidTopic)
		return
	}
	var res registry.Result
	switch verb {
	case VerbFormat:
		res = s.reg.ParamFormat()
		if res.OK() && s.cfg.AutoBackup {
			s.autoBackup()
		}
	case VerbCheck:
		res = s.reg.ParamCheck()
	case VerbLoad:
		res = s.reg.ParamLoad()
	case VerbBackupCreate:
		res = s.reg.ParamBackupCreate()
	case VerbBackupCheck:
		res = s.reg.ParamBackupCheck()
	case VerbBackupRestore:
		res = s.reg.ParamBackupRestore()
	default:
		s.replyErr(m, errcode.UnknownCommand)
		return
	}
	println("Info: [params]", verb, res.String())
	s.publishState()
	if !res.OK() {
		s.replyErr(m, &errcode.E{C: errcode.FromResult(res), Op: verb})
		return
	}
	s.conn.Reply(m, types.OKReply{OK: true}, false)
}

func (s *Service) autoBackup() {
	if res := s.reg.ParamBackupCreate(); !res.OK() {
		println("Warn: [params] auto backup failed:", res.String())
	}
}

// -----------------------------------------------------------------------------
// Publishing
// -----------------------------------------------------------------------------

// replyErr answers m with the code of err. Wrapped errors are logged with
// their operation first.
func (s *Service) replyErr(m *bus.Message, err error) {
	if e, ok := err.(*errcode.E); ok {
		println("Warn: [params]", e.Error())
	}
	s.conn.Reply(m, types.ErrorReply{OK: false, Error: string(errcode.Of(err))}, false)
}

func (s *Service) publishState() {
	st := types.ParamState{
		State:     s.reg.State().String(),
		Ready:     s.reg.IsReady().OK(),
		Recovered: s.reg.Recovered(),
	}
	s.conn.Publish(s.conn.NewMessage(TopicState, st, true))
}

func (s *Service) publishAll() {
	for _, k := range param.Kinds() {
		s.OnChange(k)
	}
}
