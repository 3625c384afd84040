// Package registry owns the parameter records, their persisted primary
// snapshot and a backup snapshot. It detects corruption with an integrity code
// and recovers during Initialize by restoring the backup before falling back
// to a format.
//
// A Registry is not safe for concurrent use; callers serialize access onto a
// single goroutine (see services/params).
package registry

import (
	"errors"

	"pulp-go/param"
	"pulp-go/storage"
)

// Notifier receives a callback after every successful parameter change.
type Notifier interface {
	OnChange(kind param.Kind)
}

// RandomSequence fills buffers with entropy derived bytes.
type RandomSequence interface {
	Create(buf []byte)
}

// Context carries the collaborators the registry borrows. It never owns them.
type Context struct {
	Notifier Notifier
	Random   RandomSequence
}

var ErrMediumTooSmall = errors.New("registry: medium smaller than snapshot")

type Registry struct {
	ctx     Context
	primary storage.Medium
	backup  storage.Medium

	state     State
	recovered bool

	snap    [SnapshotSize]byte
	records [param.Count]param.Record
}

// New binds a registry to its collaborators and media. Records start at their
// defaults; nothing is read until Initialize.
func New(ctx Context, primary, backup storage.Medium) (*Registry, error) {
	if primary.Size() < SnapshotSize || backup.Size() < SnapshotSize {
		return nil, ErrMediumTooSmall
	}
	r := &Registry{
		ctx:     ctx,
		primary: primary,
		backup:  backup,
	}
	for _, k := range param.Kinds() {
		r.records[k] = param.New(k)
	}
	return r, nil
}

func (r *Registry) State() State { return r.state }

// Recovered reports whether the last Initialize had to restore or format.
func (r *Registry) Recovered() bool { return r.recovered }

// Initialize runs load and check, escalating to a backup restore and then to a
// format when the primary does not verify. It returns the same value as IsReady.
func (r *Registry) Initialize() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	r.recovered = false
	r.enter(Loading)
	r.ParamLoad()

	r.enter(Checking)
	if r.ParamCheck().OK() {
		return r.settle(Ready)
	}

	r.enter(CheckingFailed)
	r.recovered = true
	println("Warn: [registry] primary snapshot failed integrity check")

	r.enter(Restoring)
	if r.restore().OK() {
		r.enter(Checking)
		if r.ParamCheck().OK() {
			println("Info: [registry] primary restored from backup")
			return r.settle(Ready)
		}
	}
	println("Warn: [registry] backup unusable, formatting")

	r.enter(Formatting)
	if res := r.format(); !res.OK() {
		println("Warn: [registry] format could not persist:", res.String())
	}
	r.enter(Checking)
	if r.ParamCheck().OK() {
		return r.settle(Ready)
	}
	println("Warn: [registry] broken after format")
	return r.settle(Broken)
}

// IsReady is Success only in the READY state.
func (r *Registry) IsReady() Result {
	switch r.state {
	case Ready:
		return Success
	case Broken:
		return IntegrityFailure
	case Shutdown:
		return ShutDown
	default:
		return NotReady
	}
}

// ParamLoad copies the persisted primary into memory without validation. A
// medium error leaves an erased image behind, which the next check rejects.
func (r *Registry) ParamLoad() Result {
	if err := storage.ReadFull(r.primary, r.snap[:], 0); err != nil {
		println("Warn: [registry] primary read failed:", err.Error())
		for i := range r.snap {
			r.snap[i] = 0xFF
		}
	}
	r.decode()
	return Success
}

// ParamCheck compares the in-memory snapshot against its stored code.
func (r *Registry) ParamCheck() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	if Verify(r.snap[:]) {
		return Success
	}
	return IntegrityFailure
}

// ParamFormat resets every record to defaults, issues a new unique identifier
// and persists. It is also the way out of BROKEN.
func (r *Registry) ParamFormat() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	r.enter(Formatting)
	res := r.format()
	r.enter(Checking)
	if !r.ParamCheck().OK() {
		r.settle(Broken)
		return IntegrityFailure
	}
	r.settle(Ready)
	r.notifyAll()
	return res
}

// ParamBackupCheck verifies the backup snapshot.
func (r *Registry) ParamBackupCheck() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	var b [SnapshotSize]byte
	if err := storage.ReadFull(r.backup, b[:], 0); err != nil {
		return StorageFailure
	}
	if !Verify(b[:]) {
		return IntegrityFailure
	}
	return Success
}

// ParamBackupCreate copies the in-memory snapshot to the backup. A primary
// that does not verify is never copied.
func (r *Registry) ParamBackupCreate() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	if !r.ParamCheck().OK() {
		println("Warn: [registry] refusing to back up an unverified primary")
		return IntegrityFailure
	}
	if err := storage.WriteFull(r.backup, r.snap[:], 0); err != nil {
		println("Warn: [registry] backup write failed:", err.Error())
		return StorageFailure
	}
	return Success
}

// ParamBackupRestore copies a valid backup over the primary. The caller is
// expected to ParamCheck afterwards.
func (r *Registry) ParamBackupRestore() Result {
	if r.state == Shutdown {
		return ShutDown
	}
	res := r.restore()
	if res.OK() && r.state == Ready {
		r.notifyAll()
	}
	return res
}

// Get returns a copy of the record for k.
func (r *Registry) Get(k param.Kind) (param.Record, Result) {
	if res := r.usable(); !res.OK() {
		return nil, res
	}
	if !k.Valid() {
		return nil, UnknownKind
	}
	return r.records[k].Clone(), Success
}

// Set stores rec: serialize, recompute the code, persist both, then notify.
// A primary that does not verify refuses the write. Values outside the
// record's domain are rejected, not clamped.
func (r *Registry) Set(rec param.Record) Result {
	if res := r.usable(); !res.OK() {
		return res
	}
	if rec == nil || !rec.Kind().Valid() {
		return UnknownKind
	}
	if !rec.Validate() {
		return InvalidValue
	}
	if !Verify(r.snap[:]) {
		println("Warn: [registry] refusing write to an unverified primary")
		return IntegrityFailure
	}
	k := rec.Kind()
	r.records[k] = rec.Clone()

	lo, hi := rec.Address(), rec.Address()+rec.Size()
	r.records[k].Serialize(param.NewCursor(r.snap[lo:hi]))
	putCode(r.snap[:])
	if err := storage.WriteFull(r.primary, r.snap[lo:hi], int64(lo)); err != nil {
		println("Warn: [registry] record write failed:", err.Error())
		return StorageFailure
	}
	if err := storage.WriteFull(r.primary, r.snap[CodeOffset:], CodeOffset); err != nil {
		println("Warn: [registry] code write failed:", err.Error())
		return StorageFailure
	}
	r.notify(k)
	return Success
}

// Bytes returns a copy of the in-memory primary snapshot.
func (r *Registry) Bytes() []byte {
	b := make([]byte, SnapshotSize)
	copy(b, r.snap[:])
	return b
}

// Shutdown flushes the media when they support it and drops the borrowed
// collaborators. Calling it twice is harmless.
func (r *Registry) Shutdown() Result {
	if r.state == Shutdown {
		return Success
	}
	type syncer interface{ Sync() error }
	for _, m := range []storage.Medium{r.primary, r.backup} {
		if s, ok := m.(syncer); ok {
			if err := s.Sync(); err != nil {
				println("Warn: [registry] sync failed:", err.Error())
			}
		}
	}
	r.ctx = Context{}
	r.enter(Shutdown)
	return Success
}

// ---- internals ----

func (r *Registry) enter(s State) { r.state = s }

func (r *Registry) settle(s State) Result {
	r.state = s
	println("Info: [registry] state", s.String())
	return r.IsReady()
}

func (r *Registry) usable() Result {
	switch r.state {
	case Ready:
		return Success
	case Shutdown:
		return ShutDown
	default:
		return NotReady
	}
}

// decode mirrors the snapshot bytes into the typed records.
func (r *Registry) decode() {
	for _, rec := range r.records {
		rec.Deserialize(param.NewCursor(r.snap[rec.Address() : rec.Address()+rec.Size()]))
	}
}

func (r *Registry) encode() {
	putHeader(r.snap[:])
	for _, rec := range r.records {
		rec.Serialize(param.NewCursor(r.snap[rec.Address() : rec.Address()+rec.Size()]))
	}
	putCode(r.snap[:])
}

func (r *Registry) format() Result {
	for _, rec := range r.records {
		rec.Initialize()
	}
	if r.ctx.Random != nil {
		uid := r.records[param.KindUniqueIdentifier].(*param.UniqueIdentifier)
		r.ctx.Random.Create(uid.Value[:])
	}
	r.encode()
	if err := storage.WriteFull(r.primary, r.snap[:], 0); err != nil {
		println("Warn: [registry] primary write failed:", err.Error())
		return StorageFailure
	}
	return Success
}

func (r *Registry) restore() Result {
	var b [SnapshotSize]byte
	if err := storage.ReadFull(r.backup, b[:], 0); err != nil {
		return BackupInvalid
	}
	if !Verify(b[:]) {
		return BackupInvalid
	}
	r.snap = b
	r.decode()
	if err := storage.WriteFull(r.primary, r.snap[:], 0); err != nil {
		println("Warn: [registry] primary write failed:", err.Error())
		return StorageFailure
	}
	return Success
}

func (r *Registry) notify(k param.Kind) {
	if r.ctx.Notifier != nil {
		r.ctx.Notifier.OnChange(k)
	}
}

func (r *Registry) notifyAll() {
	for _, k := range param.Kinds() {
		r.notify(k)
	}
}
