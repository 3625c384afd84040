package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"pulp-go/errcode"
	"pulp-go/param"
	"pulp-go/registry"
	"pulp-go/storage"
)

const imageSize = 2 * registry.SnapshotSize

// uuidRandom issues unique identifiers from version 4 UUIDs.
type uuidRandom struct{}

func (uuidRandom) Create(buf []byte) {
	for len(buf) > 0 {
		u := uuid.New()
		buf = buf[copy(buf, u[:]):]
	}
}

// changeLog reports notifications when --verbose is set.
type changeLog struct{ w io.Writer }

func (c changeLog) OnChange(k param.Kind) { fmt.Fprintln(c.w, "changed", k) }

type image struct {
	file    *storage.File
	primary *storage.Region
	backup  *storage.Region
	reg     *registry.Registry
}

func openImage(opts *RootOptions, log io.Writer) (*image, error) {
	f, err := storage.OpenFile(opts.Image, imageSize)
	if err != nil {
		return nil, err
	}
	im := &image{file: f}
	if im.primary, err = storage.NewRegion(f, 0, registry.SnapshotSize); err != nil {
		f.Close()
		return nil, err
	}
	if im.backup, err = storage.NewRegion(f, registry.SnapshotSize, registry.SnapshotSize); err != nil {
		f.Close()
		return nil, err
	}

	ctx := registry.Context{Random: random}
	if opts.Verbose {
		ctx.Notifier = changeLog{w: log}
	}
	if im.reg, err = registry.New(ctx, im.primary, im.backup); err != nil {
		f.Close()
		return nil, err
	}
	return im, nil
}

// random is swapped in tests for a deterministic sequence.
var random registry.RandomSequence = uuidRandom{}

func (im *image) Close() error {
	im.reg.Shutdown()
	if err := im.file.Sync(); err != nil {
		im.file.Close()
		return err
	}
	return im.file.Close()
}

// ready initializes the registry, repairing the primary if needed.
func (im *image) ready(w io.Writer) error {
	res := im.reg.Initialize()
	if im.reg.Recovered() {
		fmt.Fprintln(w, "primary was repaired")
	}
	if !res.OK() {
		return errcode.FromResult(res)
	}
	return nil
}

// records decodes the raw snapshot at m without validating it.
func records(m storage.Medium) ([]param.Record, bool, error) {
	b := make([]byte, registry.SnapshotSize)
	if err := storage.ReadFull(m, b, 0); err != nil {
		return nil, false, err
	}
	out := make([]param.Record, 0, param.Count)
	for _, k := range param.Kinds() {
		rec := param.New(k)
		rec.Deserialize(param.NewCursor(b[rec.Address() : rec.Address()+rec.Size()]))
		out = append(out, rec)
	}
	return out, registry.Verify(b), nil
}

func verdict(ok bool) string {
	if ok {
		return "ok"
	}
	return registry.IntegrityFailure.String()
}
