package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pulp-go/errcode"
	"pulp-go/param"
	"pulp-go/registry"
)

var errPrimaryInvalid = errors.New("primary does not verify; run init or backup restore")

// withImage opens the image for the duration of fn.
func withImage(opts *RootOptions, cmd *cobra.Command, fn func(im *image, out io.Writer) error) error {
	im, err := openImage(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := fn(im, cmd.OutOrStdout()); err != nil {
		im.Close()
		return err
	}
	return im.Close()
}

func writeRecords(out io.Writer, recs []param.Record) {
	for _, rec := range recs {
		fmt.Fprintf(out, "%s:\n", rec.Kind())
		rec.VisitFields(func(name, value string) {
			fmt.Fprintf(out, "  %s = %s\n", name, value)
		})
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	var backup bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the decoded records of the primary (or backup) snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				m, label := im.primary, "primary"
				if backup {
					m, label = im.backup, "backup"
				}
				recs, ok, err := records(m)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", label, verdict(ok))
				writeRecords(out, recs)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&backup, "backup", false, "show the backup snapshot")
	return cmd
}

func newCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the primary and backup integrity codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				im.reg.ParamLoad()
				primary := im.reg.ParamCheck()
				fmt.Fprintf(out, "primary: %s\n", verdict(primary.OK()))
				fmt.Fprintf(out, "backup: %s\n", verdict(im.reg.ParamBackupCheck().OK()))
				if !primary.OK() {
					return errcode.FromResult(primary)
				}
				return nil
			})
		},
	}
}

func newInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Load the image, restoring from backup or formatting if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				if err := im.ready(out); err != nil {
					return err
				}
				fmt.Fprintln(out, "state:", im.reg.State())
				return nil
			})
		},
	}
}

func newFormatCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Reset every parameter to its default and issue a new unique identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				if res := im.reg.ParamFormat(); !res.OK() {
					return errcode.FromResult(res)
				}
				uid, _ := im.reg.UniqueIdentifier()
				fmt.Fprintln(out, "formatted, uid", uid)
				return nil
			})
		},
	}
}

func newBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, check or restore the backup snapshot",
	}
	op := func(use, short string, fn func(r *registry.Registry) registry.Result) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withImage(opts, cmd, func(im *image, out io.Writer) error {
					im.reg.ParamLoad()
					if res := fn(im.reg); !res.OK() {
						return errcode.FromResult(res)
					}
					fmt.Fprintln(out, "ok")
					return nil
				})
			},
		}
	}
	cmd.AddCommand(
		op("create", "Copy a verified primary to the backup", (*registry.Registry).ParamBackupCreate),
		op("check", "Verify the backup", (*registry.Registry).ParamBackupCheck),
		op("restore", "Copy a valid backup over the primary", func(r *registry.Registry) registry.Result {
			if res := r.ParamBackupRestore(); !res.OK() {
				return res
			}
			return r.ParamCheck()
		}),
	)
	return cmd
}

// assign applies name=value arguments to rec.
func assign(rec param.Record, args []string) error {
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("%q: want field=value", a)
		}
		if err := rec.SetField(name, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func newSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <field>=<value>...",
		Short: "Change fields of one parameter record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := param.ParseKind(args[0])
			if !ok {
				return errcode.UnknownKind
			}
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				if err := im.ready(out); err != nil {
					return err
				}
				rec, res := im.reg.Get(k)
				if !res.OK() {
					return errcode.FromResult(res)
				}
				if err := assign(rec, args[1:]); err != nil {
					return err
				}
				if res := im.reg.Set(rec); !res.OK() {
					return errcode.FromResult(res)
				}
				writeRecords(out, []param.Record{rec})
				return nil
			})
		},
	}
}

// document is the export format: one mapping per record, keyed by kind name.
type document map[string]param.Record

func newExportCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the primary parameters as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				recs, ok, err := records(im.primary)
				if err != nil {
					return err
				}
				if !ok {
					return errPrimaryInvalid
				}
				doc := make(document, len(recs))
				for _, rec := range recs {
					doc[rec.Kind().String()] = rec
				}
				b, err := yaml.Marshal(doc)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = out.Write(b)
					return err
				}
				return os.WriteFile(output, b, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Apply parameters from a YAML export",
		Long: `Apply parameters from a YAML export. Records absent from the file are left
alone, as are fields absent from a record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var raw map[string]yaml.Node
			if err := yaml.Unmarshal(b, &raw); err != nil {
				return err
			}
			for name := range raw {
				if _, ok := param.ParseKind(name); !ok {
					return fmt.Errorf("%s: %w", name, errcode.UnknownKind)
				}
			}
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				if err := im.ready(out); err != nil {
					return err
				}
				n := 0
				for _, k := range param.Kinds() {
					node, ok := raw[k.String()]
					if !ok {
						continue
					}
					rec, res := im.reg.Get(k)
					if !res.OK() {
						return errcode.FromResult(res)
					}
					if err := node.Decode(rec); err != nil {
						return fmt.Errorf("%s: %w", k, err)
					}
					if res := im.reg.Set(rec); !res.OK() {
						return fmt.Errorf("%s: %w", k, errcode.FromResult(res))
					}
					n++
				}
				fmt.Fprintln(out, "imported", n, "records")
				return nil
			})
		},
	}
}

func newProvisionCommand(opts *RootOptions) *cobra.Command {
	var serial string
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Assign a fresh UUID as the unique identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withImage(opts, cmd, func(im *image, out io.Writer) error {
				if err := im.ready(out); err != nil {
					return err
				}
				id := uuid.New()
				if res := im.reg.SetUniqueIdentifier(param.UniqueIdentifier{Value: param.UID(id)}); !res.OK() {
					return errcode.FromResult(res)
				}
				if serial != "" {
					if res := im.reg.SetSerialNumber(param.SerialNumber{Text: serial}); !res.OK() {
						return fmt.Errorf("serial: %w", errcode.FromResult(res))
					}
				}
				fmt.Fprintln(out, "uid", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&serial, "serial", "", "also set the serial number")
	return cmd
}
