package main

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/digest"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats"
	"github.com/FocuswithJustin/structfile/core/structfile"
	"github.com/FocuswithJustin/structfile/internal/index"
	"github.com/FocuswithJustin/structfile/internal/input"
	"github.com/FocuswithJustin/structfile/internal/logging"
	"github.com/FocuswithJustin/structfile/internal/validation"
)

// FormatsCmd lists the built-in formats.
type FormatsCmd struct{}

func (c *FormatsCmd) Run(app *App) error {
	tw := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tEXTENSIONS\tWRITE")
	for _, f := range app.Formats.Formats() {
		_, writable := formats.Writer(f.Name())
		fmt.Fprintf(tw, "%s\t%s\t%v\n", f.Name(), strings.Join(f.Extensions(), ", "), writable)
	}
	fmt.Fprintln(tw, "\nALPHABET\tSYMBOLS")
	for _, name := range alphabet.Names() {
		a, _ := alphabet.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\n", a.Name(), a.Symbols())
	}
	return tw.Flush()
}

// SourceFlags are shared by the commands that read files.
type SourceFlags struct {
	Format   string `short:"f" help:"Read with this format instead of detecting it"`
	Alphabet string `short:"a" default:"rna5" help:"Residue alphabet"`
	Combined bool   `help:"Store sequence and structure together"`
}

func (s *SourceFlags) validate(paths []string) error {
	for _, p := range paths {
		if p == input.Stdin {
			continue
		}
		if err := validation.ValidatePath(p); err != nil {
			return err
		}
	}
	if err := validation.NewValueList("alphabet", alphabet.Names()...).Validate(strings.ToLower(s.Alphabet)); err != nil {
		return err
	}
	if s.Format != "" {
		if _, ok := formats.Default().Lookup(s.Format); !ok {
			return errors.NewValidation("format", fmt.Sprintf("unknown format %q", s.Format))
		}
	}
	return nil
}

func (s *SourceFlags) options() structfile.Options {
	alph, _ := alphabet.Lookup(s.Alphabet)
	return structfile.NewOptions(alph, s.Combined)
}

func (s *SourceFlags) open(app *App, path string, fields structfile.FieldSet) (*input.Records, error) {
	if s.Format != "" {
		f, _ := app.Formats.Lookup(s.Format)
		return input.OpenRecordsAs(path, f, s.options(), fields)
	}
	return input.OpenRecords(path, app.Formats, s.options(), fields)
}

// ReadCmd prints the records of one file.
type ReadCmd struct {
	SourceFlags `embed:""`
	Path        string `arg:"" default:"-" help:"Input file, - for stdin"`
	Fields      string `default:"all" help:"Comma separated fields to read (${default} for every field)"`
	Output      string `short:"o" default:"json" help:"Output: json, tsv or a writable format name"`
	Limit       int    `short:"n" default:"0" help:"Stop after this many records (0 for no limit)"`

	fields structfile.FieldSet
}

func outputNames() []string {
	return append([]string{"json", "tsv"}, formats.WriterNames()...)
}

func (c *ReadCmd) Validate() error {
	if err := c.SourceFlags.validate([]string{c.Path}); err != nil {
		return err
	}
	if err := validation.NewValueList("output", outputNames()...).Validate(c.Output); err != nil {
		return err
	}
	if err := validation.NewRange("limit", 0, math.MaxInt32).Validate(c.Limit); err != nil {
		return err
	}
	fields, err := parseFields(c.Fields, c.Combined)
	if err != nil {
		return err
	}
	c.fields = fields
	return nil
}

// parseFields parses the --fields flag; "all" selects every field.
func parseFields(list string, combined bool) (structfile.FieldSet, error) {
	if strings.EqualFold(list, "all") {
		return structfile.AllFields, nil
	}
	fields, err := structfile.ParseFieldSet(list)
	if err != nil {
		return 0, errors.NewValidation("fields", err.Error())
	}
	if fields == 0 {
		return 0, errors.NewValidation("fields", "no field selected")
	}
	if fields.Has(structfile.FieldStructuredSeq) && !combined {
		return 0, errors.NewValidation("fields", "structured_seq requires --combined")
	}
	return fields, nil
}

func (c *ReadCmd) Run(app *App) error {
	recs, err := c.open(app, c.Path, c.fields)
	if err != nil {
		return err
	}
	defer recs.Close()

	enc, err := newEncoder(c.Output, app.Out)
	if err != nil {
		return err
	}
	format := recs.Format().Name()
	err = recs.Each(app.Ctx, func(rec *structfile.Record) error {
		logging.RecordRead(format, recs.Count(), rec.ID.String(), rec.Len())
		if err := enc.encode(rec); err != nil {
			return err
		}
		if c.Limit > 0 && recs.Count() >= c.Limit {
			return errLimit
		}
		return nil
	})
	if err == errLimit {
		err = nil
	}
	if err != nil {
		logging.ReadFailed(c.Path, format, err)
		return err
	}
	return enc.flush()
}

var errLimit = errors.New("record limit reached")

// DigestCmd prints record digests.
type DigestCmd struct {
	SourceFlags `embed:""`
	Paths       []string `arg:"" help:"Input files, - for stdin"`
	Summary     bool     `help:"Also print one digest over all records of each file"`
}

func (c *DigestCmd) Validate() error {
	return c.SourceFlags.validate(c.Paths)
}

func (c *DigestCmd) Run(app *App) error {
	fields := structfile.NewFieldSet(structfile.FieldID, structfile.FieldSeq, structfile.FieldStructure)
	if c.Combined {
		fields = structfile.NewFieldSet(structfile.FieldID, structfile.FieldStructuredSeq)
	}
	for _, path := range c.Paths {
		recs, err := c.open(app, path, fields)
		if err != nil {
			return err
		}
		stream := digest.NewStream()
		err = recs.Each(app.Ctx, func(rec *structfile.Record) error {
			_, err := fmt.Fprintf(app.Out, "%s  %s  %s\n", stream.Add(rec), path, rec.ID)
			return err
		})
		recs.Close()
		if err != nil {
			logging.ReadFailed(path, recs.Format().Name(), err)
			return err
		}
		if c.Summary {
			if _, err := fmt.Fprintf(app.Out, "%s  %s  (%d records)\n", stream.Sum(), path, stream.Count()); err != nil {
				return err
			}
		}
	}
	return nil
}

// IndexCmd stores the records of several files in an index, reading the
// files concurrently.
type IndexCmd struct {
	SourceFlags `embed:""`
	Paths       []string `arg:"" help:"Input files"`
	DB          string   `name:"db" required:"" help:"Index database path"`
	Jobs        int      `short:"j" default:"4" help:"Files read in parallel"`
}

func (c *IndexCmd) Validate() error {
	if err := c.SourceFlags.validate(c.Paths); err != nil {
		return err
	}
	if c.Format == "" {
		exts := validation.NewFileExtension(formats.Default().Extensions()...)
		for _, p := range c.Paths {
			if err := exts.Validate(p); err != nil {
				return err
			}
		}
	}
	if err := validation.ValidatePath(c.DB); err != nil {
		return err
	}
	return validation.NewRange("jobs", 1, 64).Validate(c.Jobs)
}

func (c *IndexCmd) Run(app *App) error {
	start := time.Now()
	store, err := index.Open(app.Ctx, c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	batch := index.NewBatch()
	ctx := logging.WithBatchID(app.Ctx, batch)
	fields := structfile.AllFields
	var total, added atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Jobs)
	for _, path := range c.Paths {
		path := path // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			recs, err := c.open(app, path, fields)
			if err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			defer recs.Close()
			err = recs.Each(gctx, func(rec *structfile.Record) error {
				_, inserted, err := store.Put(gctx, batch, path, rec)
				if err != nil {
					return err
				}
				total.Add(1)
				if inserted {
					added.Add(1)
				}
				return nil
			})
			if err != nil {
				logging.ReadFailed(path, recs.Format().Name(), err)
				return errors.Wrapf(err, "%s", path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logging.IndexBatch(ctx, len(c.Paths), int(total.Load()), time.Since(start), "added", added.Load())
	_, err = fmt.Fprintf(app.Out, "batch %s: %d records from %d files, %d new\n", batch, total.Load(), len(c.Paths), added.Load())
	return err
}

// LookupCmd prints an indexed record.
type LookupCmd struct {
	Digest string `arg:"" help:"Record digest"`
	DB     string `name:"db" required:"" help:"Index database path"`
	Output string `short:"o" default:"json" help:"Output: json, tsv or a writable format name"`
}

func (c *LookupCmd) Validate() error {
	if err := validation.ValidatePath(c.DB); err != nil {
		return err
	}
	if err := validation.NewValueList("output", outputNames()...).Validate(c.Output); err != nil {
		return err
	}
	c.Digest = strings.ToLower(c.Digest)
	return digestValidator.Validate(c.Digest)
}

var digestValidator = validation.Chain[string]{
	validation.MustRegex("digest", "^[0-9a-f]*$"),
	validation.MustRegex("digest", fmt.Sprintf("^.{%d}$", digest.Size)),
}

func (c *LookupCmd) Run(app *App) error {
	store, err := index.Open(app.Ctx, c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(app.Ctx, c.Digest)
	if err != nil {
		return err
	}
	rec, err := entryRecord(e)
	if err != nil {
		return err
	}
	enc, err := newEncoder(c.Output, app.Out)
	if err != nil {
		return err
	}
	if err := enc.encode(rec); err != nil {
		return err
	}
	return enc.flush()
}

// entryRecord rebuilds a record from an index entry. Stored residues are
// already canonical, so they are taken as they are.
func entryRecord(e *index.Entry) (*structfile.Record, error) {
	rec := &structfile.Record{
		Format: e.Format,
		Fields: structfile.NewFieldSet(structfile.FieldID, structfile.FieldSeq, structfile.FieldStructure,
			structfile.FieldEnergy, structfile.FieldOffset),
		ID:     structfile.Text(e.ID),
		Energy: e.Energy,
		Offset: structfile.Offset(e.Offset),
		Seq:    make(structfile.Sequence, len(e.Sequence)),
	}
	for i := 0; i < len(e.Sequence); i++ {
		rec.Seq[i] = alphabet.Nucleotide(e.Sequence[i])
	}
	for i := 0; i < len(e.Structure); i++ {
		w, ok := alphabet.ParseWUSS(e.Structure[i])
		if !ok {
			return nil, errors.NewValidation("structure", fmt.Sprintf("stored symbol %q is not valid", e.Structure[i]))
		}
		rec.Structure = append(rec.Structure, w)
	}
	return rec, nil
}
