// Command structfile reads RNA secondary structure files: it lists the
// supported formats, prints records in another representation, computes
// record digests and builds a SQLite index of records.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/structfile/core/formats"
	"github.com/FocuswithJustin/structfile/core/structfile"
	"github.com/FocuswithJustin/structfile/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for structfile.
type CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (${enum})"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format (${enum})"`

	Formats FormatsCmd `cmd:"" help:"List supported formats and alphabets"`
	Read    ReadCmd    `cmd:"" help:"Read records and print them"`
	Digest  DigestCmd  `cmd:"" help:"Print the content digest of every record"`
	Index   IndexCmd   `cmd:"" help:"Store the records of several files in a SQLite index"`
	Lookup  LookupCmd  `cmd:"" help:"Look up an indexed record by digest"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply configures logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// App carries what commands share.
type App struct {
	Ctx     context.Context
	Out     io.Writer
	Formats structfile.FormatList
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	_, err := io.WriteString(app.Out, "structfile version "+version+"\n")
	return err
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("structfile"),
		kong.Description("RNA secondary structure file reader"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	app := &App{Ctx: ctx, Out: os.Stdout, Formats: formats.Default()}
	err = kctx.Run(app)
	kctx.FatalIfErrorf(err)
}
