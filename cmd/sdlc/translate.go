package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/google/subcommands"

	"github.com/open-sdl/sdlc/internal/emit/cfamily"
	"github.com/open-sdl/sdlc/internal/listing"
	"github.com/open-sdl/sdlc/internal/parser"
	"github.com/open-sdl/sdlc/internal/sdl"
)

// stringSlice is a repeatable string flag, the same pattern
// garnet/bin/traceutil's cmd_record.go uses for its repeated
// --categories flag.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type translateCmd struct {
	langs      stringSlice
	symbols    stringSlice
	align      int64
	b32        bool
	b64        bool
	comments   bool
	copyright  string
	header     bool
	memberAlgn bool
	noPrefix   bool
	noTag      bool
	listing    bool
	config     string
	trace      bool
}

func (*translateCmd) Name() string     { return "translate" }
func (*translateCmd) Synopsis() string { return "translate SDL source into target-language declarations" }
func (*translateCmd) Usage() string {
	return "translate [flags] input.sdl\n\nflags:\n"
}

func (c *translateCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.langs, "lang", "target language NAME[=FILE], repeatable")
	f.Var(&c.symbols, "symbol", "predefine a conditional symbol NAME=VALUE, repeatable")
	f.Int64Var(&c.align, "align", 0, "alignment in bytes: one of 0,1,2,4,8 (recorded in the job; layout does not read it)")
	f.BoolVar(&c.b32, "b32", false, "target a 32-bit word size")
	f.BoolVar(&c.b64, "b64", false, "target a 64-bit word size (default)")
	f.BoolVar(&c.comments, "comments", true, "comment pass-through (accepted; emitted output does not change with it)")
	f.StringVar(&c.copyright, "copyright", "", "copyright prelude text (accepted; not written to the output)")
	f.BoolVar(&c.header, "header", true, "emit the standard header block (stars/created/file-info)")
	f.BoolVar(&c.memberAlgn, "member-align", true, "per-member ALIGN/NOALIGN/BASEALIGN clauses (accepted; the clauses apply whatever its value)")
	f.BoolVar(&c.noPrefix, "no-prefix", false, "suppress PREFIX in emitted names")
	f.BoolVar(&c.noTag, "no-tag", false, "suppress TAG in emitted names")
	f.BoolVar(&c.listing, "listing", false, "generate a .lis listing file")
	f.StringVar(&c.config, "config", "", "YAML batch config naming multiple translations")
	f.BoolVar(&c.trace, "trace", false, "raise logging verbosity for per-action tracing")
}

func (c *translateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.trace {
		flag.Lookup("v").Value.Set("2")
	}

	if c.config != "" {
		batch, err := LoadBatchConfig(c.config)
		if err != nil {
			glog.Errorf("loading batch config: %v", err)
			return subcommands.ExitFailure
		}
		status := subcommands.ExitSuccess
		for _, job := range batch.Jobs {
			if err := c.runJob(job); err != nil {
				glog.Errorf("%s: %v", job.Input, err)
				status = subcommands.ExitFailure
			}
		}
		return status
	}

	if f.NArg() != 1 {
		glog.Errorf("translate expects exactly one input file")
		return subcommands.ExitUsageError
	}

	job := BatchJob{
		Input:     f.Arg(0),
		Languages: c.langs,
		Symbols:   c.symbols,
		Align:     c.align,
		WordSize:  c.wordSize(),
	}
	if err := c.runJob(job); err != nil {
		glog.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *translateCmd) wordSize() int {
	if c.b32 {
		return 32
	}
	return 64
}

// runJob executes one translation: spec.md §6's CLI surface, shared
// between direct positional-argument invocation and --config batch
// mode.
func (c *translateCmd) runJob(job BatchJob) error {
	src, err := os.ReadFile(job.Input)
	if err != nil {
		return sdl.NewDiagnostic(sdl.CodeInFilOpn, sdl.SourceLoc{}, "opening %s: %v", job.Input, err)
	}

	languages, targets, closers, err := c.openTargets(job)
	if err != nil {
		return err
	}
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()

	symbols, err := parseSymbols(job.Symbols)
	if err != nil {
		return err
	}

	wordSize := job.WordSize
	if wordSize == 0 {
		wordSize = 64
	}

	sctx := sdl.NewContext(wordSize, languages, symbols)
	sctx.Emitters = targets

	if c.header {
		for _, t := range sctx.Emitters {
			t.Emitter.HeaderStars(t.Out)
			t.Emitter.HeaderCreated(t.Out, "sdlc")
			t.Emitter.HeaderFileInfo(t.Out, "", job.Input)
		}
	}

	p := parser.New(src, sctx)
	syntaxErrs := p.ParseProgram()
	for _, e := range syntaxErrs {
		glog.Warningf("%s: syntax error: %s", job.Input, e)
	}

	if c.listing {
		if err := c.writeListing(job.Input, src, sctx); err != nil {
			glog.Warningf("writing listing: %v", err)
		}
	}

	if len(syntaxErrs) > 0 {
		return fmt.Errorf("%s: %d syntax errors", job.Input, len(syntaxErrs))
	}
	for _, e := range sctx.Diags.Errors() {
		if diag, ok := e.(*sdl.Diagnostic); ok && diag.Severity == sdl.SevFatal {
			return diag
		}
	}
	return nil
}

func (c *translateCmd) openTargets(job BatchJob) ([]sdl.Language, []sdl.EmitterTarget, []*os.File, error) {
	langSpecs := job.Languages
	if len(langSpecs) == 0 {
		langSpecs = []string{"c"}
	}
	var languages []sdl.Language
	var targets []sdl.EmitterTarget
	var closers []*os.File
	for i, spec := range langSpecs {
		name, outPath := spec, ""
		if idx := strings.IndexByte(spec, '='); idx >= 0 {
			name, outPath = spec[:idx], spec[idx+1:]
		}
		if outPath == "" {
			outPath = defaultOutputPath(job.Input, name)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return nil, nil, closers, sdl.NewDiagnostic(sdl.CodeOutFilOpn, sdl.SourceLoc{}, "creating %s: %v", outPath, err)
		}
		closers = append(closers, f)
		languages = append(languages, sdl.Language{Name: name, Output: outPath})
		targets = append(targets, sdl.EmitterTarget{
			Emitter: cfamily.New(cfamily.Options{SuppressPrefix: c.noPrefix, SuppressTag: c.noTag}),
			Out:     f,
			Index:   i,
		})
	}
	return languages, targets, closers, nil
}

func defaultOutputPath(input, lang string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "." + lang
}

func (c *translateCmd) writeListing(input string, src []byte, sctx *sdl.Context) error {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	f, err := os.Create(base + ".lis")
	if err != nil {
		return err
	}
	defer f.Close()
	rep := listing.New()
	rep.LoadSource(src)
	for _, e := range sctx.Diags.Errors() {
		if diag, ok := e.(*sdl.Diagnostic); ok {
			rep.Annotate(diag)
		}
	}
	rep.Flush(f)
	return nil
}

func parseSymbols(specs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(specs))
	for _, s := range specs {
		idx := strings.IndexByte(s, '=')
		if idx < 0 {
			return nil, fmt.Errorf("invalid --symbol %q: expected NAME=VALUE", s)
		}
		v, err := strconv.ParseInt(s[idx+1:], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --symbol %q: %v", s, err)
		}
		out[s[:idx]] = v
	}
	return out, nil
}
