package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"

	ns "github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/internal/catalog"
	"github.com/reoring/nodeskema/jsonschema"
	"github.com/reoring/nodeskema/source"
)

func main() { os.Exit(run(os.Args[1:], os.Stdout, os.Stderr)) }

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "validate":
		return validateCmd(args[1:], stdout, stderr)
	case "repair":
		return repairCmd(args[1:], stdout, stderr)
	case "schemas":
		return schemasCmd(args[1:], stdout, stderr)
	case "export":
		return exportCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "nodeskema CLI\n\nUsage:\n  nodeskema validate (-schema ID | -schema-file S) [-lang en] [-locale file.yaml] [-loose] FILE\n  nodeskema repair (-schema ID | -schema-file S) [-o out.json] FILE\n  nodeskema schemas\n  nodeskema export (-schema ID | -schema-file S)\n\nNotes:\n  - FILE may be .json, .yaml or .yml; \"-\" reads JSON from stdin.\n  - -schema-file imports a JSON Schema subset; its $defs join the catalogue.")
}

type common struct {
	schema     string
	schemaFile string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schema, "schema", "", "catalogue schema id")
	fs.StringVar(&c.schemaFile, "schema-file", "", "JSON Schema file (.json/.yaml) used instead of -schema")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
}

func (c *common) hasSchema() bool { return c.schema != "" || c.schemaFile != "" }

// setup builds registries holding the catalogue and resolves the schema.
func (c *common) setup(stderr io.Writer) (*ns.Registries, ns.Node, error) {
	level := charmlog.InfoLevel
	if c.verbose {
		level = charmlog.DebugLevel
	}
	logger := slog.New(charmlog.NewWithOptions(stderr, charmlog.Options{Prefix: "nodeskema", Level: level}))
	ns.SetDefaultLogger(logger)
	reg := ns.NewRegistries(ns.WithRegistryLogger(logger))
	if err := catalog.Register(reg); err != nil {
		return nil, nil, err
	}
	if c.schemaFile != "" {
		node, diag, err := jsonschema.ImportFile(c.schemaFile, reg.Schemas)
		if err != nil {
			return nil, nil, err
		}
		for _, w := range diag.Warnings() {
			logger.Warn("schema import", "file", c.schemaFile, "detail", w)
		}
		return reg, node, nil
	}
	if c.schema == "" {
		return reg, nil, nil
	}
	node, err := reg.Schemas.Lookup(c.schema)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("schema resolved", "id", c.schema)
	return reg, node, nil
}

func validateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	var lang, localeFile string
	var loose bool
	c.register(fs)
	fs.StringVar(&lang, "lang", "", "message language (default en)")
	fs.StringVar(&localeFile, "locale", "", "extra YAML or JSON locale file for -lang")
	fs.BoolVar(&loose, "loose", false, "repair before reporting")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !c.hasSchema() || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	reg, node, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, "%v", err)
	}
	if lang != "" {
		reg.Locales.SetLanguage(lang)
	}
	if localeFile != "" {
		if err := loadLocale(reg, reg.Locales.Language(), localeFile); err != nil {
			return fail(stderr, "locale: %v", err)
		}
	}
	file := fs.Arg(0)
	warnDuplicates(file, reg.Logger())
	data, err := source.ReadFile(file)
	if err != nil {
		return fail(stderr, "read: %v", err)
	}
	m := ns.NewDataModel(node, ns.WithInitialData(data), ns.WithRegistries(reg), ns.WithLogger(reg.Logger()))
	if !loose {
		m.Reset(data, false)
	}
	issues := m.Errors().All()
	for _, it := range issues {
		fmt.Fprintf(stdout, "%s: %s\n", it.Path.String(), it.Message(reg.Locales))
	}
	if len(issues) > 0 {
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func repairCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("repair", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	var out string
	c.register(fs)
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !c.hasSchema() || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	reg, node, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, "%v", err)
	}
	data, err := source.ReadFile(fs.Arg(0))
	if err != nil {
		return fail(stderr, "read: %v", err)
	}
	m := ns.NewDataModel(node, ns.WithInitialData(data), ns.WithRegistries(reg), ns.WithLogger(reg.Logger()))
	if out == "" || out == "-" {
		if err := source.Encode(stdout, m.Output(), source.JSON); err != nil {
			return fail(stderr, "write: %v", err)
		}
	} else if err := source.WriteFile(out, m.Output()); err != nil {
		return fail(stderr, "write: %v", err)
	}
	if n := m.Errors().Len(); n > 0 {
		reg.Logger().Warn("issues remain after repair", "count", n)
	}
	return 0
}

func schemasCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schemas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	reg, _, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, "%v", err)
	}
	fmt.Fprintln(stdout, strings.Join(reg.Schemas.IDs(), "\n"))
	return 0
}

func exportCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !c.hasSchema() {
		fs.Usage()
		return 2
	}
	_, node, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, "%v", err)
	}
	if err := source.Encode(stdout, jsonschema.Export(node), source.JSON); err != nil {
		return fail(stderr, "write: %v", err)
	}
	return 0
}

func loadLocale(reg *ns.Registries, lang, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if source.FormatOf(name) == source.YAML {
		return reg.Locales.LoadYAML(lang, f)
	}
	return reg.Locales.LoadJSON(lang, f)
}

func warnDuplicates(name string, logger *slog.Logger) {
	if name == "-" || source.FormatOf(name) != source.JSON {
		return
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return
	}
	dups, err := source.DuplicateKeys(b)
	if err != nil {
		return
	}
	for _, p := range dups {
		logger.Warn("duplicate key", "path", p.String())
	}
}

func fail(w io.Writer, format string, a ...any) int {
	fmt.Fprintf(w, format+"\n", a...)
	return 1
}
