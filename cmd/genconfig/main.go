// Command genconfig builds a RainyDay control file from command-line flags
// and prints it to stdout. Every form input has a flag named after its key in
// lower case; a YAML preset may supply values for flags not given.
//
// Usage:
//
//	go run ./cmd/genconfig \
//	  -mainpath /home/user/rainyday \
//	  -scenarioname madison \
//	  -rainpath '/data/stageiv/*.nc' \
//	  -pointarea watershed -watershedshp /shp/yahara.shp
//
//	go run ./cmd/genconfig -values madison.yaml -duration 72
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/rainyday-config/internal/adapter/yamlvalues"
	"github.com/couchcryptid/rainyday-config/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	form := domain.NewFormState()
	fs, preset, fieldErr := newFlagSet(form, stderr)
	if err := fs.Parse(args); err != nil {
		if *fieldErr != nil {
			return 1
		}
		return 2
	}

	if *preset != "" {
		values, err := yamlvalues.Load(*preset)
		if err != nil {
			logger.Error("load preset failed", "path", *preset, "error", err)
			return 1
		}
		if err := form.Apply(unsetOnly(fs, values)); err != nil {
			logger.Error("apply preset failed", "path", *preset, "error", err)
			return 1
		}
	}

	rec, err := domain.Build(form)
	if err != nil {
		var mfe *domain.MissingFieldsError
		if errors.As(err, &mfe) {
			fmt.Fprintf(stderr, "fields missing: %s\n", strings.Join(flagNames(mfe.Missing), ", "))
			return 1
		}
		logger.Error("build failed", "error", err)
		return 1
	}

	data, err := rec.JSON()
	if err != nil {
		logger.Error("serialize failed", "error", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

// newFlagSet binds one flag per form input to form. Values go through
// FormState.Set; the returned error slot holds the first value it rejected.
func newFlagSet(form *domain.FormState, output io.Writer) (*flag.FlagSet, *string, *error) {
	fs := flag.NewFlagSet("genconfig", flag.ContinueOnError)
	fs.SetOutput(output)
	preset := fs.String("values", "", "YAML preset of form values; explicit flags win")

	var fieldErr error
	for _, f := range domain.Schema() {
		if !f.Input() {
			continue
		}
		fs.Var(&fieldFlag{form: form, key: f.Key, err: &fieldErr}, flagName(f.Key), usageFor(f))
	}
	return fs, preset, &fieldErr
}

// fieldFlag is a flag.Value backed by one form input.
type fieldFlag struct {
	form *domain.FormState
	key  string
	err  *error
}

func (v *fieldFlag) String() string {
	if v == nil || v.form == nil {
		return ""
	}
	return fmt.Sprint(v.form.Values()[v.key])
}

func (v *fieldFlag) Set(raw string) error {
	if err := v.form.Set(v.key, raw); err != nil {
		if *v.err == nil {
			*v.err = err
		}
		return err
	}
	return nil
}

func usageFor(f domain.Field) string {
	usage := f.Label
	if f.Help != "" {
		usage = f.Help
	}
	if len(f.Options) > 0 {
		usage += " (" + strings.Join(f.Options, "|") + ")"
	}
	if f.Required {
		usage += " [required]"
	}
	return usage
}

func flagName(key string) string { return strings.ToLower(key) }

func flagNames(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "-" + flagName(k)
	}
	return out
}

// unsetOnly drops preset entries whose flag was given explicitly.
func unsetOnly(fs *flag.FlagSet, values map[string]string) map[string]string {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(values))
	for _, k := range keys {
		if !set[flagName(k)] {
			out[k] = values[k]
		}
	}
	return out
}
