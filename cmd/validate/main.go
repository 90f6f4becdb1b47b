// Command validate checks RainyDay control files against the layout the
// configuration form produces: the right conditional keys for the chosen
// DOMAINTYPE and POINTAREA, well-formed tagged values, and correctly typed
// numbers.
//
// Usage:
//
//	go run ./cmd/validate madison.json [more.json ...]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/rainyday-config/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: validate FILE.json [FILE.json ...]")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(flag.Args(), os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(paths []string, out io.Writer) int {
	failed := 0
	for _, path := range paths {
		if !validateFile(path, out) {
			failed++
		}
	}

	fmt.Fprintln(out)
	if failed == 0 {
		fmt.Fprintf(out, "All %d file(s) valid.\n", len(paths))
		return 0
	}
	fmt.Fprintf(out, "Validation FAILED for %d of %d file(s).\n", failed, len(paths))
	return 1
}

func validateFile(path string, out io.Writer) bool {
	fmt.Fprintf(out, "=== %s ===\n", path)

	parse := &phase{name: "Phase 1: Parse (JSON object)"}
	layout := &phase{name: "Phase 2: Layout (keys, types, tagged values)"}
	phases := []*phase{parse, layout}

	data, err := os.ReadFile(path)
	if err != nil {
		parse.errorf("read: %v", err)
	}

	var rec domain.Record
	if parse.passed() {
		rec, err = domain.DecodeRecord(data)
		if err != nil {
			parse.errorf("%v", err)
		}
	}

	if parse.passed() {
		for _, problem := range domain.CheckRecord(rec) {
			layout.errorf("%s", problem)
		}
	} else {
		layout.errorf("skipped: file did not parse")
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-46s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}
