// Package depscan extracts the header files a compilation touched from the
// two forms toolchains report them in: a GNU Makefile-fragment depfile, or
// MSVC's "Note: including file:" stdout lines.
package depscan

import (
	"os"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/errs"
)

// Result is the outcome of scanning one compile's dependency information:
// the input files the toolchain reported, and the compiler output with any
// dependency-scanning noise stripped out of it.
type Result struct {
	Inputs        []string
	CleanedOutput string
}

// ParseGNUDepfile reads and parses a Makefile-fragment depfile written
// alongside a compile's output, of the shape "out.o: a.c b.h \\\n  c.h".
// A missing depfile when GNU mode was requested is a programming bug, not a
// user error — callers should not call this unless they already confirmed
// the toolchain runs in GNU deps mode.
func ParseGNUDepfile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseGNUDepfile(string(raw)), nil
}

func parseGNUDepfile(text string) []string {
	// Line continuations end in a backslash; join them into one logical line
	// before splitting on whitespace.
	text = strings.ReplaceAll(text, "\\\n", " ")
	text = strings.ReplaceAll(text, "\\\r\n", " ")

	_, rest, found := strings.Cut(text, ":")
	if !found {
		return nil
	}

	return strings.Fields(rest)
}

// ScanMSVCOutput splits raw compiler stdout/stderr into cleaned output and
// the header paths it reported, using prefix to recognize dependency lines
// (the prefix is toolchain-configurable and may be localized). src is
// appended to the input list because MSVC never reports the source file
// itself.
func ScanMSVCOutput(raw, prefix, src string) Result {
	var inputs []string
	var kept []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if after, ok := cutPrefix(trimmed, prefix); ok {
			inputs = append(inputs, strings.TrimSpace(after))
			continue
		}
		kept = append(kept, line)
	}

	inputs = append(inputs, src)
	return Result{
		Inputs:        inputs,
		CleanedOutput: strings.TrimRight(strings.Join(kept, "\n"), "\n"),
	}
}

func cutPrefix(line, prefix string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	return trimmed[len(prefix):], true
}

// RequireGNUDepfile wraps a missing-depfile condition into the internal
// error the executor should raise: GNU deps mode implies the toolchain
// itself is supposed to guarantee the file exists.
func RequireGNUDepfile(path string, cause error) error {
	if cause == nil {
		return nil
	}
	return errs.New(errs.CompileFailure, path, "toolchain ran in GNU deps mode but produced no depfile: "+cause.Error())
}
