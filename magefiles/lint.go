//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binLint = "golangci-lint"

// lintDirs are the larder package trees.
var lintDirs = []string{"./cmd/...", "./internal/...", "./pkg/..."}

// Lint vets the larder packages, checks formatting and runs golangci-lint.
func Lint() error {
	mg.Deps(Fmt)
	if err := sh.RunV(binGo, append([]string{"vet"}, lintDirs...)...); err != nil {
		return err
	}
	return sh.RunV(binLint, append([]string{"run"}, lintDirs...)...)
}

// Fmt fails when any larder source file is not gofmt clean.
func Fmt() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "magefiles")
	if err != nil {
		return err
	}
	if files := strings.Fields(out); len(files) > 0 {
		return fmt.Errorf("gofmt needed: %s", strings.Join(files, " "))
	}
	return nil
}
