//go:build mage

// Package main provides build targets for the larder project using Mage.
//
// Usage:
//
//	mage build        Compile the larder binary to bin/
//	mage test:all     Run all tests
//	mage test:short   Run tests with -short
//	mage test:cover   Run tests with a coverage profile
//	mage lint         Vet, gofmt-check and golangci-lint the sources
//	mage fmt          Fail on files that are not gofmt clean
//	mage clean        Remove build artifacts
//	mage install      Install larder to GOPATH/bin
//	mage stats        Print Go lines of code per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "larder"
	binaryDir  = "bin"
	cmdDir     = "./cmd/larder"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the larder binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
