//go:build mage

// Package main provides build targets for mmws using Mage.
//
// Usage:
//
//	mage build    Compile mmwsctl and fakemmws to bin/
//	mage test     Run all tests
//	mage cover    Run tests with a coverage profile
//	mage lint     Run golangci-lint
//	mage fake     Start a seeded fake API on 127.0.0.1:8080
//	mage clean    Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binLint   = "golangci-lint"
	binaryDir = "bin"
	coverFile = "coverage.out"
)

var commands = []string{"mmwsctl", "fakemmws"}

// Build compiles every command to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for _, name := range commands {
		if err := sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, name), "./cmd/"+name); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cover runs all tests with the race detector and writes coverage.out.
func Cover() error {
	if err := sh.RunV(binGo, "test", "-race", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverFile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Fake builds and starts a seeded fake API.
func Fake() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, "fakemmws"), "-seed", "-debug")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.Rm(coverFile)
}
