//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Ingest runs the ingest stage over every file in contracts/raw/.
func Ingest() error {
	mg.Deps(Build)

	entries, err := os.ReadDir("contracts/raw")
	if err != nil {
		return fmt.Errorf("reading contracts/raw: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No contracts in contracts/raw/.")
		return nil
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join("contracts/raw", e.Name())
		fmt.Printf("Ingesting %s\n", path)
		if err := run("ingest", path); err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
	}
	return nil
}

// Contracts lists the contract register.
func Contracts() error {
	mg.Deps(Build)
	return run("contracts", "list")
}

// Summary prints the register dashboard counters.
func Summary() error {
	mg.Deps(Build)
	return run("contracts", "summary")
}
