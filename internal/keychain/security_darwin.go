// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
)

// securityBackend stores secrets through the macOS security command.
type securityBackend struct {
	log *pterm.Logger
}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{log: backendLogger()}, nil
}

// run executes one security subcommand and returns trimmed stdout and raw stderr.
func (s *securityBackend) run(op securityOp, key, value string) (string, string, error) {
	cmd := exec.Command("security", securityArgs(op, key, value)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), stderr.String(), err
}

func (s *securityBackend) Set(key, value string) error {
	s.log.Debug("keychain set", s.log.Args("key", key, "length", len(value)))

	// Drop any existing item first.
	if err := s.Delete(key); err != nil {
		s.log.Debug("keychain delete before set failed", s.log.Args("key", key, "error", err.Error()))
	}

	if _, stderr, err := s.run(opAdd, key, value); err != nil {
		err = fmt.Errorf("store %q in keychain: %s: %w", key, strings.TrimSpace(stderr), err)
		s.log.Debug("keychain set failed", s.log.Args("key", key, "error", err.Error()))
		return err
	}
	return nil
}

func (s *securityBackend) Get(key string) (string, error) {
	value, stderr, err := s.run(opFind, key, "")
	if err != nil {
		if isItemNotFound(stderr) {
			s.log.Debug("keychain item missing", s.log.Args("key", key))
			return "", ErrNotFound
		}
		err = fmt.Errorf("read %q from keychain: %s: %w", key, strings.TrimSpace(stderr), err)
		s.log.Debug("keychain get failed", s.log.Args("key", key, "error", err.Error()))
		return "", err
	}
	s.log.Debug("keychain get", s.log.Args("key", key, "length", len(value)))
	return value, nil
}

func (s *securityBackend) Delete(key string) error {
	if _, stderr, err := s.run(opDelete, key, ""); err != nil && !isItemNotFound(stderr) {
		return fmt.Errorf("delete %q from keychain: %s: %w", key, strings.TrimSpace(stderr), err)
	}
	return nil
}
