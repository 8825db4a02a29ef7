// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag collects the error taxonomy and the path-prefixed logger
// used by the batch driver and the CLI: a per-file conversion failure is
// reported and skipped, never fatal, so one bad file in a directory tree
// never aborts the rest.
package diag

import (
	"fmt"
	"log"

	"github.com/jboynton/jsconvert/entry"
)

// ParseError wraps a recoverable failure encountered while packing a
// container. The parser never lets these escape Parse: a malformed
// construct degrades to whatever was built before the failure rather than
// aborting the whole document, so ParseError exists for internal
// bookkeeping and diagnostics, not as something callers catch.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RuleProcessingError describes a rule failure on specific entries. No
// code in this module constructs one: FormatCode has no error result,
// Convert returns only parse and I/O errors, and a rule that panics is not
// recovered or wrapped.
type RuleProcessingError struct {
	Rule    string
	Entries []entry.ID
	Err     error
}

func (e *RuleProcessingError) Error() string {
	return fmt.Sprintf("rule %s failed on %d entries: %v", e.Rule, len(e.Entries), e.Err)
}

func (e *RuleProcessingError) Unwrap() error { return e.Err }

// Logger wraps the stdlib log.Logger, prefixing every message with the
// file path under conversion.
type Logger struct {
	path string
	l    *log.Logger
}

// New returns a Logger that prefixes messages with path.
func New(path string, l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{path: path, l: l}
}

// Warnf logs a non-fatal diagnostic, prefixed with the logger's path.
func (d *Logger) Warnf(format string, args ...any) {
	d.l.Printf("warn: %s: %s", d.path, fmt.Sprintf(format, args...))
}

// Errorf logs a recoverable error, prefixed with the logger's path. It
// never calls os.Exit — callers decide whether an error is fatal.
func (d *Logger) Errorf(format string, args ...any) {
	d.l.Printf("error: %s: %s", d.path, fmt.Sprintf(format, args...))
}
