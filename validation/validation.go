// Package validation provides the checks apps run against the output of an
// external tool: exit codes, output files and free text logs.
package validation

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrExitCode      = errors.New("nonzero exit code")
	ErrMissingFile   = errors.New("file missing or empty")
	ErrNotWellFormed = errors.New("not well-formed XML")
)

// CheckExitcode returns an error wrapping ErrExitCode when code is not zero.
func CheckExitcode(log *zap.Logger, code int) error {
	if code == 0 {
		log.Debug("exit code OK")
		return nil
	}
	log.Error("tool failed", zap.Int("exit_code", code))
	return fmt.Errorf("%w: %d", ErrExitCode, code)
}

// CheckFile returns an error wrapping ErrMissingFile unless path is a regular,
// non-empty file.
func CheckFile(log *zap.Logger, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("output file not accessible", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s: %s", ErrMissingFile, path, err)
	}
	if !fi.Mode().IsRegular() {
		log.Error("output is not a regular file", zap.String("path", path))
		return fmt.Errorf("%w: %s is not a regular file", ErrMissingFile, path)
	}
	if fi.Size() == 0 {
		log.Error("output file is empty", zap.String("path", path))
		return fmt.Errorf("%w: %s is empty", ErrMissingFile, path)
	}
	log.Debug("file OK", zap.String("path", path))
	return nil
}

// CheckXML runs CheckFile and then reads every token in path. Any syntax
// error (including a truncated document) fails with ErrNotWellFormed.
func CheckXML(log *zap.Logger, path string) error {
	if err := CheckFile(log, path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WellFormed(f); err != nil {
		log.Error("output is not well-formed XML", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s: %s", ErrNotWellFormed, path, err)
	}
	log.Debug("XML OK", zap.String("path", path))
	return nil
}

// WellFormed tokenizes r to EOF. The document must have exactly one root
// element, and only whitespace, comments and processing instructions may
// follow it.
func WellFormed(r io.Reader) error {
	dec := xml.NewDecoder(bufio.NewReader(r))
	dec.Strict = true
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: second root element <%s>", line, tok.Name.Local)
			}
			sawRoot = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && sawRoot && len(bytes.TrimSpace(tok)) > 0 {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: text after the root element", line)
			}
		}
	}
	if !sawRoot {
		return errors.New("no root element")
	}
	return nil
}

// FindPhrase returns the first line of text containing any of phrases.
func FindPhrase(text string, phrases ...string) (line string, found bool) {
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range phrases {
			if strings.Contains(line, phrase) {
				return strings.TrimRight(line, "\r"), true
			}
		}
	}
	return "", false
}
