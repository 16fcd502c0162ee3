// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/pkg/codec"
	"github.com/confval/confval/pkg/confval"
)

// stdinName is the pseudo-filename selecting standard input.
const stdinName = "-"

// resolveFormat determines a document's format from an explicit flag value
// or, failing that, the file extension. Stdin has no extension, so it
// defaults to JSON unless --format says otherwise.
func resolveFormat(flagValue, file string) (codec.Format, error) {
	if flagValue != "" {
		f, err := codec.ParseFormat(flagValue)
		if err != nil {
			return 0, newServiceError(err, issue.UnknownFormatId, "")
		}
		return f, nil
	}

	if file == stdinName {
		return codec.FormatJSON, nil
	}

	f, ok := codec.DetectFormat(file)
	if !ok {
		return 0, newServiceError(
			fmt.Errorf("cannot detect the format of %q from its extension", file),
			issue.UnknownFormatId, "")
	}
	return f, nil
}

// readDocument loads and parses a document from a file or stdin.
func readDocument(app *App, file string, format codec.Format) (confval.Value, error) {
	var (
		data []byte
		name string
		err  error
	)

	if file == stdinName {
		name = "<stdin>"
		data, err = io.ReadAll(app.stdin)
		if err != nil {
			return confval.Value{}, fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		name = file
		data, err = os.ReadFile(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return confval.Value{}, newServiceError(err, issue.FileNotFoundId, "")
			}
			return confval.Value{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	doc, err := codec.Decode(data, format, codec.WithFilename(name))
	if err != nil {
		return confval.Value{}, newServiceError(err, issue.ParseFailedId, "")
	}
	return doc, nil
}

// renderValue encodes a value for terminal output. Raw mode prints scalars
// bare (strings without quotes) for shell scripting; containers fall back to
// compact JSON so raw output stays parseable.
func renderValue(v confval.Value, raw bool, f codec.Format, indent int) ([]byte, error) {
	if raw {
		switch v.Kind() {
		case confval.KindString:
			s, _ := v.AsString()
			return []byte(s + "\n"), nil
		case confval.KindArray, confval.KindDict:
			f = codec.FormatJSON
			indent = 0
		default:
			return []byte(v.String() + "\n"), nil
		}
	}

	out, err := codec.Encode(v, f, codec.WithIndent(indent))
	if err != nil {
		return nil, newServiceError(err, issue.EncodeFailedId, "")
	}
	return out, nil
}

// writeFileAtomic replaces path with data by staging a temporary file in the
// same directory and renaming it into place, preserving the original file
// mode. Readers never observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpName, mode)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, writeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
