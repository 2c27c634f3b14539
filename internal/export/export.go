// Package export writes todo lists to portable JSON files and reads them
// back after validating them against an embedded JSON Schema.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"taskboard/internal/todo"
)

const schemaURL = "https://taskboard.local/schema/todos.schema.json"

//go:embed todos.schema.json
var schemaSource []byte

// ErrInvalidDocument is returned by Read for documents that do not match the
// export schema.
var ErrInvalidDocument = errors.New("invalid export document")

// SchemaError describes one schema violation. Path is a dotted location such
// as "0.priority".
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *SchemaError) Unwrap() error { return ErrInvalidDocument }

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// FileName returns the export file name for now, todos_YYYY-MM-DD.json.
func FileName(now time.Time) string {
	return "todos_" + now.Format(todo.DateLayout) + ".json"
}

// Write encodes todos as a JSON array indented with two spaces.
func Write(w io.Writer, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("encode todos: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write todos: %w", err)
	}
	return nil
}

// ToDir writes todos to FileName(now) inside dir, creating dir if needed. An
// existing file for the same day is replaced. It returns the written path.
func ToDir(dir string, todos []todo.Todo, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, todos); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// Read decodes an export document. Documents that fail the schema return an
// error matching ErrInvalidDocument.
func Read(r io.Reader) ([]todo.Todo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	s, err := schema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, schemaErrors(err)
	}

	var todos []todo.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return todos, nil
}

// ReadFile is Read on the file at path.
func ReadFile(path string) ([]todo.Todo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	var errs []error
	collectSchemaErrors(ve, &errs)
	if len(errs) == 0 {
		return &SchemaError{Message: ve.Message}
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(err *jsonschema.ValidationError, errs *[]error) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &SchemaError{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}

func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
