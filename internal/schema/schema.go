// Package schema parses dataset files and checks them against the
// structural schema in nsi.cue.
//
// Files are JSON with comments. They are checked as strict JSON once
// comments are blanked out, then handed to CUE for validation. Decode
// turns a parsed document into ordered canonical values, keeping the key
// order of the file.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/tailscale/hujson"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
)

//go:embed nsi.cue
var schemaSource string

// maxReported bounds how many CUE errors are folded into one message.
const maxReported = 5

// Error describes a parse or schema failure in one file.
type Error struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Validator compiles the embedded schema once and checks documents
// against it. It is not safe for concurrent use.
type Validator struct {
	ctx      *cue.Context
	document cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("nsi.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Document"))
	if !def.Exists() {
		return nil, fmt.Errorf("compiling schema: #Document not defined")
	}
	return &Validator{ctx: ctx, document: def}, nil
}

// Parse reads the contents of a file as JSON with comments. Comments and
// trailing commas are tolerated; anything else that is not strict JSON,
// including a key repeated within one object, is an error. path is used
// for positions in error messages only.
func (s *Validator) Parse(path string, data []byte) (cue.Value, error) {
	src, err := hujson.Parse(data)
	if err != nil {
		return cue.Value{}, &Error{File: path, Message: err.Error()}
	}
	if err := checkDuplicateKeys(src); err != nil {
		return cue.Value{}, &Error{File: path, Message: err.Error()}
	}

	// Standardize blanks out comments in place, so positions still match
	// the file.
	src.Standardize()
	expr, err := cuejson.Extract(path, src.Pack())
	if err != nil {
		return cue.Value{}, newError(path, err)
	}

	v := s.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return cue.Value{}, newError(path, err)
	}
	if v.Kind() != cue.StructKind {
		return cue.Value{}, &Error{File: path, Message: "top level must be an object"}
	}
	return v, nil
}

// checkDuplicateKeys walks v and fails on the first object that names a
// key twice.
func checkDuplicateKeys(v hujson.Value) error {
	switch val := v.Value.(type) {
	case *hujson.Object:
		seen := make(map[string]bool, len(val.Members))
		for _, m := range val.Members {
			lit, _ := m.Name.Value.(hujson.Literal)
			var name string
			if err := json.Unmarshal(lit, &name); err != nil {
				return fmt.Errorf("bad object key: %w", err)
			}
			if seen[name] {
				return fmt.Errorf("duplicate key %q", name)
			}
			seen[name] = true
			if err := checkDuplicateKeys(m.Value); err != nil {
				return fmt.Errorf("%q: %w", name, err)
			}
		}
	case *hujson.Array:
		for i, elem := range val.Elements {
			if err := checkDuplicateKeys(elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// Validate checks a parsed document against #Document.
func (s *Validator) Validate(path string, doc cue.Value) error {
	unified := s.document.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return newError(path, err)
	}
	return nil
}

// newError folds CUE errors into a single Error, positioned at the first.
func newError(path string, err error) *Error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{File: path, Message: err.Error()}
	}

	out := &Error{File: path}
	msgs := make([]string, 0, len(errs))
	for i, e := range errs {
		if i == maxReported {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-maxReported))
			break
		}
		msgs = append(msgs, e.Error())
	}
	out.Message = strings.Join(msgs, "; ")

	if positions := errors.Positions(errs[0]); len(positions) > 0 && positions[0].IsValid() {
		out.Line = positions[0].Line()
		out.Column = positions[0].Column()
	}
	return out
}

// Decode converts a concrete CUE value into a canonical value, keeping the
// field order of the source.
func Decode(v cue.Value) (canonical.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return canonical.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return canonical.Bool(b), nil
	case cue.IntKind, cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return canonical.Number(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return canonical.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := canonical.Array{}
		for i := 0; iter.Next(); i++ {
			elem, err := Decode(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := canonical.Object{}
		for iter.Next() {
			key := iter.Selector().Unquoted()
			elem, err := Decode(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%q: %w", key, err)
			}
			obj = append(obj, canonical.Member{Key: key, Value: elem})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %v at %v", v.Kind(), v.Pos())
	}
}
