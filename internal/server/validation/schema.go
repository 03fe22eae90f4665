// Package validation checks request bodies against JSON Schemas before they
// are decoded into transport DTOs. Failures wrap common.ErrorValidation.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names a request body shape.
type Schema string

const (
	Register      Schema = "register"
	Login         Schema = "login"
	UpdateProfile Schema = "update_profile"
	AddTask       Schema = "add_task"
	UpdateTask    Schema = "update_task"
)

const nonEmptyString = `{"type": "string", "minLength": 1}`

// Patch fields may be null, which keeps the stored value.
const (
	optionalNonEmptyString = `{"type": ["string", "null"], "minLength": 1}`
	optionalString         = `{"type": ["string", "null"]}`
	optionalBoolean        = `{"type": ["boolean", "null"]}`
)

// deadline accepts null, "", YYYY-MM-DD or an RFC 3339 timestamp. Null and
// "" both mean no value. The exact date is parsed by the service layer.
const deadline = `{"anyOf": [
	{"type": "null"},
	{"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}([Tt ].+)?$"},
	{"type": "string", "maxLength": 0}
]}`

var sources = map[Schema]string{
	Register: `{
		"type": "object",
		"required": ["name", "email", "password"],
		"properties": {
			"name": ` + nonEmptyString + `,
			"email": ` + nonEmptyString + `,
			"password": ` + nonEmptyString + `
		}
	}`,
	Login: `{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": ` + nonEmptyString + `,
			"password": ` + nonEmptyString + `
		}
	}`,
	UpdateProfile: `{
		"type": "object",
		"properties": {
			"name": ` + optionalNonEmptyString + `,
			"email": ` + optionalNonEmptyString + `,
			"university": ` + optionalString + `,
			"address": ` + optionalString + `
		}
	}`,
	AddTask: `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": ` + nonEmptyString + `,
			"description": {"type": "string"},
			"deadline": ` + deadline + `
		}
	}`,
	UpdateTask: `{
		"type": "object",
		"properties": {
			"title": ` + optionalNonEmptyString + `,
			"description": ` + optionalString + `,
			"completed": ` + optionalBoolean + `,
			"deadline": ` + deadline + `
		}
	}`,
}

var compiled = mustCompileAll()

func mustCompileAll() map[Schema]*jsonschema.Schema {
	out := make(map[Schema]*jsonschema.Schema, len(sources))
	for name, src := range sources {
		compiler := jsonschema.NewCompiler()
		url := "mem://" + string(name) + ".json"
		if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		out[name] = compiler.MustCompile(url)
	}
	return out
}

// Validate checks body against the named schema. Malformed JSON and schema
// violations are both reported as common.ErrorValidation.
func Validate(name Schema, body []byte) error {
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: malformed JSON: %s", common.ErrorValidation, err.Error())
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, describe(err))
	}
	return nil
}

// describe renders the leaf cause of a schema error as "path: message".
// Under anyOf the first branch that failed on something other than its type
// is reported, or the anyOf itself when every branch rejected the type.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	for len(ve.Causes) > 0 {
		if len(ve.Causes) > 1 && strings.HasSuffix(ve.KeywordLocation, "/anyOf") {
			next := specificCause(ve.Causes)
			if next == nil {
				break
			}
			ve = next
			continue
		}
		ve = ve.Causes[0]
	}

	path := strings.TrimPrefix(ve.InstanceLocation, "/")
	if path == "" {
		return ve.Message
	}
	return strings.ReplaceAll(path, "/", ".") + ": " + ve.Message
}

func specificCause(causes []*jsonschema.ValidationError) *jsonschema.ValidationError {
	for _, c := range causes {
		if !strings.HasSuffix(c.KeywordLocation, "/type") {
			return c
		}
	}
	return nil
}
