// Package definition loads form definitions from YAML, TOML or JSON documents
// and turns them into formstate.Definition values.
//
//	fields:
//	  email:
//	    default: ""
//	    label: Email
//	    validators:
//	      - required
//	      - pattern: "^[^@]+@[^@]+$"
//
// Validator entries are either the string "required" or a single-key map
// naming a rule (pattern, minLength, maxLength, min, max, oneOf) and its
// parameter. YAML documents keep the field order they were written in; TOML
// and JSON documents fall back to an explicit `order` list or sorted names.
package definition
