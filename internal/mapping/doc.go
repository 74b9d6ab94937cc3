// Package mapping provides the YAML rule file format: parsing, validation,
// the transform registry, and compilation into rule.Rule values.
//
// A rule file declares the schemas rules refer to, named transform chains,
// reusable templates and the rules themselves. Each step of a body is one
// builder operation, applied in order.
//
// # File Overview
//
//	version: "1"
//	schemas:
//	  - name: Record
//	  - name: LegacyUser
//	    parent: Record
//	    fields: [name, status, password]
//	    methods:
//	      display_name: shout       # method backed by a transform
//	transforms:
//	  - name: shout
//	    chain: [trim, upcase]
//	templates:
//	  - name: audit
//	    args: [updated_by]          # stored arguments, passed after the caller's
//	    steps:
//	      - delete: $*
//	rules:
//	  - name: legacy_user
//	    source: legacy_user
//	    steps:
//	      - from_model: Record
//	      - to: full_name
//	      - from: name
//	      - to: active
//	      - from: status
//	        transform: present
//	      - to: display
//	      - through: display_name
//	      - done: true
//	      - from: password
//	      - delete: true            # discard the current field
//	      - like: audit
//	        args: [deleted_by]
//	      - otherwise: discard
//
// # Steps
//
//   - to, from: declare a field; an optional transform pairs it inline
//   - through: a source schema method name, or {transform: name}
//   - using: a template name, or {steps: [...]} for an inline body
//   - delete: a field name, or true for the current field
//   - otherwise: copy or discard
//   - like: replay a template
//   - find, destination, done, set
//   - to_model, from_model, to_source, from_source
//
// # Arguments
//
// Field names may refer to the body's arguments: "$1" is the first argument
// and "$*" (delete only) expands to every argument.
//
// # Validation
//
// Validate reports unknown templates, transforms and schemas with "did you
// mean" suggestions, and warns about fields a schema does not declare.
// Declaration order problems surface from Compile as rule_build_failed.
package mapping
