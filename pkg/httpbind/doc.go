// Package httpbind feeds HTTP form posts into a formstate.Form. Every posted
// field is sanitised, parsed into the field's value type and dispatched as a
// change followed by a blur, the same sequence a browser produces when a user
// edits and leaves an input.
package httpbind
