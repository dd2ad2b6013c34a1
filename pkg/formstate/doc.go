// Package formstate tracks per-field form state (value, valid/invalid,
// pristine/dirty, untouched/touched) and folds it into an aggregate form
// status.
//
// The core is a pure reducer: Reduce takes an immutable FieldsState snapshot
// and one of the closed Action variants (Change, Blur, Submit, Reset) and
// returns the next snapshot. Form wraps the reducer around a Host, the
// "current snapshot + apply transition" capability a UI framework provides,
// and exposes the derived views (Data, State) plus per-field Bindings that
// rendered controls attach to.
//
// Validators are a closed variant type as well: RequiredValidator,
// PatternValidator and PredicateValidator. All validators configured on a
// field must pass for the field to be valid; they must be pure because every
// validator runs on each evaluation. A validator that panics marks the field
// invalid and the recovered failure is kept on FieldState.Err.
package formstate
