package validate

type messageKey struct {
	Field string
	Kind  string
}

// messages maps (field, kind) to the user-facing text. Kept separate from
// rule evaluation so copy changes never touch rule logic.
var messages = map[messageKey]string{
	{Field: FieldDate, Kind: KindDateInvalid}:      "Date must be a valid calendar date",
	{Field: FieldDate, Kind: KindDateInFuture}:     "Date cannot be in the future",
	{Field: FieldCount, Kind: KindCountNotInteger}: "Count must be a whole number",
	{Field: FieldCount, Kind: KindCountNegative}:   "Count cannot be negative",
}

// MessageFor returns the display text for a field/kind pair. Unknown pairs
// fall back to the kind itself so a missing table entry is visible.
func MessageFor(field, kind string) string {
	if msg, ok := messages[messageKey{Field: field, Kind: kind}]; ok {
		return msg
	}
	return kind
}
