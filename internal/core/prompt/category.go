// Package prompt classifies terminal lines that look like interactive
// prompts waiting on a keystroke.
package prompt

// Category tags the kind of input a detected prompt is waiting for.
type Category string

const (
	CategoryConfirmation  Category = "confirmation"  // y/n, proceed/continue, overwrite
	CategoryAuthorization Category = "authorization" // allow/deny/permit/reject
	CategoryContinuation  Category = "continuation"  // press enter to continue
	CategoryToolApproval  Category = "tool-approval" // agent tool approval dialog
	CategoryCredential    Category = "credential"    // password/passphrase
	CategoryUnknown       Category = "unknown"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryConfirmation,
	CategoryAuthorization,
	CategoryContinuation,
	CategoryToolApproval,
	CategoryCredential,
	CategoryUnknown,
}

// ParseCategory maps a category name to a Category. Empty or unrecognised
// names map to CategoryUnknown; ok reports whether the name was recognised.
func ParseCategory(s string) (c Category, ok bool) {
	for _, known := range Categories {
		if string(known) == s {
			return known, true
		}
	}
	return CategoryUnknown, false
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
