package domain

// CodeIssuer produces the opaque identity codes that serve as the sole
// check-in credential. Implementations must draw from a source with at
// least 122 bits of entropy so a code is never derivable from the guest's
// name or position. Codes are never reused, even after a guest is deleted.
type CodeIssuer interface {
	Issue() string
}
