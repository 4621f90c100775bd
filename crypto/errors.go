package crypto

// ErrorKind tells the two terminal failures of the cipher and the attack apart.
type ErrorKind int

const (
	InvalidKey ErrorKind = iota + 1
	UnresolvedKeyLength
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidKey:
		return "invalid key"
	case UnresolvedKeyLength:
		return "unresolved key length"
	default:
		return "unknown error"
	}
}

// Error is returned by the cipher and the cryptanalysis packages.
type Error struct {
	Kind   ErrorKind
	Reason string
}

var (
	ErrInvalidKey          = &Error{Kind: InvalidKey}
	ErrUnresolvedKeyLength = &Error{Kind: UnresolvedKeyLength}
)

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Reason
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidKey)
// holds regardless of Reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
