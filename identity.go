package chainsign

// Identity is an authenticated principal: a document submitter or an
// approver. The engine never authenticates identities itself; callers
// resolve them through an auth.Authenticator (or any trusted oracle)
// and pass them in.
type Identity string

// Nobody is the zero Identity. It is never a valid caller: submitters
// and approvers are validated to be non-zero at submission, so no real
// request can ever present it.
const Nobody Identity = ""

// IsZero reports whether the identity is the zero value.
func (i Identity) IsZero() bool { return i == Nobody }

// String returns the identity as a plain string.
func (i Identity) String() string { return string(i) }
