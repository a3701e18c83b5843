package credentials

import (
	"fmt"
	"os"
)

// CredentialUnavailableError is returned when no credentials are stored for an
// endpoint and the process cannot ask for them.
type CredentialUnavailableError struct {
	Endpoint string
	Reason   string
}

func (e *CredentialUnavailableError) Error() string {
	return fmt.Sprintf("credentials unavailable for %s: %s", e.Endpoint, e.Reason)
}

// InsecurePermissionsError is returned in strict mode when a credential file is
// readable by users other than its owner.
type InsecurePermissionsError struct {
	Path string
	Mode os.FileMode
}

func (e *InsecurePermissionsError) Error() string {
	return fmt.Sprintf("credential file %s has permissions %#o, want 0600 or stricter", e.Path, e.Mode.Perm())
}
