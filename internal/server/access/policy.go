// Package access implements the file authorization policy: who may read,
// write, or publish a given file entry. The policy is a pure function over
// the requesting user (nil for anonymous) and the entry; callers load the
// entry and act on the verdict.
package access

import "github.com/dmitrijs2005/filevault/internal/server/models"

// Operation enumerates the checks the policy knows about.
type Operation int

const (
	// OpRead covers metadata and content reads.
	OpRead Operation = iota
	// OpWrite covers mutations of the entry.
	OpWrite
	// OpPublish covers toggling the entry's visibility.
	OpPublish
)

// CanAccess reports whether user may perform op on file. user == nil means
// an anonymous requester. There are no sharing or group permissions: write
// and publish belong to the owner alone, and reads additionally allow
// anyone on public entries.
func CanAccess(user *models.User, file *models.File, op Operation) bool {
	owner := user != nil && user.ID == file.UserID

	switch op {
	case OpRead:
		return file.IsPublic || owner
	case OpWrite, OpPublish:
		return owner
	default:
		return false
	}
}
