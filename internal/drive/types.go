package drive

import (
	"errors"
	"strings"
)

// Permission roles and grantee types used for ownership transfers.
const (
	RoleOwner = "owner"
	TypeUser  = "user"
)

// ErrMissingArgument is returned when the file ID or the new owner email is empty.
var ErrMissingArgument = errors.New("File ID and new owner email are required")

// TransferRequest names the file and the user who should become its owner.
type TransferRequest struct {
	// FileID is the Drive file identifier
	FileID string

	// NewOwnerEmail is the email address of the prospective owner
	NewOwnerEmail string
}

// NewTransferRequest trims both values and checks that neither is empty.
// No further validation of the file ID or email format happens here; the
// Drive API rejects values it cannot use.
func NewTransferRequest(fileID, newOwnerEmail string) (TransferRequest, error) {
	req := TransferRequest{
		FileID:        strings.TrimSpace(fileID),
		NewOwnerEmail: strings.TrimSpace(newOwnerEmail),
	}
	if req.FileID == "" || req.NewOwnerEmail == "" {
		return TransferRequest{}, ErrMissingArgument
	}
	return req, nil
}

// Permission represents access permissions for a file
type Permission struct {
	// ID is the unique identifier for the permission
	ID string `json:"id"`

	// Type is the type of grantee (user, group, domain, anyone)
	Type string `json:"type,omitempty"`

	// Role is the role granted by this permission
	Role string `json:"role,omitempty"`

	// EmailAddress is the email address of the grantee
	EmailAddress string `json:"emailAddress,omitempty"`

	// PendingOwner is set while the grantee has not yet accepted ownership
	PendingOwner bool `json:"pendingOwner,omitempty"`
}
