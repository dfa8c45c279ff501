package drive

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// consentRequiredReason is the error reason Drive reports when ownership
// cannot move until the recipient consents.
const consentRequiredReason = "consentRequiredForOwnershipTransfer"

// consentRequiredText is matched against the error message when the
// structured reason is not available.
const consentRequiredText = "Consent is required"

// ConsentRequiredMessage is shown to the operator when the transfer is
// blocked on recipient consent.
const ConsentRequiredMessage = "Consent is required to transfer ownership. Please ensure the new owner accepts the file access or check Google Workspace restrictions."

// TransferError reports a failed ownership transfer.
type TransferError struct {
	FileID          string
	Email           string
	ConsentRequired bool
	Err             error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to transfer ownership of file %s: %v", e.FileID, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsConsentRequired reports whether err means the transfer needs the new
// owner's consent. A *TransferError answers from its ConsentRequired field.
// Otherwise the googleapi error reason is checked first and the message text
// second.
func IsConsentRequired(err error) bool {
	if err == nil {
		return false
	}

	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return transferErr.ConsentRequired
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if item.Reason == consentRequiredReason {
				return true
			}
		}
		if strings.Contains(apiErr.Message, consentRequiredText) {
			return true
		}
	}

	return strings.Contains(err.Error(), consentRequiredText)
}
