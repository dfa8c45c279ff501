package drive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestIsConsentRequired(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "structured reason",
			err: &googleapi.Error{
				Code:    403,
				Message: "The user must accept.",
				Errors:  []googleapi.ErrorItem{{Reason: "consentRequiredForOwnershipTransfer"}},
			},
			want: true,
		},
		{
			name: "api message only",
			err:  &googleapi.Error{Code: 403, Message: "Consent is required to transfer ownership of a file to another user."},
			want: true,
		},
		{
			name: "other api error",
			err: &googleapi.Error{
				Code:    403,
				Message: "Insufficient permissions for this file.",
				Errors:  []googleapi.ErrorItem{{Reason: "insufficientFilePermissions"}},
			},
			want: false,
		},
		{
			name: "plain error with consent text",
			err:  errors.New("googleapi: Error 403: Consent is required to transfer ownership"),
			want: true,
		},
		{
			name: "wrapped api error",
			err: fmt.Errorf("transfer: %w", &googleapi.Error{
				Code:   403,
				Errors: []googleapi.ErrorItem{{Reason: "consentRequiredForOwnershipTransfer"}},
			}),
			want: true,
		},
		{
			name: "transfer error flag",
			err:  &TransferError{FileID: "f", ConsentRequired: true, Err: errors.New("denied")},
			want: true,
		},
		{
			name: "transfer error without consent",
			err:  &TransferError{FileID: "f", Err: errors.New("Consent is required")},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConsentRequired(tt.err))
		})
	}
}

func TestTransferError(t *testing.T) {
	cause := errors.New("boom")
	err := &TransferError{FileID: "file-abc", Email: "a@example.com", Err: cause}

	assert.Equal(t, "failed to transfer ownership of file file-abc: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNewTransferRequest(t *testing.T) {
	tests := []struct {
		name    string
		fileID  string
		email   string
		want    TransferRequest
		wantErr bool
	}{
		{name: "valid", fileID: "abc", email: "a@example.com", want: TransferRequest{FileID: "abc", NewOwnerEmail: "a@example.com"}},
		{name: "trimmed", fileID: "  abc ", email: "\ta@example.com\n", want: TransferRequest{FileID: "abc", NewOwnerEmail: "a@example.com"}},
		{name: "empty file id", fileID: "", email: "a@example.com", wantErr: true},
		{name: "blank email", fileID: "abc", email: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTransferRequest(tt.fileID, tt.email)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingArgument)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
