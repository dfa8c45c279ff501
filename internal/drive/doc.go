// Package drive transfers ownership of a Google Drive file.
//
// The only operation is TransferOwnership, which issues a single
// permissions.create request making the target user the pending owner of a
// file. Google then emails the target, who must accept before ownership
// actually moves. The call is not retried and is not idempotent: running it
// twice creates or updates the pending-owner grant again.
//
// Example usage:
//
//	httpClient, err := authorizer.Authorize(ctx)
//	if err != nil {
//	    return err
//	}
//
//	client, err := drive.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	perm, err := client.TransferOwnership(ctx, "1AbCdEf", "new.owner@example.com")
//	if drive.IsConsentRequired(err) {
//	    // the target must accept access first or a workspace policy blocks it
//	}
package drive
