package gcal

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Reason classifies a sync failure so each kind can surface its own
// actionable message.
type Reason string

const (
	ReasonUnauthorizedClient Reason = "unauthorized_client"
	ReasonAccessDenied       Reason = "access_denied"
	ReasonTokenExpired       Reason = "token_expired"
	ReasonOther              Reason = "other"
)

type SyncError struct {
	Reason Reason
	err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("google calendar sync (%s): %v", e.Reason, e.err)
}

func (e *SyncError) Unwrap() error {
	return e.err
}

// classify buckets transport and authorization failures by reason.
// Anything unrecognized lands in ReasonOther.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "access_denied":
			return &SyncError{Reason: ReasonAccessDenied, err: err}
		case "unauthorized_client", "redirect_uri_mismatch", "invalid_client":
			return &SyncError{Reason: ReasonUnauthorizedClient, err: err}
		case "invalid_grant":
			return &SyncError{Reason: ReasonTokenExpired, err: err}
		}
		return &SyncError{Reason: ReasonOther, err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401:
			return &SyncError{Reason: ReasonTokenExpired, err: err}
		case 403:
			return &SyncError{Reason: ReasonUnauthorizedClient, err: err}
		}
	}

	return &SyncError{Reason: ReasonOther, err: err}
}

// UserMessage renders a failure as the message shown on the sync
// control. A user-cancelled flow is benign and produces no message.
func UserMessage(err error) string {
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		return "Could not reach Google Calendar. Your local events are shown."
	}

	switch syncErr.Reason {
	case ReasonAccessDenied:
		return ""
	case ReasonUnauthorizedClient:
		return "This app is not authorized for your Google account. Check the calendar connection settings."
	case ReasonTokenExpired:
		return "Your Google Calendar link expired. Re-link your account to sync again."
	default:
		return "Could not reach Google Calendar. Your local events are shown."
	}
}
