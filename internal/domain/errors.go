package domain

import "errors"

// Sentinel errors for classifying failures across the client, the
// argument builder, and the poller. Callers wrap these so the CLI can
// handle error categories uniformly:
//
//	return fmt.Errorf("failed to fetch report status: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the appliance rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the appliance throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state conflict on the appliance, such as
	// fetching data from a report that has not finished.
	ErrConflict = errors.New("conflict")

	// ErrConfig indicates the run is missing required configuration,
	// typically the NetProfiler device.
	ErrConfig = errors.New("configuration error")

	// ErrDeviceNotFound indicates the named device is not configured or
	// could not be reached.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrUndefinedResolution indicates a resolution that is neither "auto"
	// nor one of the appliance's fixed buckets.
	ErrUndefinedResolution = errors.New("undefined resolution")

	// ErrJobFailed indicates the remote report job ended in an error state
	// or polling it failed.
	ErrJobFailed = errors.New("report job failed")
)
