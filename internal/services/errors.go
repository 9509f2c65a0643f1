// Package services defines the business logic of the coaching-suggestion
// pipeline: batch generation, queries, transitions, streaming delivery,
// engagement metrics, and cleanup. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrSuggestionNotFound indicates that the requested suggestion does not
	// exist or is not accessible to the current user.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrEmptyBatch is returned when a generation request carries no
	// composed suggestions.
	ErrEmptyBatch = errors.New("batch is empty")

	// ErrBatchTooLarge is returned when a generation request exceeds the
	// configured maximum batch size.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrBlankMessage is returned when a composed suggestion carries an
	// empty message payload.
	ErrBlankMessage = errors.New("suggestion message is blank")

	// ErrInvalidTrigger is returned when the trigger type is not one of the
	// known evaluation kinds.
	ErrInvalidTrigger = errors.New("unknown trigger type")

	// ErrBatchExists is returned when the user already received a batch for
	// this trigger since local midnight. Generating again the same day would
	// duplicate the feed.
	ErrBatchExists = errors.New("batch already generated today")

	// ErrMissingUser is returned when an operation is invoked without a
	// resolved user identity.
	ErrMissingUser = errors.New("user id required")
)
