package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the analysis pipeline
var (
	// Input errors: fatal before anything is published
	ErrTooFewDocuments   = goerr.New("at least 2 usable documents are required")
	ErrDuplicateDocument = goerr.New("duplicate document id")

	// Single-writer discipline over the published output set
	ErrRunInProgress = goerr.New("an analysis run is already in progress")

	// Query errors
	ErrNoResults        = goerr.New("no analysis results published yet")
	ErrDocumentNotFound = goerr.New("document not found in results")
)
