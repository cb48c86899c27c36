package journal

import "errors"

var (
	ErrImportJobNotFound = errors.New("import job not found")
	ErrImportJobFinished = errors.New("import job already finished")
)
