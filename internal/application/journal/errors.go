package journal

import "errors"

var (
	ErrEmptyUpload       = errors.New("uploaded file is empty")
	ErrMissingFilename   = errors.New("missing filename")
	ErrInvalidOwner      = errors.New("invalid owner")
	ErrEnqueueImportJob  = errors.New("failed to enqueue import job")
	ErrImportJobNotFound = errors.New("import job not found")
	ErrGetImportJob      = errors.New("failed to get import job")
)
