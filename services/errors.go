package services

import "errors"

var (
	ErrSurveyNotFound     = errors.New("survey not found or inactive")
	ErrDriverNotFound     = errors.New("driver not found or inactive")
	ErrAlreadySubmitted   = errors.New("a response for this driver has already been submitted")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials or not admin")
)
