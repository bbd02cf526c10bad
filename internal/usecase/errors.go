package usecase

import "errors"

var (
	ErrUnknownCompetition = errors.New("unknown competition")
	ErrInvalidSeason      = errors.New("invalid season")
	ErrSeasonUnsupported  = errors.New("season not supported for competition")
	ErrSourceUnavailable  = errors.New("match source unavailable")
)
