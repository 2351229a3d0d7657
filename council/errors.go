package council

import "errors"

var (
	ErrInsufficientCandidates = errors.New("not enough candidates for the requested council size")
	ErrNoPresetOverlap        = errors.New("preset has no catalog overlap")
	ErrUnknownPreset          = errors.New("unknown preset")
	ErrLastUsedUnavailable    = errors.New("last used selection is unavailable")
	ErrPresetNameRequired     = errors.New("preset name is required")
	ErrSelectionIncomplete    = errors.New("select at least 2 models and a chairman")
	ErrPresetUnavailable      = errors.New("preset models are not available in the current catalog")
	ErrPresetNotFound         = errors.New("saved preset not found")
	ErrChairmanIneligible     = errors.New("chairman does not have enough context")
	ErrNoEligibleChairman     = errors.New("no model in the catalog can chair the council")
	ErrCouncilFull            = errors.New("council is full")
	ErrUnknownEntry           = errors.New("model is not in the catalog")
	ErrInvalidExecutionMode   = errors.New("invalid execution mode")
)
