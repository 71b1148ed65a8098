package tui

type state int

const (
	loadingState state = iota
	errorState
	segmentsState
	playerState
	combineState
)
