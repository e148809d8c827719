package game

// Stage is shared by the game and question state machines. It is encoded as
// its ordinal on the wire (0..3).
type Stage int

const (
	StageNotStarted Stage = iota
	StageStarting
	StageStarted
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageNotStarted:
		return "not_started"
	case StageStarting:
		return "starting"
	case StageStarted:
		return "started"
	case StageFinished:
		return "finished"
	default:
		return "unknown"
	}
}
