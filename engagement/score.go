// Package engagement derives a per-frame engagement score from the
// gaze classifier's output.
package engagement

// GazeState is the categorical gaze classification for one frame.
type GazeState int

const (
	GazeCenter GazeState = iota
	GazeLeft
	GazeRight
	GazeBlinking
)

// Status returns the human-readable gaze status shown to the client.
func (s GazeState) Status() string {
	switch s {
	case GazeLeft:
		return "Looking left"
	case GazeRight:
		return "Looking right"
	case GazeBlinking:
		return "Blinking"
	default:
		return "Looking center"
	}
}

const (
	baseScore        = 100
	blinkPenalty     = 30
	lookAwayPenalty  = 20
	RemarkAttentive  = "Actively participating"
	RemarkDistracted = "Student is distracted"
	RemarkSleeping   = "Student appears to be sleeping"
)

// Score maps a gaze state to an engagement score and remark. Blinking
// takes priority over looking away; anything else counts as attentive.
func Score(state GazeState) (int, string) {
	switch {
	case state == GazeBlinking:
		return baseScore - blinkPenalty, RemarkSleeping
	case state == GazeLeft || state == GazeRight:
		return baseScore - lookAwayPenalty, RemarkDistracted
	default:
		return baseScore, RemarkAttentive
	}
}
