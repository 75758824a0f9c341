package analyze

// Empirical bounds for a fingertip pressed against the lens: the flash
// shining through tissue leaves the frame strongly red with little green or
// blue.
const (
	fingerRedMin   = 170
	fingerGreenMax = 100
	fingerBlueMax  = 100
)

// IsFingerPresent reports whether the channel means look like a fingertip
// covering the camera. Stateless; every frame is judged independently, so
// callers wanting temporal stability must smooth the verdicts themselves.
func IsFingerPresent(mean ChannelMean) bool {
	return mean.Green < fingerGreenMax &&
		mean.Blue < fingerBlueMax &&
		mean.Red > fingerRedMin
}
