package trainer

// startMsg begins the session once the screen is on the stack.
type startMsg struct{}

// timerTickMsg is sent every second while a countdown runs. Gen ties the
// tick to the question it was started for.
type timerTickMsg struct {
	Gen int
}

// tutorPollMsg asks the screen to check for a finished explanation.
type tutorPollMsg struct {
	Seq int
}
