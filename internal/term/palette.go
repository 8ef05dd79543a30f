package term

// Trace colors a step-timing label the way internal/trace.Tracker.StepNext
// prints it: purple when the terminal supports it, plain otherwise.
func (v Level) Trace(s string) string {
	switch v {
	case Level16M:
		return "\x1b[38;2;112;40;228m" + s + "\x1b[0m"
	case Level256:
		return "\x1b[35m" + s + "\x1b[0m"
	default:
		return s
	}
}

// Fatal colors a diagnostic the CLI prints to stderr after the TUI has
// torn down (open failures, differ errors, apply failures).
func (v Level) Fatal(s string) string {
	switch v {
	case Level16M:
		return "\x1b[38;2;244;59;71m" + s + "\x1b[0m"
	case Level256:
		return "\x1b[31m" + s + "\x1b[0m"
	default:
		return s
	}
}

// Done colors the apply stage's per-direction completion line.
func (v Level) Done(s string) string {
	switch v {
	case Level16M:
		return "\x1b[38;2;67;233;123m" + s + "\x1b[0m"
	case Level256:
		return "\x1b[32m" + s + "\x1b[0m"
	default:
		return s
	}
}
