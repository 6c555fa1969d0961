package terminal

// StdinIsTerminal reports whether the process's stdin is attached to a
// terminal. RuntimeContext captures this once per invocation to resolve
// the "auto" tty and "auto" -i settings.
func StdinIsTerminal() bool {
	return isatty(0)
}
