package session

// ConfirmationPrompt asks the user whether unsaved edits may be discarded.
type ConfirmationPrompt interface {
	AskDiscard() bool
}

// ConfirmFunc adapts a function to ConfirmationPrompt.
type ConfirmFunc func() bool

func (f ConfirmFunc) AskDiscard() bool { return f() }

// RequestClose tears the session down unless there are edits and the prompt
// declines. It reports whether the session is closed afterwards.
func (s *Session) RequestClose() bool {
	if s.closed {
		return true
	}
	if s.history.HasEdits() && s.prompt != nil && !s.prompt.AskDiscard() {
		s.logger.Debug("close declined")
		return false
	}
	s.close()
	return true
}

// Close tears the session down without asking.
func (s *Session) Close() {
	if !s.closed {
		s.close()
	}
}

func (s *Session) close() {
	s.machine.SetMode(s.machine.Mode())
	s.history.Reset()
	s.closed = true
	s.logger.Info("session closed", "target", s.target)
	s.changed(false)
	s.listeners = nil
}
