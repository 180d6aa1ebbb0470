package event

// Signal is a Delegate whose listeners take no arguments.
type Signal struct {
	d Delegate[struct{}]
}

// Subscribe adds fn and returns its ID, or InvalidID for a nil fn.
func (s *Signal) Subscribe(fn func()) ID {
	if fn == nil {
		return InvalidID
	}
	return s.d.Subscribe(func(struct{}) { fn() })
}

func (s *Signal) Unsubscribe(id ID) { s.d.Unsubscribe(id) }
func (s *Signal) Has(id ID) bool    { return s.d.Has(id) }
func (s *Signal) Len() int          { return s.d.Len() }
func (s *Signal) Clear()            { s.d.Clear() }
func (s *Signal) Fire()             { s.d.Fire(struct{}{}) }
