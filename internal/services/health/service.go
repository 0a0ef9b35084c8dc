package health

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	Len() int
}

// Service encapsulates health-related checks.
type Service struct {
	Component     string
	ExtractorMode string
	Sessions      SessionCounter
}

// NewService constructs a new health service.
func NewService(component, extractorMode string, sessions SessionCounter) *Service {
	return &Service{Component: component, ExtractorMode: extractorMode, Sessions: sessions}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true}
	if s == nil {
		return out
	}
	if s.Component != "" {
		out["component"] = s.Component
	}
	if s.ExtractorMode != "" {
		out["extractorMode"] = s.ExtractorMode
	}
	if s.Sessions != nil {
		out["sessions"] = s.Sessions.Len()
	}
	return out
}
