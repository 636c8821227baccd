package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWeakWarning maps onto an unobtrusive notice in editors: нет в
	// панели проблем, но видно при наведении.
	SevWeakWarning Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for error diagnostics.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWeakWarning:
		return "WEAK WARNING"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
