package location

// Render is the access-gate decision for protected content.
type Render int

const (
	// RenderProtected renders the wrapped content.
	RenderProtected Render = iota
	// RenderPrompt renders capability/permission UI for the current
	// permission status.
	RenderPrompt
	// RenderOutOfRange means permission is granted and detection has
	// completed at least once, but no studio was within the threshold.
	RenderOutOfRange
)

func (r Render) String() string {
	switch r {
	case RenderProtected:
		return "protected"
	case RenderPrompt:
		return "permission-prompt"
	case RenderOutOfRange:
		return "out-of-range"
	default:
		return "unknown"
	}
}

// Decide is the pure gate function over {bypass, controller state, checked
// at least once}. bypass short-circuits to RenderProtected regardless of
// location state; unknown permission is treated like prompt.
func Decide(bypass bool, st State, hasChecked bool) Render {
	if bypass {
		return RenderProtected
	}
	if st.Permission != PermissionGranted {
		return RenderPrompt
	}
	if hasChecked && !st.Detecting && st.Matched == nil {
		return RenderOutOfRange
	}
	return RenderProtected
}
