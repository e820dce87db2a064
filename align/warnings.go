package align

// Warning is a non-fatal advisory the core returns alongside a result. The
// core never logs; every advisory is a returned value the caller may choose
// to surface.
type Warning struct {
	Kind    string
	Message string
}

const WarningKindNarrowWindow = "narrow-window"

func narrowWindowWarning(windowDuration, sourceDurationSeconds float64) Warning {
	return Warning{
		Kind:    WarningKindNarrowWindow,
		Message: "window duration is narrower than 20% of source duration; alignment quality may suffer",
	}
}
