package fingerprint

// Snapshot is the ambient attribute set a fingerprint is derived from.
// None of the fields identify a person; together they distinguish one
// host/session well enough to serve as a secondary manipulation signal.
type Snapshot struct {
	ScreenWidth    int
	ScreenHeight   int
	ColorDepth     int
	Timezone       string
	Language       string
	Platform       string
	UserAgent      string
	CookiesEnabled bool
	DoNotTrack     bool
}

// EnvironmentReader supplies the ambient attributes. ok is false when the
// execution environment cannot provide them; callers must treat that as
// identity unknown, never as an empty identity.
type EnvironmentReader interface {
	Snapshot() (snap Snapshot, ok bool)
}
