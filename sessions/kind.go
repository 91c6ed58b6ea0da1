package sessions

// Kind describes one principal kind that can own sessions. Each kind has its
// own session table, token namespace and cookie.
type Kind struct {
	Name           string
	CookieName     string
	SessionTable   string
	PrincipalTable string
}

var (
	ClubKind = Kind{
		Name:           "club",
		CookieName:     "CLUB_SESSION",
		SessionTable:   "club_sessions",
		PrincipalTable: "clubs",
	}
	UserKind = Kind{
		Name:           "user",
		CookieName:     "USER_SESSION",
		SessionTable:   "user_sessions",
		PrincipalTable: "users",
	}
)

// WithCookie returns a copy of k that reads and writes the named cookie.
// An empty name keeps the default.
func (k Kind) WithCookie(name string) Kind {
	if name != "" {
		k.CookieName = name
	}
	return k
}
