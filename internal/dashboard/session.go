package dashboard

// Session identifies one dashboard consumer against the collaborator API.
// It is created at login, passed explicitly to the data-access layer, and
// discarded at logout; nothing in the engine reads ambient global state.
type Session struct {
	BaseURL string
	Token   string
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
