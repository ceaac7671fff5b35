package models

// AuthMethod selects which credential field an account record carries.
type AuthMethod string

const (
	AuthMethodHash      AuthMethod = "hash"
	AuthMethodCleartext AuthMethod = "cleartext"
)

// User is one account record in the user store document.
// Exactly one of Hash/Password is set, selected by AuthenticationMethod.
type User struct {
	Id                   string     `json:"id"`
	Active               bool       `json:"active"`
	Roles                []string   `json:"roles"`
	AuthenticationMethod AuthMethod `json:"authentication_method"`
	Authenticated        bool       `json:"authenticated"`
	Email                string     `json:"email"`
	IsAnonymous          bool       `json:"is_anonymous"`
	Hash                 string     `json:"hash,omitempty"`
	Password             string     `json:"password,omitempty"`
}

// Page is a wiki page: markdown source plus its header metadata.
type Page struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}
