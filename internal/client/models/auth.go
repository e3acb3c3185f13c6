package models

import "encoding/json"

// AuthType names an auth variant.
type AuthType string

const (
	AuthNone   AuthType = "no-auth"
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
	AuthToken  AuthType = "token"
)

// Auth is one of NoAuth, BasicAuth, BearerAuth or TokenAuth.
type Auth interface {
	AuthType() AuthType
}

type NoAuth struct{}

type BasicAuth struct {
	Username string
	Password string
}

type BearerAuth struct {
	Token string
}

// TokenAuth sends Token verbatim in Header. An empty Header means
// Authorization.
type TokenAuth struct {
	Header string
	Token  string
}

func (NoAuth) AuthType() AuthType     { return AuthNone }
func (BasicAuth) AuthType() AuthType  { return AuthBasic }
func (BearerAuth) AuthType() AuthType { return AuthBearer }
func (TokenAuth) AuthType() AuthType  { return AuthToken }

type authJSON struct {
	Type     AuthType `json:"type"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password,omitempty"`
	Token    string   `json:"token,omitempty"`
	Header   string   `json:"header,omitempty"`
}

// DecodeAuth parses the stored auth text. Empty, malformed or unknown values
// (including the legacy "{}") decode to NoAuth.
func DecodeAuth(s string) Auth {
	var a authJSON
	if s == "" || json.Unmarshal([]byte(s), &a) != nil {
		return NoAuth{}
	}
	switch a.Type {
	case AuthBasic:
		return BasicAuth{Username: a.Username, Password: a.Password}
	case AuthBearer:
		return BearerAuth{Token: a.Token}
	case AuthToken:
		return TokenAuth{Header: a.Header, Token: a.Token}
	default:
		return NoAuth{}
	}
}

type basicJSON struct {
	Type     AuthType `json:"type"`
	Username string   `json:"username"`
	Password string   `json:"password"`
}

type bearerJSON struct {
	Type  AuthType `json:"type"`
	Token string   `json:"token"`
}

type tokenJSON struct {
	Type   AuthType `json:"type"`
	Token  string   `json:"token"`
	Header string   `json:"header,omitempty"`
}

type noAuthJSON struct {
	Type AuthType `json:"type"`
}

// EncodeAuth writes the canonical text form of a. A nil Auth is NoAuth.
// Every field of the variant is written, empty or not.
func EncodeAuth(a Auth) string {
	var j any
	switch v := a.(type) {
	case BasicAuth:
		j = basicJSON{Type: AuthBasic, Username: v.Username, Password: v.Password}
	case BearerAuth:
		j = bearerJSON{Type: AuthBearer, Token: v.Token}
	case TokenAuth:
		j = tokenJSON{Type: AuthToken, Token: v.Token, Header: v.Header}
	default:
		j = noAuthJSON{Type: AuthNone}
	}
	b, _ := json.Marshal(j)
	return string(b)
}
