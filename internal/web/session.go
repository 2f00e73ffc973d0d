package web

import (
	"context"
	"encoding/json"

	"github.com/gin-contrib/sessions"

	"roomify/internal/gotrue"
)

const (
	sessionName     = "roomify_session"
	adminSessionKey = "admin_session"
	tokensKey       = "gotrue_tokens"
)

// cookieFlag is the browser-scoped administrator flag, kept in the signed
// session cookie.
type cookieFlag struct {
	sess sessions.Session
}

func (f cookieFlag) Get(context.Context) (bool, error) {
	v, _ := f.sess.Get(adminSessionKey).(string)
	return v == "true", nil
}

func (f cookieFlag) Set(context.Context) error {
	f.sess.Set(adminSessionKey, "true")
	return f.sess.Save()
}

func (f cookieFlag) Clear(context.Context) error {
	f.sess.Delete(adminSessionKey)
	return f.sess.Save()
}

// cookieTokens keeps the GoTrue tokens as JSON in the session cookie.
type cookieTokens struct {
	sess sessions.Session
}

func (t cookieTokens) Load(context.Context) (*gotrue.Tokens, error) {
	raw, _ := t.sess.Get(tokensKey).(string)
	if raw == "" {
		return nil, nil
	}
	var tok gotrue.Tokens
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		// unreadable tokens are as good as none
		t.sess.Delete(tokensKey)
		return nil, t.sess.Save()
	}
	return &tok, nil
}

func (t cookieTokens) Save(_ context.Context, tok *gotrue.Tokens) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	t.sess.Set(tokensKey, string(b))
	return t.sess.Save()
}

func (t cookieTokens) Clear(context.Context) error {
	t.sess.Delete(tokensKey)
	return t.sess.Save()
}

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Destructive bool   `json:"destructive,omitempty"`
}

func addToast(sess sessions.Session, t Toast) {
	b, _ := json.Marshal(t)
	sess.AddFlash(string(b))
	_ = sess.Save()
}

func takeToasts(sess sessions.Session) []Toast {
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = sess.Save()
	out := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		s, ok := f.(string)
		if !ok {
			continue
		}
		var t Toast
		if json.Unmarshal([]byte(s), &t) == nil {
			out = append(out, t)
		}
	}
	return out
}
