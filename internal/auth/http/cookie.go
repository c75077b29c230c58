package http

import (
	"net/http"
	"strings"
	"time"
)

// CookiePolicy describes the session cookie. The same policy is used to set
// and to clear it, otherwise browsers treat them as different cookies.
type CookiePolicy struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func NewCookiePolicy(name, domain, path string, secure bool, sameSite string) CookiePolicy {
	return CookiePolicy{
		Name:     name,
		Domain:   domain,
		Path:     path,
		Secure:   secure,
		SameSite: ParseSameSite(sameSite),
	}
}

func ParseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (p CookiePolicy) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, p.cookie(token, expiresAt, 0))
}

func (p CookiePolicy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, p.cookie("", time.Unix(0, 0), -1))
}

func (p CookiePolicy) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    value,
		Domain:   p.Domain,
		Path:     p.Path,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
