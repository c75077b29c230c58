package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhttp "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/http"
)

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, authhttp.ParseSameSite("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, authhttp.ParseSameSite("none"))
	assert.Equal(t, http.SameSiteLaxMode, authhttp.ParseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, authhttp.ParseSameSite(""))
}

func TestCookiePolicy_SetAndClearMatch(t *testing.T) {
	policy := authhttp.NewCookiePolicy("jwt", "aidrams.example", "/", true, "none")
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	set := httptest.NewRecorder()
	policy.Set(set, "token-value", expires)
	clear := httptest.NewRecorder()
	policy.Clear(clear)

	setCookies := set.Result().Cookies()
	clearCookies := clear.Result().Cookies()
	require.Len(t, setCookies, 1)
	require.Len(t, clearCookies, 1)

	s, c := setCookies[0], clearCookies[0]
	assert.Equal(t, "token-value", s.Value)
	assert.True(t, expires.Equal(s.Expires))
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)

	for _, ck := range []*http.Cookie{s, c} {
		assert.Equal(t, "jwt", ck.Name)
		assert.Equal(t, "aidrams.example", ck.Domain)
		assert.Equal(t, "/", ck.Path)
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	}
}
