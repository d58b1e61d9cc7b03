// Package authtest is an in-memory recreation of the zarbitrage admin
// authentication HTTP contract. It exists so client behavior — including
// rejection bodies, cookie handling, and both token formats — can be
// tested against the documented endpoints without a production server.
package authtest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// SessionCookie is the cookie carrying the session correlation id.
const SessionCookie = "zarb_session"

// User is an account known to the fixture.
type User struct {
	ID       int
	Username string
	Password string
	IsAdmin  bool
}

type session struct {
	userID        int
	authenticated bool
}

// Server holds the fixture state behind a gin engine.
type Server struct {
	// TokenValidity is the window granted to issued enhanced tokens.
	TokenValidity time.Duration

	engine *gin.Engine

	mu       sync.Mutex
	users    map[string]User
	sessions map[string]*session
	revoked  map[string]bool
}

// New creates a fixture serving the given accounts.
func New(users ...User) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		TokenValidity: 24 * time.Hour,
		users:         make(map[string]User),
		sessions:      make(map[string]*session),
		revoked:       make(map[string]bool),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}

	engine := gin.New()

	auth := engine.Group("/auth")
	{
		auth.POST("/admin-token", s.handleIssue)
		auth.GET("/verify-admin-token", s.handleVerify)
		auth.GET("/debug", s.handleDebug)
		auth.GET("/user", s.handleUser)
		auth.POST("/logout", s.handleLogout)
	}

	admin := engine.Group("/admin")
	admin.Use(s.requireEitherMode())
	{
		admin.GET("/users", s.handleAdminUsers)
	}

	s.engine = engine
	return s
}

// Handler exposes the fixture for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RevokeToken makes the server refuse the given raw token from now on,
// regardless of its embedded expiry.
func (s *Server) RevokeToken(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[raw] = true
}

// InvalidateSessions marks every session unauthenticated, simulating
// server-side session expiry or garbage collection while issued tokens
// stay valid.
func (s *Server) InvalidateSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.authenticated = false
	}
}

func (s *Server) handleIssue(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[req.Username]
	if !ok || user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid username or password"})
		return
	}

	sid := uuid.New().String()
	s.sessions[sid] = &session{userID: user.ID, authenticated: true}
	c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)

	now := time.Now()
	token := codec.EncodeEnhanced(user.ID, now, now.Add(s.TokenValidity), uuid.New().String())

	c.JSON(http.StatusOK, gin.H{
		"adminToken":           token,
		"user":                 principal(user),
		"sessionId":            sid,
		"sessionAuthenticated": true,
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, reason := s.resolveToken(raw)
	if reason != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": principal(user)})
}

func (s *Server) handleDebug(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := core.SessionState{}
	if sid, err := c.Cookie(SessionCookie); err == nil {
		state.SessionID = sid
		if sess, ok := s.sessions[sid]; ok && sess.authenticated {
			state.IsAuthenticated = true
			if user, ok := s.userByID(sess.userID); ok {
				p := principal(user)
				state.Principal = &p
			}
		}
	}

	c.JSON(http.StatusOK, state)
}

func (s *Server) handleUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.sessionUser(c); ok {
		c.JSON(http.StatusOK, principal(user))
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "no active session"})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sid, err := c.Cookie(SessionCookie); err == nil {
		delete(s.sessions, sid)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// requireEitherMode admits a request carrying either a valid bearer token
// or an authenticated session cookie. The server, not the client, decides
// precedence between the two.
func (s *Server) requireEitherMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.admitted(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Principal, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, principal(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) admitted(c *gin.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := bearerToken(c); ok {
		if _, reason := s.resolveToken(raw); reason == "" {
			return true
		}
	}
	_, ok := s.sessionUser(c)
	return ok
}

// resolveToken maps a raw token to its user, or to the rejection reason the
// contract specifies. Callers must hold s.mu.
func (s *Server) resolveToken(raw string) (User, string) {
	if s.revoked[raw] {
		return User{}, "not found"
	}

	cred := codec.Decode(raw)
	if cred.Format == core.FormatMalformed {
		return User{}, "malformed token"
	}
	if codec.IsExpired(cred, time.Now()) {
		return User{}, "expired"
	}

	user, ok := s.userByID(cred.SubjectID)
	if !ok {
		return User{}, "not found"
	}
	return user, ""
}

func (s *Server) sessionUser(c *gin.Context) (User, bool) {
	sid, err := c.Cookie(SessionCookie)
	if err != nil {
		return User{}, false
	}
	sess, ok := s.sessions[sid]
	if !ok || !sess.authenticated {
		return User{}, false
	}
	return s.userByID(sess.userID)
}

func (s *Server) userByID(id int) (User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func principal(u User) core.Principal {
	return core.Principal{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}
