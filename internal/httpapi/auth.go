package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// sessionIssuer keeps registered users in memory and signs opaque session
// tokens. Sessions are not durable; a restart logs everyone out.
type sessionIssuer struct {
	secret []byte

	mu    sync.Mutex
	users map[string]userRecord
}

type userRecord struct {
	id       string
	password string
}

func newSessionIssuer(secret []byte) *sessionIssuer {
	return &sessionIssuer{
		secret: secret,
		users:  make(map[string]userRecord),
	}
}

// token signs the user id with HMAC-SHA256.
func (s *sessionIssuer) token(userID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(userID))
	return userID + "." + hex.EncodeToString(mac.Sum(nil))
}

// register stores a new user, reporting false when the username is taken.
func (s *sessionIssuer) register(username, password string) (userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return userRecord{}, false
	}
	u := userRecord{id: uuid.New().String(), password: password}
	s.users[username] = u
	return u, true
}

// login matches credentials in constant time, reporting false on any mismatch.
func (s *sessionIssuer) login(username, password string) (userRecord, bool) {
	s.mu.Lock()
	u, exists := s.users[username]
	s.mu.Unlock()

	if !exists {
		return userRecord{}, false
	}
	if subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) != 1 {
		return userRecord{}, false
	}
	return u, true
}

func decodeCredentials(d *jx.Decoder) (username, password string, err error) {
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "username":
			v, err := d.Str()
			username = v
			return err
		case "password":
			v, err := d.Str()
			password = v
			return err
		default:
			return d.Skip()
		}
	})
	return username, password, err
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	username, password, err := decodeCredentials(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed credentials")
		return
	}
	if username == "" || password == "" {
		respondError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	u, created := h.sessions.register(username, password)
	if !created {
		respondError(w, http.StatusConflict, "username already taken")
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("userId")
		e.Str(u.id)
		e.FieldStart("username")
		e.Str(username)
		e.FieldStart("token")
		e.Str(h.sessions.token(u.id))
		e.ObjEnd()
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	username, password, err := decodeCredentials(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed credentials")
		return
	}

	u, ok := h.sessions.login(username, password)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("userId")
		e.Str(u.id)
		e.FieldStart("username")
		e.Str(username)
		e.FieldStart("token")
		e.Str(h.sessions.token(u.id))
		e.ObjEnd()
	})
}
