package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/TravisS25/chartbuilder/editor"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const mountKeyPrefix = "mount:"

// NewSessionStore returns the cookie store sessions are kept in
//
// Keys missing from s are generated
func NewSessionStore(s SessionSetting, secure bool) *sessions.CookieStore {
	authKey := []byte(s.AuthKey)
	encryptKey := []byte(s.EncryptKey)

	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(64)
	}
	if len(encryptKey) == 0 {
		encryptKey = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(authKey, encryptKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   s.MaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return store
}

func mountKey(parent string, position int) string {
	return fmt.Sprintf("%s%s#%d", mountKeyPrefix, strings.TrimSpace(parent), position)
}

// rememberMount returns the mount placed at parent and position for
// the session of r, creating it when the session has none
//
// The session holds the creation token of the mount so its derived
// instance id stays the same across requests and server restarts
func (s *Server) rememberMount(w http.ResponseWriter, r *http.Request, parent string, position int) (editor.Mount, error) {
	session, err := s.sessions.Get(r, s.settings.Session.Name)

	if err != nil {
		// a cookie signed with other keys gives a new session
		s.log.WithError(err).Debug("discarding session")
	}

	key := mountKey(parent, position)

	if v, ok := session.Values[key].(string); ok {
		if token, err := uuid.Parse(v); err == nil {
			return editor.Mount{Parent: parent, Position: position, Created: token}, nil
		}
	}

	mount := editor.NewMount(parent, position)
	session.Values[key] = mount.Created.String()

	if err = session.Save(r, w); err != nil {
		return editor.Mount{}, errors.WithStack(err)
	}

	return mount, nil
}
