package store

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Profile is the signed-in user's display profile.
type Profile struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Theme is the UI color scheme preference.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session holds the per-browser state kept beside the resume list: the
// in-progress draft snapshot, profile, theme, and authentication flag.
type Session struct {
	kv KeyValue
}

// NewSession returns a Session over kv.
func NewSession(kv KeyValue) *Session {
	return &Session{kv: kv}
}

func (s *Session) getJSON(key string, out any) (bool, error) {
	data, ok, err := s.kv.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &CorruptError{Key: key, Cause: err}
	}
	return true, nil
}

func (s *Session) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(key, data)
}

// SaveDraft stores the in-progress draft snapshot.
func (s *Session) SaveDraft(d types.Draft) error {
	return s.setJSON(KeyDraft, d)
}

// LoadDraft returns the snapshot, or nil when none is stored.
func (s *Session) LoadDraft() (*types.Draft, error) {
	var d types.Draft
	ok, err := s.getJSON(KeyDraft, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// ClearDraft removes the snapshot.
func (s *Session) ClearDraft() error {
	return s.kv.Delete(KeyDraft)
}

// SaveProfile stores the user profile.
func (s *Session) SaveProfile(p Profile) error {
	return s.setJSON(KeyUserProfile, p)
}

// LoadProfile returns the stored profile, or nil.
func (s *Session) LoadProfile() (*Profile, error) {
	var p Profile
	ok, err := s.getJSON(KeyUserProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// SetTheme stores the theme preference.
func (s *Session) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return fmt.Errorf("unknown theme %q", t)
	}
	return s.setJSON(KeyTheme, t)
}

// Theme returns the stored theme, defaulting to light.
func (s *Session) Theme() (Theme, error) {
	var t Theme
	ok, err := s.getJSON(KeyTheme, &t)
	if err != nil {
		return ThemeLight, err
	}
	if !ok || (t != ThemeLight && t != ThemeDark) {
		return ThemeLight, nil
	}
	return t, nil
}

// SetAuthenticated stores the authentication flag.
func (s *Session) SetAuthenticated(v bool) error {
	return s.setJSON(KeyAuthenticated, v)
}

// Authenticated reports the stored flag; missing means false.
func (s *Session) Authenticated() (bool, error) {
	var v bool
	_, err := s.getJSON(KeyAuthenticated, &v)
	return v, err
}

// SignOut clears the authentication flag and profile.
func (s *Session) SignOut() error {
	if err := s.kv.Delete(KeyAuthenticated); err != nil {
		return err
	}
	return s.kv.Delete(KeyUserProfile)
}
