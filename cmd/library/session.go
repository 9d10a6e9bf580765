package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"librarynet/internal/auth"
)

// session is what login leaves behind so later commands know who is
// signed in without asking again.
type session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".librarynet", "session.json"), nil
}

func saveSession(s session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func loadSession() (session, error) {
	path, err := sessionPath()
	if err != nil {
		return session{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return session{}, err
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return session{}, fmt.Errorf("corrupt session file: %w", err)
	}
	return s, nil
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// currentUser resolves the signed-in user id. When JWT_SECRET is set
// the cached token's signature and expiry are checked locally.
func currentUser() (string, error) {
	s, err := loadSession()
	if err != nil {
		return "", errors.New("not signed in; run: library login <username> <password>")
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		claims, err := auth.ParseToken(secret, s.Token)
		if err != nil {
			return "", errors.New("session expired; sign in again")
		}
		return claims.Sub, nil
	}
	return s.Username, nil
}
