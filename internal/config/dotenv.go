package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	userConfigDir = ".config/logid"
	envFileName   = ".env"
)

// DotEnvPaths returns the .env locations in search order: next to the
// executable, then ~/.config/logid/.env.
func DotEnvPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), envFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, userConfigDir, envFileName))
	}
	return paths
}

// UserConfigDir returns ~/.config/logid, or "" if the home directory is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, userConfigDir)
}

// LoadDotEnv loads the first existing file from paths into the process
// environment. Variables already set are never overridden. It returns the
// path that was loaded, or "" if none of the files exist.
func LoadDotEnv(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", err
		}
		return p, nil
	}
	return "", nil
}
