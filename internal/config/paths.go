package config

import (
	"os"
	"path/filepath"
)

// OAuth client identity. The client ID also keys the configuration
// directory, so every daemon state file lives under a directory that is
// unique to this application.
const (
	AppName   = "GDrive-Sync-v1"
	ClientID  = "601991085534.apps.googleusercontent.com"
	UserAgent = "gdrive-sync/1.0"

	// RootFeedURL is the feed listing the contents of the store's root folder.
	RootFeedURL = "https://docs.google.com/feeds/default/private/full/folder%3Aroot/contents"

	// MaxResults caps the number of entries returned per feed request.
	MaxResults = 500
)

// Fixed names of the daemon state files inside the configuration directory.
const (
	configSubdir     = ".config"
	tokenFileName    = "token.txt"
	metadataFileName = "metadata.dat"
	configFileName   = "gdrive.cfg"
	pidFileName      = "drived.pid"
	logFileName      = "drived.log"
)

// HomeDir returns the base directory for configuration state, preferring
// $XDG_CONFIG_HOME over $HOME. A missing home directory is unrecoverable.
func (c *Config) HomeDir() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return home
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	c.log.Fatal("User home directory is not defined")
	return ""
}

// Dir returns the configuration directory, creating it if necessary. A
// path of the wrong kind at this location is unrecoverable
// misconfiguration, so the process exits rather than limping on.
func (c *Config) Dir() string {
	dir := filepath.Join(c.HomeDir(), configSubdir, ClientID)
	fi, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o750); err != nil {
			c.log.Fatalf("Cannot create configuration directory %q: %v", dir, err)
		}
	case err != nil:
		c.log.Fatalf("Cannot stat configuration directory %q: %v", dir, err)
	case !fi.IsDir():
		c.log.Fatalf("Path %q exists, but is not a directory", dir)
	}
	return dir
}

func (c *Config) statePath(name string) string {
	path := filepath.Join(c.Dir(), name)
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		c.log.Fatalf("Path %q exists, but is not a file", path)
	}
	return path
}

// File returns the path to the main configuration file.
func (c *Config) File() string { return c.statePath(configFileName) }

// TokenFile returns the path to the OAuth token blob.
func (c *Config) TokenFile() string { return c.statePath(tokenFileName) }

// MetadataFile returns the path to the cached remote metadata.
func (c *Config) MetadataFile() string { return c.statePath(metadataFileName) }

// PidFile returns the path to the daemon pid file.
func (c *Config) PidFile() string { return c.statePath(pidFileName) }

// LogFile returns the path to the daemon log file.
func (c *Config) LogFile() string { return c.statePath(logFileName) }
