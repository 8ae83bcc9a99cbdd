// Package config holds the persisted daemon configuration: user settings
// from the INI store, and the derived locations of the daemon state files.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/gdrive-linux/drived/internal/guard"
	"github.com/gdrive-linux/drived/internal/utils"
)

// ErrNotImplemented is returned by mutators whose behavior has not been
// built yet. Callers get an explicit failure instead of a silent no-op.
var ErrNotImplemented = errors.New("not implemented")

// Config is the in-memory view of the persisted configuration. It is
// loaded once at daemon construction and owned by a single goroutine.
type Config struct {
	log      *log.Logger
	guard    *guard.Guard
	values   map[string]map[string]string
	excludes []string
}

func defaults() map[string]map[string]string {
	return map[string]map[string]string{
		"localstore": {"path": ""},
		"general":    {"excludes": "", "notifications": "false"},
		"logging":    {"level": "NONE"},
	}
}

// Load reads the configuration store if it exists. Otherwise it installs
// the built-in defaults and persists them immediately.
func Load(logger *log.Logger, g *guard.Guard) (*Config, error) {
	c := &Config{
		log:    logger,
		guard:  g,
		values: map[string]map[string]string{},
	}

	path := c.File()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c.log.Debug("Using default configuration...")
		c.values = defaults()
		if err := c.Save(); err != nil {
			return nil, err
		}
		return c, nil
	}

	c.log.Debug("Reading configuration...")
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse configuration %q: %w", path, err)
	}

	for _, section := range sortedSections(file) {
		c.values[section.Name()] = map[string]string{}
		keys := section.KeyStrings()
		sort.Strings(keys)
		for _, option := range keys {
			value := section.Key(option).String()
			if option == "excludes" {
				c.excludes = parseExcludes(value)
			}
			c.values[section.Name()][option] = value
			c.log.Debugf("Configuration: section=%s option=%s value=%s", section.Name(), option, value)
		}
	}
	return c, nil
}

// Save writes the current configuration to the store. Overwriting an
// existing file needs the guard's permission; a refusal is logged and
// skips the write without failing the daemon.
func (c *Config) Save() error {
	path := c.File()
	if !c.guard.CheckFile(path, false) {
		c.log.Error("Could not write configuration!")
		return nil
	}

	out := ini.Empty()
	sections := make([]string, 0, len(c.values))
	for name := range c.values {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		sec, err := out.NewSection(name)
		if err != nil {
			return fmt.Errorf("serialize section %q: %w", name, err)
		}
		options := make([]string, 0, len(c.values[name]))
		for option := range c.values[name] {
			options = append(options, option)
		}
		sort.Strings(options)
		for _, option := range options {
			value := c.values[name][option]
			if option == "excludes" {
				value = strings.Join(c.excludes, ", ")
			}
			if _, err := sec.NewKey(option, value); err != nil {
				return fmt.Errorf("serialize option %s.%s: %w", name, option, err)
			}
		}
	}

	c.log.Debug("Writing configuration...")
	if err := out.SaveTo(path); err != nil {
		return fmt.Errorf("write configuration %q: %w", path, err)
	}
	return nil
}

// LocalRoot returns the path to the root of the local storage tree, with
// a leading tilde expanded. Empty means the root has not been configured.
func (c *Config) LocalRoot() string {
	return utils.ExpandTilde(c.values["localstore"]["path"])
}

// SetLocalRoot would move the local storage tree to a new path.
//
// TODO: relocate an existing tree before updating the stored path.
func (c *Config) SetLocalRoot(path string) error {
	return fmt.Errorf("set local root: %w", ErrNotImplemented)
}

// Excludes returns the configured exclude fragments, in file order.
func (c *Config) Excludes() []string {
	out := make([]string, len(c.excludes))
	copy(out, c.excludes)
	return out
}

// SetExcludes would replace the configured exclude list.
//
// TODO: re-evaluate already-synced paths against the new exclude list.
func (c *Config) SetExcludes(excludes []string) error {
	return fmt.Errorf("set excludes: %w", ErrNotImplemented)
}

// Notifications reports whether desktop notifications are enabled.
func (c *Config) Notifications() bool {
	enabled, err := strconv.ParseBool(c.values["general"]["notifications"])
	return err == nil && enabled
}

// LogLevel returns the configured logging level. The second return value
// is false when logging is disabled, either explicitly via NONE or by an
// unrecognized level name.
func (c *Config) LogLevel() (log.Level, bool) {
	name, ok := c.values["logging"]["level"]
	if !ok {
		name = defaults()["logging"]["level"]
	}
	return ParseLevel(name)
}

// EnsureLocalRoot creates the local storage tree if it does not exist
// yet. An unset root is only warned about, so a freshly installed daemon
// can come up before the user has configured it.
func (c *Config) EnsureLocalRoot() (string, error) {
	path := c.LocalRoot()
	if path == "" {
		c.log.Warn("Local storage path is not specified!")
		return "", nil
	}
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		c.log.Debugf("Creating local storage tree at %s", path)
		if err := os.Mkdir(path, 0o755); err != nil {
			return "", fmt.Errorf("create local root: %w", err)
		}
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("stat local root: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("local path %q exists, but is not a folder", path)
	}
	return path, nil
}

func sortedSections(file *ini.File) []*ini.Section {
	var sections []*ini.Section
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Name() < sections[j].Name()
	})
	return sections
}

// parseExcludes splits a comma-separated exclude list, trimming
// whitespace and dropping empty fields.
func parseExcludes(value string) []string {
	var excludes []string
	for _, field := range strings.Split(value, ",") {
		if field = strings.TrimSpace(field); field != "" {
			excludes = append(excludes, field)
		}
	}
	return excludes
}
