// Package config resolves velcom settings from a profile-based INI file.
//
// A config file consists of a DEFAULT section plus any number of named
// sections called profiles. Exactly one profile is active per invocation and
// every lookup checks the active profile first, then DEFAULT.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// DefaultSection is the section every profile falls back to.
	DefaultSection = "DEFAULT"

	// DefaultProfileKey names the profile used when none is given explicitly.
	DefaultProfileKey = "default_profile"
)

// Well-known keys.
const (
	KeyAPIURL      = "api_url"
	KeySiteURL     = "site_url"
	KeyAdminPW     = "admin_pw"
	KeyRepo        = "repo"
	KeyTimeout     = "timeout"
	KeyOpenBrowser = "open_browser"
)

// Entry is a single effective key/value pair of the active profile.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type section struct {
	keys   []string
	values map[string]string
}

func newSection() *section {
	return &section{values: map[string]string{}}
}

func (s *section) set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *section) get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Store is a loaded configuration with its active profile fixed.
// It is never modified after Load returns.
type Store struct {
	path     string
	profile  string
	order    []string
	sections map[string]*section
}

// DefaultPaths returns the locations searched when no config file is given,
// in priority order.
func DefaultPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "velcom", "velcom.conf"),
		filepath.Join(home, ".velcom.conf"),
	}
}

// DiscoverPath returns the first existing file of DefaultPaths, or "" when
// none exists.
func DiscoverPath() string {
	for _, p := range DefaultPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the config file at path and selects the active profile.
//
// With an empty path only the first existing file of DefaultPaths is read;
// when none exists the result is an empty document and lookups fail with
// MissingKeyError. An empty profile selects default_profile from DEFAULT, or
// DEFAULT itself when that key is unset.
func Load(path, profile string) (*Store, error) {
	if path == "" {
		path = DiscoverPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	s := &Store{
		path:     path,
		sections: map[string]*section{DefaultSection: newSection()},
		order:    []string{DefaultSection},
	}

	if path != "" {
		f, err := ini.LoadSources(ini.LoadOptions{
			InsensitiveKeys:         true,
			IgnoreInlineComment:     true,
			PreserveSurroundedQuote: true,
		}, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		s.merge(f)
	}

	name, err := s.resolveProfile(profile)
	if err != nil {
		return nil, err
	}
	s.profile = name

	return s, nil
}

func (s *Store) merge(f *ini.File) {
	for _, sec := range f.Sections() {
		name := sec.Name()
		target, ok := s.sections[name]
		if !ok {
			target = newSection()
			s.sections[name] = target
			s.order = append(s.order, name)
		}
		for _, k := range sec.Keys() {
			target.set(strings.ToLower(k.Name()), k.Value())
		}
	}
}

func (s *Store) resolveProfile(override string) (string, error) {
	name := override
	if name == "" {
		name, _ = s.sections[DefaultSection].get(DefaultProfileKey)
	}
	if name == "" || name == DefaultSection {
		return DefaultSection, nil
	}
	if _, ok := s.sections[name]; !ok {
		return "", &UnknownProfileError{Name: name, Path: s.path, Known: s.Profiles()}
	}
	return name, nil
}

// Path returns the file the store was read from, or "" when no file was found.
func (s *Store) Path() string {
	return s.path
}

// ProfileName returns the name of the active profile.
func (s *Store) ProfileName() string {
	return s.profile
}

// Profiles lists the named profiles in file order, excluding DEFAULT.
func (s *Store) Profiles() []string {
	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if name != DefaultSection {
			names = append(names, name)
		}
	}
	return names
}

// Entries returns the effective entries of the active profile: its own keys
// in file order followed by the DEFAULT keys it does not override.
func (s *Store) Entries() []Entry {
	defaults := s.sections[DefaultSection]
	var entries []Entry
	seen := map[string]bool{}

	if s.profile != DefaultSection {
		own := s.sections[s.profile]
		for _, k := range own.keys {
			entries = append(entries, Entry{Key: k, Value: own.values[k]})
			seen[k] = true
		}
	}
	for _, k := range defaults.keys {
		if !seen[k] {
			entries = append(entries, Entry{Key: k, Value: defaults.values[k]})
		}
	}

	return entries
}

// Lookup resolves key against the active profile, falling back to DEFAULT.
func (s *Store) Lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	if s.profile != DefaultSection {
		if v, ok := s.sections[s.profile].get(key); ok {
			return v, true
		}
	}
	return s.sections[DefaultSection].get(key)
}

// Has reports whether key resolves in the active profile.
func (s *Store) Has(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Get returns the value of key or a MissingKeyError.
func (s *Store) Get(key string) (string, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", &MissingKeyError{Profile: s.profile, Key: key}
	}
	return v, nil
}

// GetURL is like Get but guarantees the value ends with "/".
func (s *Store) GetURL(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(v, "/") {
		v += "/"
	}
	return v, nil
}

// GetInt parses the value of key as a base-10 integer.
func (s *Store) GetInt(key string) (int, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ValueError{Key: key, Value: v, Type: "int", Err: err}
	}
	return n, nil
}

// GetFloat parses the value of key as a float.
func (s *Store) GetFloat(key string) (float64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, &ValueError{Key: key, Value: v, Type: "float", Err: err}
	}
	return f, nil
}

var booleans = map[string]bool{
	"1": true, "yes": true, "true": true, "on": true,
	"0": false, "no": false, "false": false, "off": false,
}

// GetBool parses the value of key as a boolean. Accepted spellings are
// 1/yes/true/on and 0/no/false/off in any case.
func (s *Store) GetBool(key string) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := booleans[strings.ToLower(strings.TrimSpace(v))]
	if !ok {
		return false, &ValueError{Key: key, Value: v, Type: "bool", Err: fmt.Errorf("not a boolean")}
	}
	return b, nil
}
