package config

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/ini.v1"
)

func init() {
	// Write an explicit [DEFAULT] header instead of bare top-level keys.
	ini.DefaultHeader = true
}

var templateComment = strings.Join([]string{
	"# velcom CLI configuration",
	"#",
	"# Every section other than DEFAULT is a profile. Profiles fall back to",
	"# DEFAULT for keys they do not set. Select a profile with --profile or",
	"# by setting default_profile below.",
	"#",
	"# Keys read by bench-tar:",
	"#   api_url   = https://velcom.example.com/api/",
	"#   site_url  = https://velcom.example.com/",
	"#   admin_pw  = <web admin token>",
	"#   repo      = <default repository name or id>   (optional)",
	"#   timeout   = <seconds per HTTP request>         (optional)",
}, "\n")

// Template returns the default configuration document.
func Template() *ini.File {
	f := ini.Empty()
	sec := f.Section(DefaultSection)
	sec.Comment = templateComment
	// NewKey only fails for an empty key name.
	_, _ = sec.NewKey(DefaultProfileKey, DefaultSection)
	return f
}

// WriteTemplate writes the default configuration document to w.
func WriteTemplate(w io.Writer) error {
	if _, err := Template().WriteTo(w); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}
