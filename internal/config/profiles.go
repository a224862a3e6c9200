package config

import (
	"fmt"
	"sort"
)

// ProfileEntry pairs a profile name with its data, used for sorted listing.
type ProfileEntry struct {
	Name string
	Profile
}

// SetProfile adds or replaces a named profile. The first profile saved
// becomes the default.
func SetProfile(cfg *Config, name string, p Profile) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", name, err)
	}

	if len(cfg.Profiles) == 0 {
		cfg.DefaultProfile = name
	}
	cfg.Profiles[name] = p
	return nil
}

// RemoveProfile removes a named profile. Returns an error if not found.
// Removing the default profile resets the default to DefaultProfileName.
func RemoveProfile(cfg *Config, name string) error {
	if _, exists := cfg.Profiles[name]; !exists {
		return fmt.Errorf("profile %q not found", name)
	}

	delete(cfg.Profiles, name)
	if cfg.DefaultProfile == name {
		cfg.DefaultProfile = DefaultProfileName
	}
	return nil
}

// GetProfile retrieves a profile by name; an empty name selects the default
// profile. Returns an error if not found.
func GetProfile(cfg *Config, name string) (string, Profile, error) {
	if name == "" {
		name = cfg.DefaultProfile
	}
	p, exists := cfg.Profiles[name]
	if !exists {
		return name, Profile{}, fmt.Errorf("profile %q not found, run 'tabrotate configure'", name)
	}
	return name, p, nil
}

// ListProfiles returns all profiles sorted alphabetically by name.
func ListProfiles(cfg *Config) []ProfileEntry {
	entries := make([]ProfileEntry, 0, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		entries = append(entries, ProfileEntry{Name: name, Profile: p})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
