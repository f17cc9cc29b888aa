package awsprofile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/de-tools/blocks/pkg/apperrors"
	"gopkg.in/ini.v1"
)

const defaultProfile = "default"

type Profile struct {
	Name           string
	Region         string
	RoleARN        string
	SourceProfile  string
	HasCredentials bool
	SSO            bool
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, name string) (Profile, error)
}

type cfgRegistry struct {
	config      *ini.File
	credentials *ini.File
}

// DefaultPaths returns the shared config and credentials files the AWS SDK
// reads, honouring AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE.
func DefaultPaths() (string, string) {
	home, _ := os.UserHomeDir()
	configPath := os.Getenv("AWS_CONFIG_FILE")
	if configPath == "" {
		configPath = filepath.Join(home, ".aws", "config")
	}
	credentialsPath := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(home, ".aws", "credentials")
	}
	return configPath, credentialsPath
}

// NewRegistry loads both files. Missing files are treated as empty.
func NewRegistry(configPath, credentialsPath string) (Registry, error) {
	cfg, err := ini.LooseLoad(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config %s: %w", configPath, err)
	}
	creds, err := ini.LooseLoad(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws credentials %s: %w", credentialsPath, err)
	}
	return &cfgRegistry{config: cfg, credentials: creds}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]Profile, error) {
	names := make(map[string]struct{})
	for _, section := range cr.config.Sections() {
		if name, ok := configProfileName(section.Name()); ok && len(section.Keys()) > 0 {
			names[name] = struct{}{}
		}
	}
	for _, section := range cr.credentials.Sections() {
		if section.Name() != ini.DefaultSection && len(section.Keys()) > 0 {
			names[section.Name()] = struct{}{}
		}
	}

	profiles := make([]Profile, 0, len(names))
	for name := range names {
		profiles = append(profiles, cr.profile(name))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (Profile, error) {
	_, inConfig := cr.configSection(name)
	_, credErr := cr.credentials.GetSection(name)
	if !inConfig && credErr != nil {
		return Profile{}, apperrors.NotFound(fmt.Sprintf("aws profile %q", name))
	}
	return cr.profile(name), nil
}

func (cr *cfgRegistry) profile(name string) Profile {
	p := Profile{Name: name}
	if section, ok := cr.configSection(name); ok {
		p.Region = section.Key("region").String()
		p.RoleARN = section.Key("role_arn").String()
		p.SourceProfile = section.Key("source_profile").String()
		p.SSO = section.HasKey("sso_start_url") || section.HasKey("sso_session")
		p.HasCredentials = section.HasKey("aws_access_key_id") || section.HasKey("credential_process")
	}
	if section, err := cr.credentials.GetSection(name); err == nil {
		if section.HasKey("aws_access_key_id") {
			p.HasCredentials = true
		}
		if p.Region == "" {
			p.Region = section.Key("region").String()
		}
	}
	return p
}

func (cr *cfgRegistry) configSection(name string) (*ini.Section, bool) {
	sectionName := "profile " + name
	if name == defaultProfile {
		sectionName = defaultProfile
	}
	section, err := cr.config.GetSection(sectionName)
	if err != nil {
		return nil, false
	}
	return section, true
}

// configProfileName maps a config file section to its profile name. Sections
// such as [sso-session x] or [services y] are not profiles.
func configProfileName(section string) (string, bool) {
	if section == defaultProfile {
		return defaultProfile, true
	}
	if name, ok := strings.CutPrefix(section, "profile "); ok {
		name = strings.TrimSpace(name)
		return name, name != ""
	}
	return "", false
}
