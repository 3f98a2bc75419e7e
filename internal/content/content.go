// Package content holds the read-only copy rendered by the portfolio page:
// biography, projects, skills and certifications.
package content

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes the site owner.
type Profile struct {
	Name        string   `yaml:"name"`
	Tagline     string   `yaml:"tagline"`
	Summary     string   `yaml:"summary"`
	Bio         string   `yaml:"bio"` // Markdown
	Education   InfoCard `yaml:"education"`
	CareerGoals InfoCard `yaml:"career_goals"`
}

// Cards returns the about section's cards in display order.
func (p Profile) Cards() []InfoCard {
	return []InfoCard{p.Education, p.CareerGoals}
}

// InfoCard is a small titled card in the about section.
type InfoCard struct {
	Title string   `yaml:"title"`
	Lines []string `yaml:"lines"`
}

// Project is one entry of the projects grid.
type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	GitHub       string   `yaml:"github"`
	Highlights   []string `yaml:"highlights"`
}

// SkillCategory groups related skills under an icon.
type SkillCategory struct {
	Category string   `yaml:"category"`
	Items    []string `yaml:"items"`
	Icon     string   `yaml:"icon"`
}

// Certification is one entry of the certifications grid.
type Certification struct {
	Title       string `yaml:"title"`
	Institution string `yaml:"institution"`
	Date        string `yaml:"date"`
	Achievement string `yaml:"achievement"`
}

// Link is an outbound contact link, opened in a new browsing context.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Kind  string `yaml:"kind"` // github, email, phone
}

// Contact is the closing section of the page.
type Contact struct {
	Description string `yaml:"description"`
	Links       []Link `yaml:"links"`
}

// Portfolio is everything the page renders besides the UI state.
type Portfolio struct {
	Profile        Profile         `yaml:"profile"`
	Projects       []Project       `yaml:"projects"`
	Skills         []SkillCategory `yaml:"skills"`
	Certifications []Certification `yaml:"certifications"`
	Contact        Contact         `yaml:"contact"`
	Footer         string          `yaml:"footer"`
}

// LoadFile reads a portfolio from a YAML file and validates it.
func LoadFile(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content %s: %w", path, err)
	}
	return &p, nil
}

// Load returns the content at path, or the built-in portfolio when path is
// empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Validate checks required fields and outbound link shapes. Reachability of
// links is not checked.
func (p *Portfolio) Validate() error {
	var errs []error
	if p.Profile.Name == "" {
		errs = append(errs, errors.New("profile.name is required"))
	}
	for i, pr := range p.Projects {
		if pr.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
		if pr.GitHub != "" {
			if err := checkWebURL(pr.GitHub); err != nil {
				errs = append(errs, fmt.Errorf("projects[%d].github: %w", i, err))
			}
		}
	}
	for i, s := range p.Skills {
		if s.Category == "" {
			errs = append(errs, fmt.Errorf("skills[%d]: category is required", i))
		}
	}
	for i, c := range p.Certifications {
		if c.Title == "" {
			errs = append(errs, fmt.Errorf("certifications[%d]: title is required", i))
		}
	}
	for i, l := range p.Contact.Links {
		if l.Kind == "github" || l.Kind == "" {
			if err := checkWebURL(l.URL); err != nil {
				errs = append(errs, fmt.Errorf("contact.links[%d]: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

func checkWebURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
