// Package seed creates demo data through the regular service layer, so
// scores and comment threads end up exactly as real traffic would leave them.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes how much demo data to create.
type Plan struct {
	Users           int     `yaml:"users"`
	PostsPerUser    int     `yaml:"posts_per_user"`
	MaxVotesPerPost int     `yaml:"max_votes_per_post"`
	MaxComments     int     `yaml:"max_comments_per_post"`
	LinkRatio       float64 `yaml:"link_ratio"`
	UpvoteRatio     float64 `yaml:"upvote_ratio"`
	MaxAgeHours     int     `yaml:"max_age_hours"`
	Password        string  `yaml:"password"`
	RandomSeed      int64   `yaml:"random_seed"`
}

// DefaultPlan is used when no plan file is given.
func DefaultPlan() Plan {
	return Plan{
		Users:           25,
		PostsPerUser:    4,
		MaxVotesPerPost: 20,
		MaxComments:     12,
		LinkRatio:       0.6,
		UpvoteRatio:     0.75,
		MaxAgeHours:     72,
		Password:        "password123",
	}
}

// LoadPlan reads a YAML plan. Keys missing from the file keep their
// DefaultPlan values.
func LoadPlan(path string) (Plan, error) {
	plan := DefaultPlan()
	if path == "" {
		return plan, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("read seed plan: %w", err)
	}
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return plan, fmt.Errorf("parse seed plan %s: %w", path, err)
	}
	return plan, plan.Validate()
}

// Validate rejects plans the seeder cannot execute.
func (p Plan) Validate() error {
	switch {
	case p.Users <= 0:
		return fmt.Errorf("users must be positive")
	case p.PostsPerUser < 0 || p.MaxVotesPerPost < 0 || p.MaxComments < 0:
		return fmt.Errorf("counts must not be negative")
	case p.LinkRatio < 0 || p.LinkRatio > 1 || p.UpvoteRatio < 0 || p.UpvoteRatio > 1:
		return fmt.Errorf("ratios must be between 0 and 1")
	case p.MaxAgeHours <= 0:
		return fmt.Errorf("max_age_hours must be positive")
	case len(p.Password) < 6:
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
