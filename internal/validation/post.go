// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MinTitleLength   = 3
	MaxTitleLength   = 300
	MaxCommentLength = 10000
)

// ValidateTitle checks the title length in characters.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("title must be between %d and %d characters", MinTitleLength, MaxTitleLength)
	}
	return nil
}

// ValidateLinkOrBody requires a post to carry a URL, a body, or both.
func ValidateLinkOrBody(link, body *string) error {
	if link == nil && body == nil {
		return fmt.Errorf("either url or body must be provided")
	}
	return nil
}

// ValidateNewPost runs every check a post must pass on submission.
func ValidateNewPost(title string, link, body *string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateLinkOrBody(link, body); err != nil {
		return err
	}
	if link == nil && strings.TrimSpace(*body) == "" {
		return fmt.Errorf("body cannot be empty if url is not provided")
	}
	if link != nil {
		if err := ValidateHTTPURL(*link); err != nil {
			return err
		}
	}
	if ContainsProfanity(title) {
		return fmt.Errorf("title contains inappropriate language")
	}
	if body != nil && ContainsProfanity(*body) {
		return fmt.Errorf("body contains inappropriate language")
	}
	return nil
}

// ValidateHTTPURL accepts absolute http and https URLs only.
func ValidateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https")
	}
	return nil
}

// ValidateCommentBody checks a comment is non-blank and within bounds.
func ValidateCommentBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body is required")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLength)
	}
	return nil
}
