// Package parser extracts platform IDs from what users type.
package parser

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the input does not contain a usable ID.
var ErrInvalidID = errors.New("invalid id")

// ChannelID accepts a raw channel ID, a channel mention (<#id>) or a channel deep link and returns the ID.
// For a link the trailing numeric path segment is used.
func ChannelID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "<#") && strings.HasSuffix(s, ">") {
		s = s[2 : len(s)-1]
	}

	if isSnowflake(s) {
		return s, nil
	}

	return lastSegment(s)
}

// RoleID accepts a role mention (<@&id>) or a raw role ID.
func RoleID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "<@&") && strings.HasSuffix(s, ">") {
		s = s[3 : len(s)-1]
	}

	if !isSnowflake(s) {
		return "", ErrInvalidID
	}
	return s, nil
}

func lastSegment(s string) (string, error) {
	if !strings.Contains(s, "/") {
		return "", ErrInvalidID
	}

	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")

	seg := s[strings.LastIndex(s, "/")+1:]
	if !isSnowflake(seg) {
		return "", ErrInvalidID
	}
	return seg, nil
}

func isSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
