package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id")

// NormalizeID reduces any user or document reference to the canonical lowercase UUID string.
// Older rows and clients hand us raw strings in any case, braces or urn form, resolved profiles, or uuid values.
func NormalizeID(ref interface{}) (string, error) {
	switch v := ref.(type) {
	case nil:
		return "", ErrInvalidID
	case uuid.UUID:
		if v == uuid.Nil {
			return "", ErrInvalidID
		}
		return v.String(), nil
	case *uuid.UUID:
		if v == nil {
			return "", ErrInvalidID
		}
		return NormalizeID(*v)
	case string:
		return normalizeIDString(v)
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return "", ErrInvalidID
			}
			return NormalizeID(id)
		}
		return normalizeIDString(string(v))
	case models.ParticipantProfile:
		return normalizeIDString(v.ID)
	case *models.ParticipantProfile:
		if v == nil {
			return "", ErrInvalidID
		}
		return normalizeIDString(v.ID)
	case fmt.Stringer:
		return normalizeIDString(v.String())
	default:
		return "", ErrInvalidID
	}
}

// MustNormalizeID is NormalizeID for values already known to be valid (uuid.UUID from the token).
func MustNormalizeID(ref interface{}) string {
	id, err := NormalizeID(ref)
	if err != nil {
		panic(err)
	}
	return id
}

// SameID compares two references regardless of their representation.
func SameID(a, b interface{}) bool {
	x, err := NormalizeID(a)
	if err != nil {
		return false
	}
	y, err := NormalizeID(b)
	if err != nil {
		return false
	}
	return x == y
}

// NormalizeIDs canonicalizes and de-duplicates a reference list, keeping first-seen order.
func NormalizeIDs(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		id, err := NormalizeID(r)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func normalizeIDString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidID
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}
