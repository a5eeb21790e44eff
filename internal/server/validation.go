package server

import (
	"strings"
)

const (
	lobbyCodeLength   = 6
	maxNameLength     = 20
	maxPlayerIDLength = 64
	maxRoundsPerGame  = 10
	maxRoundSeconds   = 1800
)

func validateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errValidation("name is required")
	}
	if len(trimmed) > maxNameLength {
		return "", errValidation("name must be %d characters or fewer", maxNameLength)
	}
	if !isSafeText(trimmed) {
		return "", errValidation("name contains unsupported characters")
	}
	return trimmed, nil
}

func validatePlayerID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errValidation("player_id is required")
	}
	if len(trimmed) > maxPlayerIDLength {
		return "", errValidation("player_id must be %d characters or fewer", maxPlayerIDLength)
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return "", errValidation("player_id contains unsupported characters")
	}
	return trimmed, nil
}

// normalizeCode upper-cases lobby codes so clients can type them either way.
func normalizeCode(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if len(trimmed) != lobbyCodeLength {
		return "", errValidation("code must be %d characters", lobbyCodeLength)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.':
			continue
		default:
			return false
		}
	}
	return true
}
