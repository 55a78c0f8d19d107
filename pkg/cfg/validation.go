package cfg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/envrun/envrun/internal/validation"
)

var forbiddenNameRunes = [...]rune{
	'.',
	',',
	'*',
	'#',
	'/',
}

func validateEnvName(name string) error {
	if len(name) == 0 {
		return errors.New("can not be empty")
	}

	for _, r := range forbiddenNameRunes {
		if strings.ContainsRune(name, r) {
			return fmt.Errorf("'%c' character not allowed in name", r)
		}
	}

	return validation.StrID(name)
}

func validateEnvVarAssignments(vars []string) error {
	for _, v := range vars {
		key, _, found := strings.Cut(v, "=")
		if !found {
			return fmt.Errorf("'=' missing in %q, environment variables must be defined in the format NAME=VALUE", v)
		}

		if key == "" {
			return fmt.Errorf("name missing in %q, environment variables must be defined in the format NAME=VALUE", v)
		}
	}

	return nil
}

func validatePassEnvPatterns(patterns []string) error {
	for _, pattern := range patterns {
		if pattern == "" {
			return errors.New("contains an empty pattern")
		}

		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%q is not a valid pattern", pattern)
		}
	}

	return nil
}

func validateCommands(commands [][]string) error {
	for i, command := range commands {
		if len(command) == 0 {
			return fmt.Errorf("element %d is an empty command", i)
		}

		for _, arg := range command {
			if arg == "" {
				return fmt.Errorf("element %d contains an empty argument", i)
			}
		}
	}

	return nil
}
