package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// bracePattern matches ${varname}.
var bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// MissingAction specifies how to handle missing variables.
type MissingAction int

const (
	// MissingKeep keeps the placeholder as-is. This is the default.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError returns an *UndefinedVariableError.
	MissingError
)

// UndefinedVariableError lists variables referenced but not supplied.
type UndefinedVariableError struct {
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// Expand replaces ${name} placeholders in s with values from vars.
//
// Only the brace form is recognized; a bare "$50" in a price is left alone.
func Expand(s string, vars map[string]any, missing MissingAction) (string, error) {
	if s == "" {
		return "", nil
	}

	var missingVars []string
	result := bracePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		switch missing {
		case MissingEmpty:
			return ""
		case MissingError:
			missingVars = append(missingVars, name)
			return match
		default:
			return match
		}
	})

	if len(missingVars) > 0 {
		return result, &UndefinedVariableError{Names: missingVars}
	}
	return result, nil
}
