package tools

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Param describes one argument a tool accepts.
type Param struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Schema describes a capability the external runtime can execute. The host
// never runs tools itself; schemas exist so submissions can be checked
// before they spend a network exchange.
type Schema struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Params      map[string]Param `json:"params,omitempty"`
}

// Validate checks the schema is registrable.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("tool schema: name required")
	}
	for name, param := range s.Params {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tool schema %s: empty param name", s.Name)
		}
		if strings.TrimSpace(param.Type) == "" {
			return fmt.Errorf("tool schema %s: param %s missing type", s.Name, name)
		}
	}
	return nil
}

// CheckArgs verifies that every required parameter is present. Types are not
// checked; the runtime owns deep validation.
func (s Schema) CheckArgs(args map[string]any) error {
	var missing []string
	for name, param := range s.Params {
		if !param.Required {
			continue
		}
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing required params %s", ErrMissingParams, s.Name, strings.Join(sorted(missing), ", "))
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// DisplayName renders the tool name for human-facing output, turning
// "gather_wood" into "Gather Wood".
func (s Schema) DisplayName() string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(s.Name)
	return titleCaser.String(strings.TrimSpace(name))
}
