package appconf

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment is the deployment environment the server runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvironmentFromString parses the -env flag.
func EnvironmentFromString(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "development", "dev":
		return Development, nil
	case "test":
		return Test, nil
	case "production", "prod":
		return Production, nil
	default:
		return Development, fmt.Errorf("unknown environment %q", s)
	}
}

// UnmarshalYAML lets the environment be written by name in config files.
func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	env, err := EnvironmentFromString(s)
	if err != nil {
		return err
	}
	*e = env
	return nil
}
