package domain

import (
	"dario.cat/mergo"
)

// MergeVariables layers run-supplied initial variables over the workflow's
// defaults: overrides win on key collisions, defaults fill the rest. Neither
// input map is mutated.
func MergeVariables(defaults, overrides map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(defaults)+len(overrides))

	if err := mergo.Merge(&merged, defaults); err != nil {
		return nil, Error{
			Type:    ErrorTypeInternal,
			Message: "failed to merge default variables: " + err.Error(),
		}
	}

	if err := mergo.Merge(&merged, overrides, mergo.WithOverride); err != nil {
		return nil, Error{
			Type:    ErrorTypeInternal,
			Message: "failed to merge run variables: " + err.Error(),
		}
	}

	return merged, nil
}
