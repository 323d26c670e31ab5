// Package utils holds small helpers for taming LLM output: JSON salvage and
// markdown cleanup.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ExtractJSONObject slices the first '{' through the last '}' out of raw LLM
// reply text, dropping any surrounding prose or markdown fences. Returns an
// error when no object-shaped substring exists.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return raw[start : end+1], nil
}

// RepairJSON attempts to fix common JSON errors from LLM outputs: missing
// key quotes, single quotes, unclosed brackets, trailing commas, comments.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// SmartParse tries progressively more lenient strategies to decode input
// into schema: standard JSON, then repaired JSON, then Hjson.
func SmartParse(input string, schema interface{}) error {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if data, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(data, schema); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("all parsing strategies failed for LLM response")
}
