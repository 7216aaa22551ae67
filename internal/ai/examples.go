package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Example is one few-shot note-to-category pair prepended to categorization
// prompts. The set is static configuration data, not logic.
type Example struct {
	Prompt   string `yaml:"prompt"`
	Category string `yaml:"category"`
}

// DefaultExamples illustrate the expected answer shape for the model.
var DefaultExamples = []Example{
	{
		Prompt:   "Description: Starbuchs LTD 0817. Amount: 6.18. Note: Coffee with client at Starbucks.",
		Category: "Meals & Entertainment",
	},
	{
		Prompt:   "Description: Regis Congressional Blvd. Amount: 679.00. Note: Office rent for March.",
		Category: "Office Expenses",
	},
	{
		Prompt:   "Description: Meta Corporation Marketplace. Amount: 21.55. Note: Facebook ad campaign",
		Category: "Advertising",
	},
	{
		Prompt:   "Description: AT&T Business. Amount: 70.00. Note: Monthly office internet bill.",
		Category: "Utilities",
	},
	{
		Prompt:   "Description: Uber LTD. Amount: 50.00. Note: Ridde to airport for TikTok training.",
		Category: "Travel",
	},
}

// LoadExamples reads a few-shot example set from a YAML file. An empty path
// returns the default set.
func LoadExamples(path string) ([]Example, error) {
	if path == "" {
		return DefaultExamples, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading examples file: %w", err)
	}

	var examples []Example
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("error parsing examples file: %w", err)
	}
	if len(examples) == 0 {
		return DefaultExamples, nil
	}
	return examples, nil
}
