package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// PromptData for template injection
type PromptData struct {
	VideoURL    string
	VideoID     string
	Title       string
	Style       string
	Instruction string
}

// PromptManager handles loading and processing prompt templates
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a new prompt manager.
// promptSetting overrides the structured template and may be a file path or a template string.
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// CreatePrompt builds the prompt text for a strategy
func (pm *PromptManager) CreatePrompt(strategy SummaryStrategy, data PromptData) (string, error) {
	tmplContent, err := pm.templateFor(strategy)
	if err != nil {
		return "", err
	}
	return buildPromptFromTemplate(tmplContent, data)
}

// templateFor resolves the template text: custom setting, then config dir, then embedded default
func (pm *PromptManager) templateFor(strategy SummaryStrategy) (string, error) {
	name := "prompt.txt"
	if strategy == StrategySimple {
		name = "prompt_simple.txt"
	} else {
		if pm.promptString != "" {
			return pm.promptString, nil
		}
		if pm.promptFile != "" {
			content, err := os.ReadFile(pm.promptFile)
			if err != nil {
				return "", fmt.Errorf("reading prompt template: %w", err)
			}
			return string(content), nil
		}
	}

	if pm.configDir != "" {
		path := filepath.Join(pm.configDir, name)
		if FileExists(path) {
			content, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("reading prompt template: %w", err)
			}
			return string(content), nil
		}
	}

	content, err := defaultFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading embedded prompt template: %w", err)
	}
	return string(content), nil
}

func buildPromptFromTemplate(templateContent string, data PromptData) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}

	return buf.String(), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a prompt string
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
