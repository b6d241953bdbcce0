package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/promptgen-api/internal/domain"
)

//go:embed templates/instruction.tmpl
var instructionTemplateText string

var instructionTemplate = template.Must(template.New("instruction").Parse(instructionTemplateText))

// instructionData represents the data passed to the instruction template
type instructionData struct {
	RoleInstruction string
	Category        string
	Topic           string
	Example         string
}

// Compose builds the instruction sent to the model for topic in
// normalizedCategory. The topic is embedded verbatim.
func Compose(topic, normalizedCategory string, profile domain.CategoryProfile) (string, error) {
	data := instructionData{
		RoleInstruction: profile.RoleInstruction,
		Category:        normalizedCategory,
		Topic:           topic,
		Example:         profile.ExampleDocument,
	}

	var buf bytes.Buffer
	if err := instructionTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instruction template: %w", err)
	}

	return buf.String(), nil
}
