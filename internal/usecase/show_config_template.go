package usecase

import (
	"context"

	"github.com/runoshun/taskbot/internal/domain"
)

// ShowConfigTemplateInput contains the input for the ShowConfigTemplate use case.
type ShowConfigTemplateInput struct {
	Config *domain.Config
}

// ShowConfigTemplateOutput holds the rendered starter config.
type ShowConfigTemplateOutput struct {
	Template string
}

// ShowConfigTemplate renders the same starter file `config init` writes,
// for piping into a deployment's config management. Secrets set on the
// input config are not rendered.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute renders the template.
func (uc *ShowConfigTemplate) Execute(_ context.Context, in ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	if in.Config == nil {
		return nil, domain.ErrConfigNil
	}
	return &ShowConfigTemplateOutput{Template: domain.RenderConfigTemplate(in.Config)}, nil
}
