package commands

import (
	"fmt"

	"git.home.luguber.info/inful/htmlgen/internal/templates"
)

// TemplatesCmd lists registered templates.
type TemplatesCmd struct{}

func (TemplatesCmd) Run(global *Global, _ *CLI) error {
	for _, name := range templates.Names() {
		_, _ = fmt.Fprintln(global.out(), name)
	}
	return nil
}
