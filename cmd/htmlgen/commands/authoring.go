package commands

import (
	"fmt"

	"git.home.luguber.info/inful/htmlgen/internal/authoring"
)

// MakeCmd creates an empty content file for a title.
type MakeCmd struct {
	Destination string `arg:"" help:"Directory to create the file in."`
	Title       string `required:"" help:"Title of the new item."`
	Date        bool   `help:"Prefix the file name with the current time."`
}

func (m *MakeCmd) Run(global *Global, _ *CLI) error {
	file, err := authoring.Make(authoring.MakeOptions{
		Destination: m.Destination,
		Title:       m.Title,
		Date:        m.Date,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(global.out(), "✔ saved %s\n", file)
	return nil
}

// MoveCmd renames a content file and updates its front matter.
type MoveCmd struct {
	Source      string `arg:"" help:"Content file to move."`
	Destination string `arg:"" help:"Directory to move the file into."`
	Title       string `help:"New title; also changes the slug."`
	Update      bool   `help:"Set the time prefix to now."`
	NoDate      bool   `name:"no-date" help:"Drop the time prefix."`
}

func (m *MoveCmd) Run(global *Global, _ *CLI) error {
	file, err := authoring.Move(authoring.MoveOptions{
		Source:      m.Source,
		Destination: m.Destination,
		Title:       m.Title,
		Update:      m.Update,
		NoDate:      m.NoDate,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(global.out(), "✔ saved %s\n", file)
	return nil
}
