package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/tui"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newDocsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Upload, edit and delete documents",
		Long: `Manage documents of your personal library, or of the general library with
--general (admins and super admins).`,
	}

	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file",
		Example: `  biblio docs upload rapport.pdf
  biblio docs upload --general --title "Code civil" --language fr --tag 3 code-civil.pdf`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runUpload(cmd, args[0])
		},
	}
	upload.Flags().String("title", "", "document title (default: file name without extension)")
	upload.Flags().String("language", "", "document language (default: "+views.DefaultLanguage+")")
	upload.Flags().Int("tag", 0, "tag id")

	edit := &cobra.Command{
		Use:         "edit <id>",
		Short:       "Change a document's title, language or tag",
		Example:     `  biblio docs edit 42 --title "Rapport annuel" --clear-tag`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runEdit(cmd, args[0])
		},
	}
	edit.Flags().String("title", "", "new title")
	edit.Flags().String("language", "", "new language")
	edit.Flags().Int("tag", 0, "new tag id")
	edit.Flags().Bool("clear-tag", false, "remove the tag")
	edit.MarkFlagsMutuallyExclusive("tag", "clear-tag")

	del := &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete a document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runDelete(cmd, args[0])
		},
	}
	addYesFlag(del)

	for _, c := range []*cobra.Command{upload, edit, del} {
		c.Flags().Bool("general", false, "act on the general library")
		cmd.AddCommand(c)
	}

	return cmd
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

// library enforces the route of the library selected by --general and returns its view
func (e *environment) library(cmd *cobra.Command) (*views.Library, error) {
	general, _ := cmd.Flags().GetBool("general")

	path := router.PathMyLibrary
	if general {
		path = router.PathGeneralLibrary
	}
	if err := e.enforce(cmd, path); err != nil {
		return nil, err
	}

	if general {
		return views.NewGeneralLibrary(e.app.client, e.viewer(), e.notifier()), nil
	}
	return views.NewPersonalLibrary(e.app.client, e.viewer(), e.notifier()), nil
}

func (e *environment) runUpload(cmd *cobra.Command, path string) error {
	lib, err := e.library(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return berrors.NewFileNotFoundError(path)
		}
		return berrors.Wrap(berrors.ErrCodeFileReadFailed, "failed to open "+path, err)
	}
	defer f.Close()

	in := views.UploadInput{File: f, FileName: filepath.Base(path)}
	in.Title, _ = cmd.Flags().GetString("title")
	in.Language, _ = cmd.Flags().GetString("language")
	if cmd.Flags().Changed("tag") {
		tag, _ := cmd.Flags().GetInt("tag")
		in.TagID = &tag
	}

	doc, err := lib.Upload(cmd.Context(), in)
	if err != nil {
		return err
	}
	return e.render(cmd, ux.DocumentTable([]views.Document{*doc}))
}

func (e *environment) runEdit(cmd *cobra.Command, id string) error {
	lib, err := e.library(cmd)
	if err != nil {
		return err
	}
	if err := lib.Load(cmd.Context()); err != nil {
		return err
	}

	var in views.EditInput
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		in.Title = &title
	}
	if cmd.Flags().Changed("language") {
		lang, _ := cmd.Flags().GetString("language")
		in.Language = &lang
	}
	if cmd.Flags().Changed("tag") {
		tag, _ := cmd.Flags().GetInt("tag")
		in.TagID = &tag
	}
	in.ClearTag, _ = cmd.Flags().GetBool("clear-tag")

	if in.Title == nil && in.Language == nil && in.TagID == nil && !in.ClearTag {
		return berrors.New(berrors.ErrCodeInputRequired, "nothing to update").
			WithSuggestion("Pass at least one of --title, --language, --tag, --clear-tag")
	}

	if err := lib.Edit(cmd.Context(), id, in); err != nil {
		return err
	}

	doc, ok := lib.Find(id)
	if !ok {
		return nil
	}
	return e.render(cmd, ux.DocumentTable([]views.Document{doc}))
}

func (e *environment) runDelete(cmd *cobra.Command, id string) error {
	lib, err := e.library(cmd)
	if err != nil {
		return err
	}
	if err := lib.Load(cmd.Context()); err != nil {
		return err
	}

	doc, ok := lib.Find(id)
	if ok {
		confirmed, err := e.confirm(cmd, "Supprimer « "+doc.Title+" » ?")
		if err != nil || !confirmed {
			return err
		}
	}
	return lib.Delete(cmd.Context(), id)
}

// confirm asks before a destructive action unless --yes was given
func (e *environment) confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	if !e.interactive() {
		return false, berrors.New(berrors.ErrCodeInputRequired, "confirmation required").
			WithSuggestion("Pass --yes to confirm without a prompt")
	}
	return tui.Confirm(question, false)
}
