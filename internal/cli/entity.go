package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fileupload/internal/blob"
	"fileupload/internal/draft"
	"fileupload/internal/entity"
	"fileupload/internal/form"
	"fileupload/internal/view"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	nameFlag    = "name"
	fileFlag    = "file"
	typeFlag    = "type"
	clearFlag   = "clear-content"
	yesFlag     = "yes"
	dataURIFlag = "data-uri"
	dirFlag     = "dir"
)

func attachFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		fileFlag: &cobraflags.StringFlag{
			Name:  fileFlag,
			Value: "",
			Usage: "Path of the file to attach",
		},
		typeFlag: &cobraflags.StringFlag{
			Name:  typeFlag,
			Value: "",
			Usage: "Content type of the attached file, detected when empty",
		},
	}
}

func writeFlags() map[string]cobraflags.Flag {
	flags := attachFlags()
	flags[nameFlag] = &cobraflags.StringFlag{
		Name:  nameFlag,
		Value: "",
		Usage: "Name of the entity",
	}
	return flags
}

func newKindCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.Segment,
		Short: fmt.Sprintf("Manage %s entities", kind.Label),
	}
	cmd.AddCommand(
		newListCommand(a, kind),
		newGetCommand(a, kind),
		newCreateCommand(a, kind),
		newEditCommand(a, kind),
		newDeleteCommand(a, kind),
		newOpenCommand(a, kind),
		newUploadCommand(a, kind),
	)
	return cmd
}

func newListCommand(a *app, kind entity.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", kind.PluralLabel),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showList(cmd.Context(), kind)
		},
	}
}

func newGetCommand(a *app, kind entity.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", kind.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showDetail(cmd.Context(), kind, args[0])
		},
	}
}

func newCreateCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", kind.Label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.save(cmd, kind, "")
		},
	}
	cobraflags.RegisterMap(cmd, writeFlags())
	return cmd
}

func newEditCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Update a %s", kind.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.save(cmd, kind, args[0])
		},
	}
	flags := writeFlags()
	flags[clearFlag] = &cobraflags.BoolFlag{
		Name:  clearFlag,
		Value: false,
		Usage: "Remove the current content before attaching --file",
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newDeleteCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", kind.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool(yesFlag)
			return a.delete(cmd.Context(), kind, args[0], yes)
		},
	}
	cobraflags.RegisterMap(cmd, map[string]cobraflags.Flag{
		yesFlag: &cobraflags.BoolFlag{
			Name:  yesFlag,
			Value: false,
			Usage: "Do not ask for confirmation",
		},
	})
	return cmd
}

func newOpenCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Download the content to a temporary file and print its path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataURI, _ := cmd.Flags().GetBool(dataURIFlag)
			dir, _ := cmd.Flags().GetString(dirFlag)
			return a.open(cmd.Context(), kind, args[0], dataURI, dir)
		},
	}
	cobraflags.RegisterMap(cmd, map[string]cobraflags.Flag{
		dataURIFlag: &cobraflags.BoolFlag{
			Name:  dataURIFlag,
			Value: false,
			Usage: "Print a data: URI instead of writing a file",
		},
		dirFlag: &cobraflags.StringFlag{
			Name:  dirFlag,
			Value: "",
			Usage: "Directory for the file, the system temp dir when empty",
		},
	})
	return cmd
}

func newUploadCommand(a *app, kind entity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: fmt.Sprintf("Create a %s from a file as a multipart upload", kind.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType, _ := cmd.Flags().GetString(typeFlag)
			return a.upload(cmd.Context(), kind, args[0], contentType)
		},
	}
	flags := attachFlags()
	delete(flags, fileFlag)
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func (a *app) showList(ctx context.Context, kind entity.Kind) error {
	s := a.slice(kind)
	if err := s.FetchAll(ctx); err != nil {
		return fmt.Errorf("list %s: %w", kind.PluralLabel, err)
	}
	fmt.Fprint(a.out, view.List(kind, s.State().Entities))
	return nil
}

func (a *app) showDetail(ctx context.Context, kind entity.Kind, id string) error {
	s := a.slice(kind)
	if err := s.Fetch(ctx, id); err != nil {
		return fmt.Errorf("get %s %s: %w", kind.Label, id, err)
	}
	fmt.Fprint(a.out, view.Detail(kind, s.State().Entity))
	return nil
}

// save runs the create/update form; an empty id creates
func (a *app) save(cmd *cobra.Command, kind entity.Kind, id string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	name, _ := flags.GetString(nameFlag)
	path, _ := flags.GetString(fileFlag)
	contentType, _ := flags.GetString(typeFlag)
	clearContent, _ := flags.GetBool(clearFlag)

	s := a.slice(kind)
	var next string
	f := form.New(s, func(route string) { next = route }, a.log)
	defer f.Close()

	if err := f.Open(ctx, id); err != nil {
		return fmt.Errorf("open %s %s: %w", kind.Label, id, err)
	}
	if id == "" || flags.Changed(nameFlag) {
		f.SetName(name)
	}
	if clearContent {
		f.ClearBlob()
	}
	if path != "" {
		if err := <-f.AttachFile(ctx, path, contentType); err != nil {
			return fmt.Errorf("attach %s: %w", path, err)
		}
	}

	if err := f.Submit(ctx); err != nil {
		if fe, ok := draft.AsFieldErrors(err); ok {
			fmt.Fprint(a.out, view.FieldErrors(fe))
		}
		return err
	}

	fmt.Fprint(a.out, view.Saved(kind, s.State().Entity, id == ""))
	return a.show(ctx, next)
}

func (a *app) delete(ctx context.Context, kind entity.Kind, id string, yes bool) error {
	if !yes {
		fmt.Fprintf(a.out, "Are you sure you want to delete %s %s? [y/N] ", kind.Label, id)
		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(a.out, "Delete cancelled")
			return nil
		}
	}

	s := a.slice(kind)
	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind.Label, id, err)
	}
	fmt.Fprint(a.out, view.AccentStyle.Render(fmt.Sprintf("%s deleted with identifier %s", kind.Label, id))+"\n")
	return a.showList(ctx, kind)
}

func (a *app) open(ctx context.Context, kind entity.Kind, id string, dataURI bool, dir string) error {
	if dataURI {
		s := a.slice(kind)
		if err := s.Fetch(ctx, id); err != nil {
			return fmt.Errorf("get %s %s: %w", kind.Label, id, err)
		}
		uri, err := s.State().Entity.Attachment().DataURI()
		if err != nil {
			return openError(kind, id, err)
		}
		fmt.Fprintln(a.out, uri)
		return nil
	}

	content, err := a.client.Resource(kind).Download(ctx, id)
	if err != nil {
		return openError(kind, id, err)
	}
	path, err := blob.WriteTemp(dir, content.Filename, content.ContentType, content.Data)
	if err != nil {
		return openError(kind, id, err)
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func openError(kind entity.Kind, id string, err error) error {
	if errors.Is(err, blob.ErrEmpty) {
		return fmt.Errorf("%s %s has no content: %w", kind.Label, id, err)
	}
	return fmt.Errorf("open %s %s: %w", kind.Label, id, err)
}

func (a *app) upload(ctx context.Context, kind entity.Kind, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	e, err := a.client.Resource(kind).Upload(ctx, filepath.Base(path), contentType, f)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	fmt.Fprint(a.out, view.Saved(kind, e, true))
	fmt.Fprint(a.out, view.Detail(kind, e))
	return nil
}
