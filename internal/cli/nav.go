package cli

import (
	"context"
	"fmt"

	"fileupload/internal/navigation"
	"fileupload/internal/view"

	"github.com/spf13/cobra"
)

func newNavCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Render the page mounted at an /entity/... route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd.Context(), args[0])
		},
	}
}

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List the entity pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(a.out, view.Menu(navigation.Menu()))
			return nil
		},
	}
}

// show renders the page at route. Form and delete pages only describe the
// command that performs them
func (a *app) show(ctx context.Context, route string) error {
	t, err := navigation.Resolve(route)
	if err != nil {
		return err
	}

	switch t.View {
	case navigation.ViewList:
		return a.showList(ctx, t.Kind)
	case navigation.ViewDetail:
		return a.showDetail(ctx, t.Kind, t.ID)
	case navigation.ViewNew:
		fmt.Fprintln(a.out, view.TitleStyle.Render("Create a new "+t.Kind.Label))
		fmt.Fprintf(a.out, "filectl %s create --name <name> [--file <path>] [--type <content type>]\n", t.Kind.Segment)
		return nil
	case navigation.ViewEdit:
		if err := a.showDetail(ctx, t.Kind, t.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "filectl %s edit %s [--name <name>] [--clear-content] [--file <path>]\n", t.Kind.Segment, t.ID)
		return nil
	case navigation.ViewDelete:
		if err := a.showDetail(ctx, t.Kind, t.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "filectl %s delete %s\n", t.Kind.Segment, t.ID)
		return nil
	}
	return fmt.Errorf("%w: %s", navigation.ErrUnknownRoute, route)
}
