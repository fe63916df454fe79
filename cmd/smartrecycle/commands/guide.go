package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/smartrecycle/internal/service"
	"github.com/vbonduro/smartrecycle/internal/store"
)

func guideCmd() *cobra.Command {
	var category, query string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Print the disposal guide",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openSeeded(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(database)

			svc := service.NewRecycleService(store.NewDistrictStore(database), store.NewGuideStore(database), logger)
			guide, err := svc.SearchGuide(cmd.Context(), query)
			if err != nil {
				return err
			}
			renderGuide(os.Stdout, guide, category, verbose)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show categories whose name contains this text")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show items whose name or description contains this text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include item descriptions")
	return cmd
}

func renderGuide(w io.Writer, guide *service.GuideData, filter string, verbose bool) {
	var shown int
	for _, c := range guide.Categories {
		if filter != "" && !strings.Contains(c.Name, filter) {
			continue
		}
		shown++
		fmt.Fprintln(w, titleStyle.Render(c.Icon+" "+c.Name))
		for _, it := range c.Items {
			fmt.Fprintf(w, "  • %s\n", labelStyle.Render(it.Name))
			if verbose && it.Description != "" {
				for _, line := range strings.Split(it.Description, "\n") {
					if line = strings.TrimSpace(line); line != "" {
						fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
					}
				}
			}
		}
		fmt.Fprintln(w)
	}
	if shown == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no matching categories"))
	}
}
