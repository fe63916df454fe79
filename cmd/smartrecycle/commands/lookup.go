package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/service"
	"github.com/vbonduro/smartrecycle/internal/store"
)

func lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lookup <city> <district>",
		Short:   "Print the discharge schedule for a district",
		Example: "  smartrecycle lookup 서울특별시 강남구",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openSeeded(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(database)

			svc := service.NewRecycleService(store.NewDistrictStore(database), store.NewGuideStore(database), logger)
			info, err := svc.DistrictSchedule(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if info == nil {
				return fmt.Errorf("%s %s: %w", args[0], args[1], domain.ErrDistrictNotFound)
			}
			renderSchedule(os.Stdout, info)
			return nil
		},
	}
	return cmd
}

func renderSchedule(w io.Writer, info *service.LocationInfo) {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("📍 %s %s", info.City, info.District)),
		labelStyle.Render("배출시간") + "  " + info.DischargeTime,
	}

	var lastType string
	for _, d := range info.Details {
		if d.InfoType != lastType {
			lines = append(lines, "", labelStyle.Render(d.InfoType))
			lastType = d.InfoType
		}
		lines = append(lines, fmt.Sprintf("  %s %s", d.ItemName, mutedStyle.Render(d.InfoValue)))
	}
	fmt.Fprintln(w, panel(lines))
}
