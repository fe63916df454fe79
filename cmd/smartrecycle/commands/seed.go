package commands

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/smartrecycle/internal/db"
	"github.com/vbonduro/smartrecycle/internal/imagestore"
	"github.com/vbonduro/smartrecycle/internal/imagestore/local"
	"github.com/vbonduro/smartrecycle/internal/seed"
)

const imageURLPrefix = "/static/images/"

func seedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the database and load the recycling dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				if err := db.Remove(cfg.DBPath); err != nil {
					return err
				}
				warn(fmt.Sprintf("removed %s", cfg.DBPath))
			}

			database, applied, err := openSeeded(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(database)

			if applied {
				ok(fmt.Sprintf("seeded %s", cfg.DBPath))
			} else {
				ok(fmt.Sprintf("%s is already seeded", cfg.DBPath))
			}

			ds, err := seed.Load()
			if err != nil {
				return err
			}
			missing, err := missingImages(cmd.Context(), local.NewLocalImageStore(cfg.ImagePath), ds)
			if err != nil {
				return err
			}
			for _, name := range missing {
				warn(fmt.Sprintf("guide image %s not found in %s", name, cfg.ImagePath))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the database file before seeding")
	return cmd
}

// missingImages lists guide images referenced by the dataset that the image
// store cannot serve.
func missingImages(ctx context.Context, images imagestore.ImageStore, ds *seed.Dataset) ([]string, error) {
	var missing []string
	for _, c := range ds.Categories {
		for _, it := range c.Items {
			name, found := strings.CutPrefix(it.ImagePath, imageURLPrefix)
			if !found || name == "" {
				continue
			}
			exists, err := images.Exists(ctx, path.Clean(name))
			if err != nil {
				return nil, fmt.Errorf("failed to check image %s: %w", name, err)
			}
			if !exists {
				missing = append(missing, name)
			}
		}
	}
	return missing, nil
}
