package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pacdump/pacdump/pkg/cache"
)

// cacheCommand creates the cache management command. The only thing cached
// is the reverse-dependency index; clearing it just forces a rebuild on
// the next query.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reverse-dependency index cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the cached reverse-dependency indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cch := c.newCache(false)
			defer cch.Close()

			fc, ok := cch.(*cache.FileCache)
			if !ok {
				printInfo("Caching is disabled, nothing to clear")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.CacheDir
			if dir == "" {
				var err error
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Println(dir)
			return nil
		},
	}
}
