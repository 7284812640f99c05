package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sobirov-market/storefront/pkg/models"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Дерево категорий каталога",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := a.loader().LoadTree(cmd.Context())
			roots := tree.Nested()
			if len(roots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "категорий нет")
				return nil
			}
			for _, c := range roots {
				printCategory(cmd.OutOrStdout(), c, lang, 0)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "ru", "язык названий: ru или uz")
	return cmd
}

func printCategory(w io.Writer, c *models.Category, lang string, depth int) {
	fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat("  ", depth), c.ID, c.Name(models.ParseLanguage(lang)))
	for _, sub := range c.SubCategories {
		printCategory(w, sub, lang, depth+1)
	}
}
