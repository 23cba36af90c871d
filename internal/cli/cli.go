// Package cli implements the dashboard command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/analytics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/catalog"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/config"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// ProductAPI is the products API surface the CLI drives.
type ProductAPI interface {
	dashboard.ProductSource
	catalog.ProductWriter
	GetProduct(ctx context.Context, id int) (model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	ProductsByCategory(ctx context.Context, slug string) (model.ProductPage, error)
}

// APIFactory builds the products API client from the loaded configuration.
type APIFactory func(cfg config.Config) ProductAPI

// DefaultAPIFactory talks to the configured products API over HTTP.
func DefaultAPIFactory(cfg config.Config) ProductAPI {
	return dummyjson.New(nil, dummyjson.Config{
		BaseURL:    cfg.ProductsBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
}

type app struct {
	cfg config.Config
	api ProductAPI
}

// NewRootCommand builds the dashboard command tree.
func NewRootCommand(factory APIFactory) *cobra.Command {
	a := &app{}
	var (
		baseURL  string
		pageSize int
		logLevel string
	)

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Browse, edit and analyze the product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(".env.local", ".env")
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			if baseURL != "" {
				cfg.ProductsBaseURL = baseURL
			}
			if pageSize > 0 {
				cfg.PageSize = pageSize
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logging.InitWriter(cmd.ErrOrStderr(), cfg.LogLevel, true)
			a.cfg = cfg
			a.api = factory(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "products API base URL (overrides PRODUCTS_API_BASE_URL)")
	root.PersistentFlags().IntVar(&pageSize, "page-size", 0, "products per page (overrides PRODUCTS_PAGE_SIZE)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(a.productsCommand(), a.categoriesCommand(), a.analyticsCommand(), a.interactiveCommand())
	return root
}

func (a *app) productsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "List, search and inspect products"}

	var params dummyjson.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.Limit <= 0 {
				params.Limit = a.cfg.PageSize
			}
			page, err := a.api.ListProducts(cmd.Context(), params)
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), page.Products)
			renderPagination(cmd.OutOrStdout(), dashboard.Pagination{Limit: params.Limit, Skip: params.Skip, Total: page.Total}, len(page.Products))
			return nil
		},
	}
	list.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	list.Flags().IntVar(&params.Skip, "skip", 0, "records to skip")
	list.Flags().StringVar(&params.SortBy, "sort-by", "", "sort field (title, category, price, stock)")
	list.Flags().StringVar(&params.Order, "order", "", "sort order (asc or desc)")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.SearchProducts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), page.Products)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p, err := a.api.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}

	cmd.AddCommand(list, search, get)
	return cmd
}

func (a *app) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.api.Categories(cmd.Context())
			if err != nil {
				return err
			}
			renderCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func (a *app) analyticsCommand() *cobra.Command {
	var (
		params   dummyjson.ListParams
		query    string
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize a page of products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.Limit <= 0 {
				params.Limit = a.cfg.PageSize
			}
			var (
				page model.ProductPage
				err  error
			)
			switch {
			case category != "":
				page, err = a.api.ProductsByCategory(cmd.Context(), category)
			case query != "":
				page, err = a.api.SearchProducts(cmd.Context(), query)
			default:
				page, err = a.api.ListProducts(cmd.Context(), params)
			}
			if err != nil {
				return err
			}

			var report model.AnalyticsReport
			if a.cfg.AnalyticsStrict {
				if report, err = analytics.AggregateStrict(page.Products); err != nil {
					return err
				}
			} else {
				report = analytics.Aggregate(page.Products)
			}
			metrics.ObserveAnalytics(len(page.Products))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&params.Skip, "skip", 0, "records to skip")
	cmd.Flags().StringVar(&query, "q", "", "summarize search results instead of a page")
	cmd.Flags().StringVar(&category, "category", "", "summarize every product of a category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
