package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/cart"
	"github.com/rishia17/ecommerceweb/pkg/config"
	"github.com/rishia17/ecommerceweb/pkg/controller"
	"github.com/rishia17/ecommerceweb/pkg/messaging"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/spf13/cobra"
)

func main() {
	cmd, cleanup := rootCmd()
	err := cmd.Execute()
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type browseFlags struct {
	page       int
	categories []string
	brands     []string
	minPrice   float64
	maxPrice   float64
}

// rootCmd returns the command tree and a function releasing what the
// selected command opened.
func rootCmd() (*cobra.Command, func()) {
	var configPath string
	var a *app

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the product catalog from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a, err = newApp(cfg)
			return err
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(browseCmd(&a), productCmd(&a), addToCartCmd(&a), watchCmd(&a))
	return cmd, func() {
		if a != nil {
			a.Close()
		}
	}
}

func queryArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// apply runs the edits given as flags after the url query was loaded.
func (f *browseFlags) apply(ctx context.Context, cmd *cobra.Command, ctrl *controller.Controller) error {
	for _, c := range f.categories {
		if err := ctrl.Toggle(ctx, types.AxisCategory, c); err != nil {
			return err
		}
	}
	for _, b := range f.brands {
		if err := ctrl.Toggle(ctx, types.AxisBrand, b); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		current := ctrl.Snapshot().Criteria.Price
		lo, hi := current.Min, current.Max
		if cmd.Flags().Changed("min") {
			lo = f.minPrice
		}
		if cmd.Flags().Changed("max") {
			hi = f.maxPrice
		}
		if err := ctrl.SetPriceRange(ctx, lo, hi); err != nil {
			return err
		}
	}
	if f.page > 1 && !ctrl.GotoPage(f.page) {
		return fmt.Errorf("page %d out of range", f.page)
	}
	return nil
}

func (f *browseFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page to show")
	cmd.Flags().StringArrayVar(&f.categories, "category", nil, "Toggle a category, repeatable")
	cmd.Flags().StringArrayVar(&f.brands, "brand", nil, "Toggle a brand, repeatable")
	cmd.Flags().Float64Var(&f.minPrice, "min", 0, "Lowest price")
	cmd.Flags().Float64Var(&f.maxPrice, "max", types.DefaultMaxPrice, "Highest price")
}

func browseCmd(a **app) *cobra.Command {
	flags := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "browse [query]",
		Short: "List products matching a url query such as 'category=TV&maxPrice=20000'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := (*a).ctrl
			if err := ctrl.Mount(ctx, queryArg(args)); err != nil {
				log.Printf("Failed to load products: %v", err)
			}
			if err := flags.apply(ctx, cmd, ctrl); err != nil {
				log.Printf("Failed to apply filters: %v", err)
			}
			snap := ctrl.Snapshot()
			renderPage(cmd.OutOrStdout(), snap)
			fmt.Fprintf(cmd.OutOrStdout(), "query: ?%s\n", snap.Query)
			return snap.Err
		},
	}
	flags.register(cmd)
	return cmd
}

func productCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id> [query]",
		Short: "Show one product from the listing",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := (*a).ctrl
			if err := ctrl.Mount(cmd.Context(), queryArg(args[1:])); err != nil {
				return err
			}
			p, ok := ctrl.Product(args[0])
			if !ok {
				return fmt.Errorf("product %s not in the listing", args[0])
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func addToCartCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-to-cart <id>",
		Short: "Add a product to the cart of the logged in shopper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := (*a).user()
			if !user.CanAddToCart() {
				fmt.Fprintln(cmd.OutOrStdout(), "Only logged in shoppers have a cart, nothing added")
				return nil
			}
			if err := (*a).ctrl.AddToCart(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s", cart.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the cart of %s\n", args[0], user.CurrentUser.UserName)
			return nil
		},
	}
}

func watchCmd(a **app) *cobra.Command {
	flags := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "watch [query]",
		Short: "Keep a listing open and reload it when the catalog changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctrl := (*a).ctrl
			out := cmd.OutOrStdout()

			conn, err := (*a).dialRabbit()
			if err != nil {
				return err
			}
			ch, err := conn.Channel()
			if err != nil {
				return err
			}
			if err = messaging.DefineTopic(ch, messaging.DefaultPrefix, messaging.CatalogChanged); err != nil {
				return err
			}
			changes := make(chan messaging.CatalogChange, 1)
			err = messaging.ListenToTopic(ch, messaging.DefaultPrefix, messaging.CatalogChanged, func(d amqp.Delivery) error {
				change, err := messaging.Decode[messaging.CatalogChange](d)
				if err != nil {
					return err
				}
				select {
				case changes <- change:
				default:
				}
				return nil
			})
			if err != nil {
				return err
			}

			if err = ctrl.Mount(ctx, queryArg(args)); err != nil {
				log.Printf("Failed to load products: %v", err)
			}
			if err = flags.apply(ctx, cmd, ctrl); err != nil {
				log.Printf("Failed to apply filters: %v", err)
			}
			renderPage(out, ctrl.Snapshot())
			for {
				select {
				case <-ctx.Done():
					return nil
				case change := <-changes:
					log.Printf("Catalog changed, %d products", change.Products)
					if err := ctrl.Refresh(ctx); err != nil {
						log.Printf("Failed to reload products: %v", err)
					}
					renderPage(out, ctrl.Snapshot())
				}
			}
		},
	}
	flags.register(cmd)
	return cmd
}
