package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/wishmerchant/filter"
	"github.com/s0up4200/wishmerchant/wish"
)

const ruleWidth = 85

var (
	sinceDate   string
	unfulfilled bool
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the configured credentials",
	Long:  `Call the auth_test endpoint to verify the access token and merchant id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newMerchantAPI(cfg, logger)
		if err != nil {
			return err
		}
		return runTest(cmd.Context(), api, cmd.OutOrStdout())
	},
}

// productsCmd represents the products command
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products matching the filter criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, f, err := prepareList()
		if err != nil {
			return err
		}
		return runProducts(cmd.Context(), api, f, cmd.OutOrStdout())
	},
}

// variationsCmd represents the variations command
var variationsCmd = &cobra.Command{
	Use:   "variations",
	Short: "List product variations matching the filter criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, f, err := prepareList()
		if err != nil {
			return err
		}
		return runVariations(cmd.Context(), api, f, cmd.OutOrStdout())
	},
}

// ordersCmd represents the orders command
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders matching the filter criteria",
	Long: `List orders changed since a date, or with --unfulfilled only the orders
still awaiting fulfillment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, f, err := prepareList()
		if err != nil {
			return err
		}
		return runOrders(cmd.Context(), api, sinceDate, unfulfilled, f, cmd.OutOrStdout())
	},
}

// ticketsCmd represents the tickets command
var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List tickets awaiting a merchant response",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, f, err := prepareList()
		if err != nil {
			return err
		}
		return runTickets(cmd.Context(), api, f, cmd.OutOrStdout())
	},
}

// notificationsCmd represents the notifications command
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List unviewed notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newMerchantAPI(cfg, logger)
		if err != nil {
			return err
		}
		return runNotifications(cmd.Context(), api, cmd.OutOrStdout())
	},
}

func init() {
	addFilterFlags(productsCmd)
	addFilterFlags(variationsCmd)
	addFilterFlags(ordersCmd)
	addFilterFlags(ticketsCmd)

	ordersCmd.Flags().StringVar(&sinceDate, "since", "", "only orders changed since this date (YYYY-MM-DD)")
	ordersCmd.Flags().BoolVar(&unfulfilled, "unfulfilled", false, "only orders awaiting fulfillment")
}

func prepareList() (wish.MerchantAPI, *filter.Filter, error) {
	f, err := resolveFilter(filterExpr, preset, cfg.Filter.Presets)
	if err != nil {
		return nil, nil, err
	}
	if f != nil {
		logger.Info().Str("filter", f.Expression()).Msg("Applying filter")
	}

	api, err := newMerchantAPI(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return api, f, nil
}

func runTest(ctx context.Context, api wish.MerchantAPI, out io.Writer) error {
	fmt.Fprintln(out, "Testing Wish credentials...")

	merchant, err := api.AuthTest(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	if merchant != "" {
		fmt.Fprintf(out, "- Merchant: %s\n", merchant)
	}
	return nil
}

func runProducts(ctx context.Context, api wish.MerchantAPI, f *filter.Filter, out io.Writer) error {
	products, err := api.GetAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}

	products, err = filter.Apply(f, products)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Fprintln(out, "No products found matching the filter criteria.")
		return nil
	}

	printHeader(out, len(products), "product", "products", "%-26s %-40s %-10s %s\n", "ID", "NAME", "VARIANTS", "REVIEW")
	for _, p := range products {
		fmt.Fprintf(out, "%-26s %-40s %-10d %s\n", p.ID, truncate(p.Name, 40), len(p.Variations), p.ReviewStatus)
	}
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
	return nil
}

func runVariations(ctx context.Context, api wish.MerchantAPI, f *filter.Filter, out io.Writer) error {
	variations, err := api.GetAllVariations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get variations: %w", err)
	}

	variations, err = filter.Apply(f, variations)
	if err != nil {
		return err
	}

	if len(variations) == 0 {
		fmt.Fprintln(out, "No variations found matching the filter criteria.")
		return nil
	}

	printHeader(out, len(variations), "variation", "variations", "%-30s %-10s %-10s %s\n", "SKU", "PRICE", "INVENTORY", "ENABLED")
	for _, v := range variations {
		fmt.Fprintf(out, "%-30s %-10.2f %-10d %t\n", truncate(v.SKU, 30), v.Price, v.Inventory, v.Enabled)
	}
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
	return nil
}

func runOrders(ctx context.Context, api wish.MerchantAPI, since string, onlyUnfulfilled bool, f *filter.Filter, out io.Writer) error {
	var (
		orders []wish.Order
		err    error
	)
	if onlyUnfulfilled {
		orders, err = api.GetAllUnfulfilledOrdersSince(ctx, since)
	} else {
		orders, err = api.GetAllChangedOrdersSince(ctx, since)
	}
	if err != nil {
		return fmt.Errorf("failed to get orders: %w", err)
	}

	orders, err = filter.Apply(f, orders)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders found matching the filter criteria.")
		return nil
	}

	printHeader(out, len(orders), "order", "orders", "%-26s %-12s %-30s %-5s %s\n", "ORDER", "STATE", "PRODUCT", "QTY", "TOTAL")
	for _, o := range orders {
		fmt.Fprintf(out, "%-26s %-12s %-30s %-5d %.2f\n", o.OrderID, o.State, truncate(o.ProductName, 30), o.Quantity, o.OrderTotal)
	}
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
	return nil
}

func runTickets(ctx context.Context, api wish.MerchantAPI, f *filter.Filter, out io.Writer) error {
	tickets, err := api.GetAllActionRequiredTickets(ctx)
	if err != nil {
		return fmt.Errorf("failed to get tickets: %w", err)
	}

	tickets, err = filter.Apply(f, tickets)
	if err != nil {
		return err
	}

	if len(tickets) == 0 {
		fmt.Fprintln(out, "No tickets awaiting a response.")
		return nil
	}

	printHeader(out, len(tickets), "ticket", "tickets", "%-26s %-20s %s\n", "TICKET", "OPENED", "SUBJECT")
	for _, t := range tickets {
		fmt.Fprintf(out, "%-26s %-20s %s\n", t.ID, t.OpenDate, truncate(t.Subject, 37))
	}
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
	return nil
}

func runNotifications(ctx context.Context, api wish.MerchantAPI, out io.Writer) error {
	notifications, err := api.GetUnviewedNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to get notifications: %w", err)
	}

	if len(notifications) == 0 {
		fmt.Fprintln(out, "No unviewed notifications.")
		return nil
	}

	fmt.Fprintf(out, "Found %d unviewed %s:\n\n", len(notifications), plural(len(notifications), "notification", "notifications"))
	for _, n := range notifications {
		fmt.Fprintf(out, "• %s [%s]\n", n.Title, n.ID)
		if n.Message != "" {
			fmt.Fprintf(out, "  %s\n", n.Message)
		}
	}
	return nil
}

func printHeader(out io.Writer, n int, singular, pluralForm, format string, columns ...any) {
	fmt.Fprintf(out, "Found %d %s:\n\n", n, plural(n, singular, pluralForm))
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
	fmt.Fprintf(out, format, columns...)
	fmt.Fprintln(out, strings.Repeat("━", ruleWidth))
}

// truncate shortens s to width runes
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
