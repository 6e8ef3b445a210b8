package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"inventory-console/config"
	"inventory-console/internal/apiclient"
	"inventory-console/internal/auth"
	"inventory-console/internal/models"
	"inventory-console/internal/notify"
	"inventory-console/internal/screen"
	"inventory-console/internal/util"
)

// console drives one screen at a time. Switching screens unmounts the
// previous one, discarding its cache.
type console struct {
	cfg      *config.Config
	client   *apiclient.Client
	session  *auth.Session
	notifier *notify.Notifier

	products  *screen.ProductScreen
	orders    *screen.OrderScreen
	customers *screen.CustomerScreen
	suppliers *screen.SupplierScreen

	unmount func()
	current string
}

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.App.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	tp, err := util.InitTracer("inventory-console", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	session := auth.NewSession()
	client := apiclient.New(cfg, session)

	c := &console{
		cfg:      cfg,
		client:   client,
		session:  session,
		notifier: notify.New(),
	}

	fmt.Println("Inventory Management Console")
	fmt.Printf("Backend: %s\n", cfg.BaseURL())
	fmt.Println(`Type "help" for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		c.dispatch(context.Background(), strings.Fields(line))
		c.printNotification()
	}
}

func (c *console) dispatch(ctx context.Context, args []string) {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help":
		printHelp()
		return
	case "login":
		c.login(ctx, rest)
		return
	case "logout":
		c.session.Clear()
		fmt.Println("Logged out.")
		return
	}

	// Route guard: everything below requires an active session.
	if !c.session.Authenticated() {
		fmt.Println("Please login first: login <username> <password>")
		return
	}

	switch cmd {
	case "products":
		c.runProducts(ctx, rest)
	case "orders":
		c.runOrders(ctx, rest)
	case "customers":
		c.runCustomers(ctx, rest)
	case "suppliers":
		c.runSuppliers(ctx, rest)
	case "dashboard":
		c.runDashboard(ctx)
	case "insights":
		c.runInsights(ctx)
	default:
		fmt.Printf("Unknown command %q; type \"help\".\n", cmd)
	}
}

func (c *console) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: login <username> <password>")
		return
	}
	creds := models.Credentials{Username: args[0], Password: args[1]}
	if err := c.session.Login(ctx, c.client, creds); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	fmt.Println("Login successful.")
}

// switchTo unmounts the previous screen and runs mount for the new one.
func (c *console) switchTo(name string, mount func() error, unmount func()) bool {
	if c.current == name {
		return true
	}
	if c.unmount != nil {
		c.unmount()
	}
	c.current = name
	c.unmount = unmount
	if err := mount(); err != nil {
		fmt.Printf("Load failed: %v\n", err)
		return false
	}
	return true
}

func (c *console) runProducts(ctx context.Context, args []string) {
	if c.products == nil || c.current != "products" {
		c.products = screen.NewProductScreen(c.client, c.notifier)
	}
	s := c.products
	if !c.switchTo("products", func() error { return s.Mount(ctx) }, s.Unmount) {
		return
	}

	switch {
	case len(args) == 0:
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tQUANTITY\tPRICE\tREORDER AT")
		for _, p := range s.Store.Items() {
			flag := ""
			if p.LowStock() {
				flag = " (low stock)"
			}
			fmt.Fprintf(w, "%s\t%s\t%d%s\t%.2f\t%d\n", p.ID, p.Name, p.Quantity, flag, p.Price, p.ReorderThreshold)
		}
		w.Flush()
	case args[0] == "add" && len(args) == 5:
		in, err := parseProductInput(args[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		_, _ = s.Add(ctx, in)
	case args[0] == "update" && len(args) == 6:
		in, err := parseProductInput(args[2:])
		if err != nil {
			fmt.Println(err)
			return
		}
		_, _ = s.Edit(ctx, args[1], in)
	case args[0] == "delete" && len(args) == 2:
		_, _ = s.Delete(ctx, args[1])
	default:
		fmt.Println("Usage: products [add <name> <qty> <price> <threshold> | update <id> <name> <qty> <price> <threshold> | delete <id>]")
	}
}

func (c *console) runOrders(ctx context.Context, args []string) {
	if c.orders == nil || c.current != "orders" {
		c.orders = screen.NewOrderScreen(c.client, c.notifier)
	}
	s := c.orders
	if !c.switchTo("orders", func() error { return s.Mount(ctx) }, s.Unmount) {
		return
	}

	switch {
	case len(args) == 0:
		w := newTable()
		fmt.Fprintln(w, "ORDER ID\tPRODUCT\tQUANTITY\tTOTAL\tDATE\tCUSTOMER")
		for _, o := range s.Orders.Items() {
			fmt.Fprintf(w, "#%s\t%s\t%d\t%.2f\t%s\t%s\n",
				o.ID, o.ProductName, o.Quantity, o.TotalAmount,
				o.CreatedAt.Format("2006-01-02"), o.CustomerName)
		}
		w.Flush()
		if len(s.Orders.Items()) == 0 {
			fmt.Println("No orders found. Create your first order!")
		}
	case args[0] == "create" && len(args) == 4:
		qty, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Println("quantity must be an integer")
			return
		}
		_, _ = s.Create(ctx, models.OrderInput{ProductID: args[1], CustomerID: args[2], Quantity: qty})
	case args[0] == "delete" && len(args) == 2:
		_ = s.Delete(ctx, args[1])
	default:
		fmt.Println("Usage: orders [create <product_id> <customer_id> <qty> | delete <id>]")
	}
}

func (c *console) runCustomers(ctx context.Context, args []string) {
	if c.customers == nil || c.current != "customers" {
		c.customers = screen.NewCustomerScreen(c.client, c.notifier)
	}
	s := c.customers
	if !c.switchTo("customers", func() error { return s.Mount(ctx) }, s.Unmount) {
		return
	}
	runContacts(args, "customers",
		func() []models.Customer { return s.Store.Items() },
		func(in models.ContactInput) { _, _ = s.Add(ctx, in) },
		func(id string, in models.ContactInput) { _, _ = s.Edit(ctx, id, in) },
		func(id string) { _, _ = s.Delete(ctx, id) })
}

func (c *console) runSuppliers(ctx context.Context, args []string) {
	if c.suppliers == nil || c.current != "suppliers" {
		c.suppliers = screen.NewSupplierScreen(c.client, c.notifier)
	}
	s := c.suppliers
	if !c.switchTo("suppliers", func() error { return s.Mount(ctx) }, s.Unmount) {
		return
	}
	runContacts(args, "suppliers",
		func() []models.Supplier { return s.Store.Items() },
		func(in models.ContactInput) { _, _ = s.Add(ctx, in) },
		func(id string, in models.ContactInput) { _, _ = s.Edit(ctx, id, in) },
		func(id string) { _, _ = s.Delete(ctx, id) })
}

func runContacts[T models.Entity](args []string, usage string,
	items func() []T,
	add func(models.ContactInput),
	edit func(string, models.ContactInput),
	del func(string)) {

	switch {
	case len(args) == 0:
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tADDRESS")
		for _, item := range items() {
			switch v := any(item).(type) {
			case models.Customer:
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Contact, v.Address)
			case models.Supplier:
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Contact, v.Address)
			}
		}
		w.Flush()
	case args[0] == "add" && len(args) >= 2:
		add(contactInput(args[1:]))
	case args[0] == "update" && len(args) >= 3:
		edit(args[1], contactInput(args[2:]))
	case args[0] == "delete" && len(args) == 2:
		del(args[1])
	default:
		fmt.Printf("Usage: %s [add <name> [contact] [address] | update <id> <name> [contact] [address] | delete <id>]\n", usage)
	}
}

func (c *console) runDashboard(ctx context.Context) {
	if c.unmount != nil {
		c.unmount()
		c.unmount = nil
	}
	c.current = ""

	s := screen.NewDashboardScreen(c.client)
	if err := s.Mount(ctx); err != nil {
		fmt.Printf("Load failed: %v\n", err)
		return
	}

	summary := s.Summary()
	fmt.Printf("Total products: %d\n", summary.TotalProducts)
	fmt.Printf("Low stock items: %d\n", summary.LowStockCount)
	fmt.Printf("Recent orders: %d\n", len(summary.RecentOrders))
	if lowStock := s.LowStock(); len(lowStock) > 0 {
		fmt.Println("\nLow stock alerts:")
		w := newTable()
		fmt.Fprintln(w, "NAME\tSTOCK\tREORDER AT")
		for _, p := range lowStock {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p.Name, p.Quantity, p.ReorderThreshold)
		}
		w.Flush()
	}
	for _, o := range summary.RecentOrders {
		fmt.Printf("#%s %s x%d %.2f %s\n", o.ID, o.ProductName, o.Quantity, o.TotalAmount, o.CreatedAt.Format("2006-01-02"))
	}
}

func (c *console) runInsights(ctx context.Context) {
	s := screen.NewInsightsScreen(c.client)
	if err := s.Mount(ctx); err != nil {
		fmt.Println("Failed to load AI insights")
		return
	}
	insights, _ := s.Insights()

	fmt.Println("AI Insights & Recommendations")
	sa := insights.SalesAnalysis
	fmt.Printf("Sales: %d orders, %.2f revenue, %.2f average (%s)\n",
		sa.TotalOrders, sa.TotalRevenue, sa.AverageOrderValue, sa.Period)

	for _, rec := range insights.StockRecommendations {
		fmt.Printf("[%s] %s: stock %d, recommend %d (%s)\n",
			rec.Priority, rec.ProductName, rec.CurrentStock, rec.RecommendedStock, rec.Reason)
	}
	for _, tp := range insights.TrendingProducts {
		fmt.Printf("Trending: %s ordered %d, stock %d\n", tp.ProductName, tp.TotalOrdered, tp.CurrentStock)
	}
	for _, alert := range insights.RiskAlerts {
		fmt.Printf("[%s] %s: %s\n", alert.Type, alert.ProductName, alert.Message)
	}
	for _, tip := range insights.OptimizationTips {
		fmt.Printf("Tip: %s (impact: %s)\n", tip.Tip, tip.Impact)
	}
	if s.Empty() {
		fmt.Println("No AI insights available. Create some orders to generate recommendations!")
	}
}

func (c *console) printNotification() {
	if msg, level, ok := c.notifier.Message(); ok {
		fmt.Printf("[%s] %s\n", level, msg)
	}
}

func parseProductInput(args []string) (models.ProductInput, error) {
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("quantity must be an integer")
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("price must be a number")
	}
	threshold, err := strconv.Atoi(args[3])
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("reorder threshold must be an integer")
	}
	return models.ProductInput{Name: args[0], Quantity: qty, Price: price, ReorderThreshold: threshold}, nil
}

func contactInput(args []string) models.ContactInput {
	in := models.ContactInput{Name: args[0]}
	if len(args) > 1 {
		in.Contact = args[1]
	}
	if len(args) > 2 {
		in.Address = strings.Join(args[2:], " ")
	}
	return in
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printHelp() {
	fmt.Println(`Commands:
  login <username> <password>       authenticate against the backend
  logout                            drop the session
  products [add|update|delete ...]  manage products
  orders [create|delete ...]        manage orders
  customers [add|update|delete ...] manage customers
  suppliers [add|update|delete ...] manage suppliers
  dashboard                         summary counters and low stock alerts
  insights                          AI insights and recommendations
  quit`)
}
