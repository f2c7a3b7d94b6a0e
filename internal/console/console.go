package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/cart"
	"github.com/supershop/supershop/internal/checkout"
	"github.com/supershop/supershop/internal/inventory"
	"github.com/supershop/supershop/internal/ledger"
	"github.com/supershop/supershop/internal/receipt"
	"github.com/supershop/supershop/internal/reports"
	"github.com/supershop/supershop/internal/users"
)

const dateLayout = "2006-01-02"

// UI drives the interactive menu session over stdin/stdout.
type UI struct {
	in  *bufio.Scanner
	out io.Writer

	users    *users.Service
	catalog  *inventory.Store
	cart     *cart.Cart
	checkout *checkout.Coordinator
	ledger   *ledger.Ledger
	reports  *reports.Service

	lowStockThreshold int
}

// New builds the console UI over the given services.
func New(in io.Reader, out io.Writer, us *users.Service, catalog *inventory.Store, c *cart.Cart, co *checkout.Coordinator, l *ledger.Ledger, rp *reports.Service, lowStockThreshold int) *UI {
	return &UI{
		in:                bufio.NewScanner(in),
		out:               out,
		users:             us,
		catalog:           catalog,
		cart:              c,
		checkout:          co,
		ledger:            l,
		reports:           rp,
		lowStockThreshold: lowStockThreshold,
	}
}

// Run loops the main menu until exit or context cancellation.
func (ui *UI) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		ui.printf("\n==== SUPER SHOP MANAGEMENT ====\n")
		ui.printf("1. Admin login\n2. Customer login\n3. Register\n0. Exit\n")
		choice, ok := ui.readLine("Choose: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			ui.login(ctx, true)
		case "2":
			ui.login(ctx, false)
		case "3":
			ui.register()
		case "0":
			return nil
		default:
			ui.printf("Unknown option.\n")
		}
	}
	return ctx.Err()
}

func (ui *UI) login(ctx context.Context, admin bool) {
	mobile, ok := ui.readLine("Mobile: ")
	if !ok {
		return
	}
	password, ok := ui.readLine("Password: ")
	if !ok {
		return
	}
	user, err := ui.users.Authenticate(mobile, password, admin)
	if err != nil {
		ui.fail(err)
		return
	}
	ui.printf("Welcome, %s!\n", user.Name)
	if admin {
		ui.adminMenu(ctx)
	} else {
		ui.customerMenu(ctx, user)
	}
}

func (ui *UI) register() {
	reg := users.Registration{}
	reg.Name, _ = ui.readLine("Name: ")
	reg.Mobile, _ = ui.readLine("Mobile: ")
	reg.Password, _ = ui.readLine("Password: ")
	reg.Age = ui.readInt("Age: ")
	kind, _ := ui.readLine("Account type (admin/customer): ")
	if strings.EqualFold(kind, "admin") {
		reg.Admin = true
		reg.AdminKey, _ = ui.readLine("Admin key: ")
	}
	if _, err := ui.users.Register(reg); err != nil {
		ui.fail(err)
		return
	}
	ui.printf("Registered. You can log in now.\n")
}

func (ui *UI) adminMenu(ctx context.Context) {
	for ctx.Err() == nil {
		ui.printf("\n---- ADMIN MENU ----\n")
		ui.printf("1. List products\n2. Add product\n3. Update price\n4. Adjust stock\n5. Delete product\n")
		ui.printf("6. Categories\n7. Low stock\n8. Sales report\n9. Users\n0. Logout\n")
		choice, ok := ui.readLine("Choose: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			ui.printProducts(ui.catalog.List())
		case "2":
			ui.addProduct()
		case "3":
			id := ui.readInt("Product ID: ")
			price := ui.readDecimal("New price: ")
			ui.report(ui.catalog.UpdatePrice(id, price))
		case "4":
			id := ui.readInt("Product ID: ")
			delta := ui.readInt("Quantity change (+/-): ")
			ui.report(ui.catalog.AdjustQuantity(id, delta))
		case "5":
			id := ui.readInt("Product ID: ")
			ui.report(ui.catalog.Delete(id))
		case "6":
			ui.categoryMenu()
		case "7":
			low, err := ui.catalog.ListLowStock(ui.lowStockThreshold)
			if err != nil {
				ui.fail(err)
				continue
			}
			ui.printProducts(low)
		case "8":
			ui.salesReport()
		case "9":
			ui.userMenu()
		case "0":
			return
		default:
			ui.printf("Unknown option.\n")
		}
	}
}

func (ui *UI) customerMenu(ctx context.Context, user users.User) {
	for ctx.Err() == nil {
		ui.printf("\n---- CUSTOMER MENU ----\n")
		ui.printf("1. Browse by category\n2. Search by price range\n3. View cart\n4. Add to cart\n")
		ui.printf("5. Update cart item\n6. Remove from cart\n7. Checkout\n8. Purchase history\n9. Update profile\n0. Logout\n")
		choice, ok := ui.readLine("Choose: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			for _, c := range ui.catalog.Categories() {
				ui.printf("%d. %s\n", c.ID, c.Name)
			}
			id := ui.readInt("Category: ")
			ui.printProducts(ui.catalog.ListByCategory(id))
		case "2":
			low := ui.readDecimal("Min price: ")
			high := ui.readDecimal("Max price: ")
			ui.printProducts(ui.catalog.ListByPriceRange(low, high))
		case "3":
			ui.printCart()
		case "4":
			id := ui.readInt("Product ID: ")
			qty := ui.readInt("Quantity: ")
			ui.report(ui.cart.Add(id, qty))
		case "5":
			id := ui.readInt("Product ID: ")
			qty := ui.readInt("New quantity (0 removes): ")
			ui.report(ui.cart.Update(id, qty))
		case "6":
			id := ui.readInt("Product ID: ")
			ui.report(ui.cart.Remove(id))
		case "7":
			result, err := ui.checkout.Checkout(user.Mobile, user.IsVIP)
			if err != nil {
				ui.fail(err)
				continue
			}
			ui.printf("%s\n", receipt.Render(result.Record))
			ui.printf("Checkout successful. Transaction ID: %s\n", result.Record.ID)
		case "8":
			ui.purchaseHistory(user.Mobile)
		case "9":
			name, _ := ui.readLine("New name (blank keeps current): ")
			password, _ := ui.readLine("New password (blank keeps current): ")
			ui.report(ui.users.UpdateProfile(user.Mobile, name, password))
		case "0":
			return
		default:
			ui.printf("Unknown option.\n")
		}
	}
}

func (ui *UI) addProduct() {
	for _, c := range ui.catalog.Categories() {
		ui.printf("%d. %s\n", c.ID, c.Name)
	}
	categoryID := ui.readInt("Category: ")
	name, _ := ui.readLine("Name: ")
	price := ui.readDecimal("Price: ")
	qty := ui.readInt("Quantity: ")
	p, err := ui.catalog.Insert(inventory.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      price,
		Quantity:   qty,
	})
	if err != nil {
		ui.fail(err)
		return
	}
	ui.printf("Added product %d: %s\n", p.ID, p.Name)
}

func (ui *UI) categoryMenu() {
	for _, c := range ui.catalog.Categories() {
		ui.printf("%d. %s\n", c.ID, c.Name)
	}
	add, _ := ui.readLine("Add a category? (y/n): ")
	if !strings.EqualFold(add, "y") {
		return
	}
	id := ui.readInt("Category ID: ")
	name, _ := ui.readLine("Category name: ")
	ui.report(ui.catalog.AddCategory(id, name))
}

func (ui *UI) userMenu() {
	for _, u := range ui.users.List() {
		role := "Customer"
		if u.IsAdmin {
			role = "Admin"
		}
		vip := ""
		if u.IsVIP {
			vip = " VIP"
		}
		ui.printf("%-13s %-20s %3d  %s%s\n", u.Mobile, u.Name, u.Age, role, vip)
	}
	toggle, _ := ui.readLine("Toggle VIP for a customer? (y/n): ")
	if !strings.EqualFold(toggle, "y") {
		return
	}
	mobile, _ := ui.readLine("Mobile: ")
	u, err := ui.users.Get(mobile)
	if err != nil {
		ui.fail(err)
		return
	}
	ui.report(ui.users.SetVIP(mobile, !u.IsVIP))
}

func (ui *UI) salesReport() {
	from := ui.readDate("From (YYYY-MM-DD): ")
	to := ui.readDate("To (YYYY-MM-DD): ").Add(24*time.Hour - time.Second)
	summary := ui.reports.SalesSummary(from, to)
	if summary.Transactions == 0 {
		ui.printf("No sales in the selected period.\n")
		return
	}
	ui.printf("\n======== SALES REPORT ========\n")
	ui.printf("Period: %s to %s\n", summary.From.Format(dateLayout), summary.To.Format(dateLayout))
	ui.printf("Transactions: %d\nItems sold: %d\nRevenue: %s\n", summary.Transactions, summary.ItemsSold, summary.Revenue.StringFixed(2))
	ui.printf("\n%-5s %-25s %10s %12s\n", "ID", "Name", "Qty Sold", "Revenue")
	for _, p := range summary.Products {
		ui.printf("%-5d %-25s %10d %12s\n", p.ProductID, p.Name, p.QuantitySold, p.Revenue.StringFixed(2))
	}
}

func (ui *UI) purchaseHistory(mobile string) {
	purchases := ui.ledger.FindByCustomer(mobile)
	if len(purchases) == 0 {
		ui.printf("No purchase history found.\n")
		return
	}
	for _, p := range purchases {
		ui.printf("\n%s  %s  total %s\n", p.ID, p.Timestamp.Format("2006-01-02 15:04:05"), p.Total.StringFixed(2))
		for _, item := range p.Items {
			ui.printf("  - %-25s %3d x %-8s = %s\n", item.Name, item.Quantity, item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2))
		}
	}
}

func (ui *UI) printProducts(products []inventory.Product) {
	if len(products) == 0 {
		ui.printf("No products found.\n")
		return
	}
	ui.printf("%-5s %-25s %10s %6s %-10s\n", "ID", "NAME", "PRICE", "QTY", "STATUS")
	for _, p := range products {
		status := "In Stock"
		if !p.InStock {
			status = "Out of Stock"
		}
		ui.printf("%-5d %-25s %10s %6d %-10s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, status)
	}
}

func (ui *UI) printCart() {
	items := ui.cart.Items()
	if len(items) == 0 {
		ui.printf("Your cart is empty.\n")
		return
	}
	ui.printf("%-5s %-25s %10s %6s %12s\n", "ID", "PRODUCT", "PRICE", "QTY", "SUBTOTAL")
	for _, item := range items {
		ui.printf("%-5d %-25s %10s %6d %12s\n", item.ProductID, item.Name, item.Price.StringFixed(2), item.Quantity, item.LineTotal().StringFixed(2))
	}
	ui.printf("%44s: %12s\n", "Subtotal", ui.cart.Subtotal().StringFixed(2))
	if ui.cart.Discount().IsPositive() {
		ui.printf("%44s: %12s\n", "Discount", ui.cart.Discount().StringFixed(2))
	}
	ui.printf("%44s: %12s\n", "TOTAL", ui.cart.Total().StringFixed(2))
}

// report prints a single descriptive message for an operation result.
func (ui *UI) report(err error) {
	if err != nil {
		ui.fail(err)
		return
	}
	ui.printf("Done.\n")
}

func (ui *UI) fail(err error) {
	ui.printf("Error: %v\n", err)
}

func (ui *UI) printf(format string, args ...any) {
	fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) readLine(prompt string) (string, bool) {
	ui.printf("%s", prompt)
	if !ui.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(ui.in.Text()), true
}

func (ui *UI) readInt(prompt string) int {
	for {
		line, ok := ui.readLine(prompt)
		if !ok {
			return 0
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			ui.printf("Enter a whole number.\n")
			continue
		}
		return n
	}
}

func (ui *UI) readDecimal(prompt string) decimal.Decimal {
	for {
		line, ok := ui.readLine(prompt)
		if !ok {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(line)
		if err != nil {
			ui.printf("Enter an amount like 12.50.\n")
			continue
		}
		return d
	}
}

func (ui *UI) readDate(prompt string) time.Time {
	for {
		line, ok := ui.readLine(prompt)
		if !ok {
			return time.Time{}
		}
		t, err := time.ParseInLocation(dateLayout, line, time.Local)
		if err != nil {
			ui.printf("Enter a date like 2024-01-31.\n")
			continue
		}
		return t
	}
}
