// Command storefront is an interactive terminal client for the grocery
// storefront. It drives the same cart/order controller the browser page
// uses, with the terminal standing in for the rendered page.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/grocery-storefront/internal/controller"
	"github.com/example/grocery-storefront/internal/notify"
	"github.com/example/grocery-storefront/internal/shopapi"
	"github.com/example/grocery-storefront/internal/ui"
	"github.com/example/grocery-storefront/internal/validate"
	"github.com/google/uuid"
)

func main() {
	baseURL := getEnv("SHOP_URL", "http://localhost:8080")

	client := shopapi.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second})
	client.SetSession(uuid.New().String())

	// One reader for both the command loop and confirmation prompts;
	// separate buffers would steal each other's input.
	stdin := bufio.NewReader(os.Stdin)

	page := &consolePage{client: client, fields: map[string]string{}, quantities: map[string]string{}}
	notifier := notify.NewNotifier(&consoleRegion{})
	ctrl := controller.New(client, page, &consoleConfirmer{in: stdin}, notifier)

	fmt.Printf("Grocery storefront at %s\n", baseURL)
	fmt.Println("Type 'help' for commands.")

	ctx := context.Background()
	ctrl.RefreshCartCount(ctx)

	for {
		fmt.Print("> ")
		raw, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		args := strings.Fields(line)

		switch args[0] {
		case "help":
			printHelp()
		case "products":
			listProducts(ctx, baseURL)
		case "add":
			if len(args) < 2 {
				fmt.Println("usage: add <product-id> [quantity]")
				continue
			}
			if len(args) >= 3 {
				page.quantities[args[1]] = args[2]
			}
			ctrl.AddToCart(ctx, args[1])
		case "update":
			if len(args) < 3 {
				fmt.Println("usage: update <product-id> <quantity>")
				continue
			}
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				fmt.Println("quantity must be a number")
				continue
			}
			ctrl.UpdateQuantity(ctx, args[1], qty)
		case "remove":
			if len(args) < 2 {
				fmt.Println("usage: remove <product-id>")
				continue
			}
			ctrl.RemoveFromCart(ctx, args[1])
		case "clear":
			ctrl.ClearCart(ctx)
		case "count":
			ctrl.RefreshCartCount(ctx)
		case "address":
			page.SetField(ui.FieldAddress, strings.TrimSpace(strings.TrimPrefix(line, "address")))
			fmt.Println("delivery address set")
		case "phone":
			page.SetField(ui.FieldPhone, strings.TrimSpace(strings.TrimPrefix(line, "phone")))
			fmt.Println("phone number set")
		case "order":
			ctrl.PlaceOrder(ctx)
		case "orders":
			listOrders(ctx, client)
		case "register":
			if len(args) < 4 {
				fmt.Println("usage: register <username> <email> <password>")
				continue
			}
			if session, err := client.Register(ctx, args[1], args[2], args[3]); err != nil {
				fmt.Printf("register failed: %v\n", err)
			} else {
				fmt.Printf("registered and logged in as %s\n", session.User.Username)
			}
		case "login":
			if len(args) < 3 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			if session, err := client.Login(ctx, args[1], args[2]); err != nil {
				fmt.Printf("login failed: %v\n", err)
			} else {
				fmt.Printf("logged in as %s\n", session.User.Username)
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, try 'help'\n", args[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  products                          list the catalog
  add <product-id> [quantity]       add a product to the cart
  update <product-id> <quantity>    change a cart quantity (0 removes)
  remove <product-id>               remove a product from the cart
  clear                             empty the cart
  count                             refresh the cart badge
  address <text>                    set the delivery address
  phone <number>                    set the phone number
  order                             place the order (requires login)
  orders                            list your past orders
  register <username> <email> <pw>  create an account
  login <email> <password>          log in
  quit                              leave`)
}

func listProducts(ctx context.Context, baseURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/products", nil)
	if err != nil {
		fmt.Printf("products: %v\n", err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("products: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("products: status %d: %s\n", resp.StatusCode, body)
		return
	}

	var products []struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Unit  string  `json:"unit"`
		Stock int     `json:"stock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		fmt.Printf("products: %v\n", err)
		return
	}
	for _, p := range products {
		fmt.Printf("  %-36s  %-20s %8s/%s  stock %d\n", p.ID, p.Name, validate.FormatPrice(p.Price), p.Unit, p.Stock)
	}
}

func listOrders(ctx context.Context, client *shopapi.Client) {
	orders, err := client.Orders(ctx)
	if err != nil {
		fmt.Printf("orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("  %-36s  %-10s %10s  eta %s\n",
			o.ID, o.Status, validate.FormatPrice(o.TotalAmount),
			o.EstimatedDelivery.Format("2 Jan 15:04"))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// consolePage renders the controller's page mutations to the terminal.
type consolePage struct {
	client *shopapi.Client

	mu         sync.Mutex
	fields     map[string]string
	quantities map[string]string
}

func (p *consolePage) Field(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fields[name]
}

func (p *consolePage) SetField(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[name] = value
}

func (p *consolePage) QuantityInput(productID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quantities[productID]
}

func (p *consolePage) SetQuantityInput(productID, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quantities[productID] = value
}

func (p *consolePage) SetCartCount(count int) {
	fmt.Printf("[cart: %d]\n", count)
}

func (p *consolePage) RemoveCartLine(productID string) {
	fmt.Printf("removed %s from view\n", productID)
}

// Reload re-reads the cart count, the terminal's nearest equivalent of
// re-rendering the page.
func (p *consolePage) Reload() {
	count, err := p.client.CartCount(context.Background())
	if err != nil {
		log.Printf("[Storefront] reload: %v", err)
		return
	}
	fmt.Printf("[cart: %d]\n", count)
}

func (p *consolePage) Navigate(url string) {
	fmt.Printf("-> %s\n", url)
}

// consoleConfirmer asks yes/no questions on stdin.
type consoleConfirmer struct {
	in *bufio.Reader
}

func (c *consoleConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// consoleRegion prints notifications as they appear; removal timers are
// meaningless on a scrolling terminal, so Remove is a no-op.
type consoleRegion struct{}

func (consoleRegion) Append(id string, n notify.Notification) {
	marker := "✓"
	if n.Severity == notify.SeverityError {
		marker = "✗"
	}
	fmt.Printf("%s %s\n", marker, n.Message)
}

func (consoleRegion) Remove(id string) {}
