// Command poloctl - консольный клиент администратора: просмотр заказов и смена статусов.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agamariel/polofashions/internal/client"
	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const usage = `usage: poloctl [-addr URL] [-token TOKEN] <command> [args]

commands:
  login <login> <password>   print an access token
  orders [-status s]         list orders
  show <id>                  order card with allowed next statuses
  history <id>               status history
  advance <id> <status>      move an order to the next status
  cancel <id>                cancel an order
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "poloctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("poloctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	addr := fs.String("addr", envOr("POLO_ADDR", "http://localhost:8080"), "server address")
	token := fs.String("token", os.Getenv("POLO_TOKEN"), "access token")
	directPickup := fs.Bool("direct-pickup", os.Getenv("ORDER_FLOW_DIRECT_PICKUP") == "true", "allow processing -> ready_for_pickup for stitched orders")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("command is required")
	}

	cmd := &command{
		api:  client.New(*addr, client.WithToken(*token)),
		flow: orderflow.New(orderflow.WithDirectPickup(*directPickup)),
		out:  out,
	}

	rest := fs.Args()[1:]
	switch fs.Arg(0) {
	case "login":
		return cmd.login(ctx, rest)
	case "orders":
		return cmd.orders(ctx, rest)
	case "show":
		return cmd.show(ctx, rest)
	case "history":
		return cmd.history(ctx, rest)
	case "advance":
		return cmd.advance(ctx, rest)
	case "cancel":
		return cmd.cancel(ctx, rest)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", fs.Arg(0))
}

type command struct {
	api  *client.Client
	flow *orderflow.Flow
	out  io.Writer
}

func (c *command) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <login> <password>")
	}
	user, err := c.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if user.Role != models.RoleAdmin {
		fmt.Fprintln(os.Stderr, "warning: account has no admin role")
	}
	fmt.Fprintln(c.out, c.api.Token())
	return nil
}

func (c *command) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := c.api.ListOrders(ctx, *status)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tTYPE\tSTATUS\tNEXT\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, o.OrderType, orderflow.Label(o.Status), c.nextLabels(o), o.TotalPrice.StringFixed(2))
	}
	return w.Flush()
}

func (c *command) show(ctx context.Context, args []string) error {
	id, err := orderID(args, 1)
	if err != nil {
		return err
	}
	o, err := c.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Order\t%s\n", o.ID)
	fmt.Fprintf(w, "Customer\t%s\n", o.CustomerName)
	fmt.Fprintf(w, "Item\t%s (%s)\n", o.ItemName, o.OrderType)
	fmt.Fprintf(w, "Category\t%s\n", o.Category)
	fmt.Fprintf(w, "Status\t%s [%s]\n", orderflow.Label(o.Status), orderflow.Color(o.Status))
	fmt.Fprintf(w, "Next\t%s\n", c.nextLabels(o))
	fmt.Fprintf(w, "Total\t%s\n", o.TotalPrice.StringFixed(2))
	if o.PickedUpAt != nil {
		fmt.Fprintf(w, "Picked up\t%s\n", *o.PickedUpAt)
	}
	return w.Flush()
}

func (c *command) history(ctx context.Context, args []string) error {
	id, err := orderID(args, 1)
	if err != nil {
		return err
	}
	changes, err := c.api.History(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tFROM\tTO")
	for _, ch := range changes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ch.ChangedAt.Format(time.DateTime), orderflow.Label(ch.FromStatus), orderflow.Label(ch.ToStatus))
	}
	return w.Flush()
}

// advance проверяет переход локально до обращения к серверу.
func (c *command) advance(ctx context.Context, args []string) error {
	id, err := orderID(args, 2)
	if err != nil {
		return err
	}
	target := orderflow.Normalize(args[1])
	if !target.Valid() {
		return fmt.Errorf("unknown status %q", args[1])
	}

	o, err := c.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != target && !c.flow.CanTransition(o.Category, o.Status, target) {
		return fmt.Errorf("%s order cannot go from %s to %s (allowed: %s)",
			o.Category, o.Status, target, c.nextLabels(o))
	}

	updated, err := c.api.UpdateStatus(ctx, id, string(target))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %s -> %s\n", updated.ID, orderflow.Label(o.Status), orderflow.Label(updated.Status))
	return nil
}

func (c *command) cancel(ctx context.Context, args []string) error {
	id, err := orderID(args, 1)
	if err != nil {
		return err
	}
	o, err := c.api.Cancel(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %s\n", o.ID, orderflow.Label(o.Status))
	return nil
}

func (c *command) nextLabels(o *models.OrderResponse) string {
	next := c.flow.NextStatuses(o.Category, o.Status)
	if len(next) == 0 {
		return "-"
	}
	labels := make([]string, 0, len(next))
	for _, s := range next {
		labels = append(labels, orderflow.Label(s))
	}
	return strings.Join(labels, ", ")
}

func orderID(args []string, want int) (uuid.UUID, error) {
	if len(args) != want {
		return uuid.Nil, fmt.Errorf("expected %d argument(s), got %d", want, len(args))
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid order id %q", args[0])
	}
	return id, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
