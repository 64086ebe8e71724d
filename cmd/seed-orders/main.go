// Command seed-orders bulk-loads orders from a JSON file (external payload
// shape) into the database. Existing order keys are skipped. Useful for demo
// and load-test environments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mfcarvalho/orders-api/internal/domain/order"
	"github.com/mfcarvalho/orders-api/internal/storage/postgres"
)

type orderJSON struct {
	NumeroPedido string          `json:"numeroPedido"`
	ValorTotal   decimal.Decimal `json:"valorTotal"`
	DataCriacao  string          `json:"dataCriacao"`
	Items        []itemJSON      `json:"items"`
}

type itemJSON struct {
	IDItem         json.Number     `json:"idItem"`
	QuantidadeItem int             `json:"quantidadeItem"`
	ValorItem      decimal.Decimal `json:"valorItem"`
}

func main() {
	var (
		databaseURL string
		ordersFile  string
		workers     int
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&ordersFile, "orders-file", "db/seed/orders.json", "path to orders JSON file")
	flag.IntVar(&workers, "workers", 4, "number of concurrent insert workers")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, ordersFile, workers); err != nil {
		slog.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, ordersFile string, workers int) error {
	raw, err := os.ReadFile(ordersFile)
	if err != nil {
		return errors.Wrap(err, "read orders file")
	}

	var payloads []orderJSON
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return errors.Wrap(err, "parse orders file")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewOrderRepository(pool)

	jobs := make(chan *order.Order)
	g, ctx := errgroup.WithContext(ctx)

	if workers < 1 {
		workers = 1
	}
	var inserted, skipped int
	results := make(chan bool)

	for range workers {
		g.Go(func() error {
			for o := range jobs {
				err := repo.Create(ctx, o)
				switch {
				case err == nil:
					results <- true
				case errors.Is(err, order.ErrDuplicate):
					slog.Warn("order exists, skipping", slog.String("order_id", o.OrderID))
					results <- false
				default:
					return errors.Wrapf(err, "insert order %q", o.OrderID)
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, p := range payloads {
			o, err := toDomain(p)
			if err != nil {
				return err
			}
			select {
			case jobs <- o:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ok := range results {
			if ok {
				inserted++
			} else {
				skipped++
			}
		}
	}()

	err = g.Wait()
	close(results)
	<-done
	if err != nil {
		return err
	}

	slog.Info("seed complete",
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped),
	)
	return nil
}

func toDomain(p orderJSON) (*order.Order, error) {
	items := make([]order.Item, len(p.Items))
	for i, item := range p.Items {
		productID, err := strconv.ParseInt(item.IDItem.String(), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "order %q item %d: idItem", p.NumeroPedido, i)
		}
		items[i] = order.Item{
			ProductID: productID,
			Quantity:  item.QuantidadeItem,
			Price:     item.ValorItem,
		}
	}
	return &order.Order{
		OrderID:      p.NumeroPedido,
		Value:        p.ValorTotal,
		CreationDate: p.DataCriacao,
		Items:        items,
	}, nil
}
