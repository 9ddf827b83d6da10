// Package console is the interactive text front end: a numbered menu that
// translates operator input into service calls and prints result tables.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"stockdesk/internal/core/apperror"
	appctx "stockdesk/internal/core/context"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/domain/thirdparty"
	"stockdesk/pkg/logger"
)

// Services groups what the menus call into.
type Services struct {
	Products  *product.Service
	Parties   *thirdparty.Service
	Purchases *purchase.Service
	Catalogs  *catalog.Store
}

// Console runs the menu loop over one input and one output stream.
type Console struct {
	svc Services
	in  *prompter
	out io.Writer
}

// New creates a console reading operator input from in and printing to out.
func New(svc Services, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc: svc,
		in:  newPrompter(in, out),
		out: out,
	}
}

type menuItem struct {
	key   string
	label string
	name  string // operation name for logs
	run   func(ctx context.Context) error
}

// Run shows the main menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	items := []menuItem{
		{"1", "Gestionar Productos", "", c.productsMenu},
		{"2", "Gestionar Terceros", "", c.partiesMenu},
		{"3", "Registrar Nueva Compra", "purchase.register", c.registerPurchase},
		{"4", "Gestionar Compras", "", c.purchasesMenu},
	}

	err := c.loop(ctx, "stockdesk - MENÚ PRINCIPAL", "S", "Salir", items)
	c.println("Saliendo de la aplicación...")
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// loop renders a menu and dispatches choices until the back key is entered.
// It returns io.EOF when input runs out.
func (c *Console) loop(ctx context.Context, title, backKey, backLabel string, items []menuItem) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println("")
		c.println(strings.Repeat("=", 38))
		c.println("   " + title)
		c.println(strings.Repeat("=", 38))
		for _, it := range items {
			c.printf("%s. %s\n", it.key, it.label)
		}
		c.println(strings.Repeat("-", 38))
		c.printf("%s. %s\n", backKey, backLabel)

		choice, err := c.in.line("Seleccione una opción: ")
		if err != nil {
			return err
		}
		choice = strings.ToUpper(strings.TrimSpace(choice))
		if choice == backKey {
			return nil
		}

		var selected *menuItem
		for i := range items {
			if items[i].key == choice {
				selected = &items[i]
				break
			}
		}
		if selected == nil {
			c.println("Opción no válida.")
			continue
		}

		if selected.name == "" {
			// Sub-menu
			if err := selected.run(ctx); err != nil {
				return err
			}
			continue
		}
		if err := c.do(ctx, selected.name, selected.run); err != nil {
			return err
		}
	}
}

// do runs one menu action under its own operation id. Service errors are
// reported and the session continues; only io.EOF and context errors stop
// the loop.
func (c *Console) do(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	ctx = appctx.StartOperation(ctx, name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
			)
			c.report(ctx, apperror.NewInternal(fmt.Errorf("panic: %v", r)))
			err = nil
		}
	}()

	logger.Debug(ctx, "operation started")

	runErr := fn(ctx)
	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, io.EOF), errors.Is(runErr, context.Canceled):
		return runErr
	default:
		c.report(ctx, runErr)
		return nil
	}
}

func (c *Console) report(ctx context.Context, err error) {
	if appErr, ok := apperror.AsAppError(err); ok && appErr.Err != nil {
		logger.Error(ctx, "operation failed",
			"code", appErr.Code,
			"cause", appErr.Err,
		)
	} else if !ok {
		logger.Error(ctx, "unhandled error", "error", err)
	} else {
		logger.Info(ctx, "operation rejected", "code", appErr.Code, "message", appErr.Message)
	}
	c.println("Error: " + UserMessage(err))
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
