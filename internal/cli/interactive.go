package cli

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/catalog"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/util"
)

const replHelp = `Commands:
  next | prev | page N        move between pages
  sort FIELD [asc|desc]       sort by title, category, price or stock
  search QUERY                search products, "clear" resets
  view products|analytics     switch view
  add key=value ...           create a product (title, description, price, category, stock, brand)
  edit ID key=value ...       update a product
  delete ID                   delete a product
  refresh                     reload the current page
  help                        show this help
  quit                        exit`

var errQuit = errors.New("quit")

func (a *app) interactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"ui"},
		Short:   "Run the dashboard as an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(a.api, a.cfg.PageSize, cmd.OutOrStdout())
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type session struct {
	api     ProductAPI
	catalog *catalog.Service
	ctrl    *dashboard.Controller
	out     io.Writer
}

func newSession(api ProductAPI, pageSize int, out io.Writer) *session {
	svc := catalog.NewService(api)
	return &session{
		api:     api,
		catalog: svc,
		ctrl:    dashboard.NewController(api, svc, pageSize),
		out:     out,
	}
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	if err := s.ctrl.Start(ctx); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	s.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		err = s.exec(ctx, args)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *session) exec(ctx context.Context, args []string) error {
	st := s.ctrl.State()
	p := st.Pagination

	switch cmd, rest := strings.ToLower(args[0]), args[1:]; cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, replHelp)
		return nil
	case "next":
		if p.Skip+p.Limit >= p.Total {
			fmt.Fprintln(s.out, "already on the last page")
			return nil
		}
		return s.dispatch(ctx, dashboard.PageChanged{Skip: p.Skip + p.Limit})
	case "prev":
		if p.Skip == 0 {
			fmt.Fprintln(s.out, "already on the first page")
			return nil
		}
		return s.dispatch(ctx, dashboard.PageChanged{Skip: p.Skip - p.Limit})
	case "page":
		if len(rest) != 1 {
			return errors.New("usage: page N")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", rest[0])
		}
		return s.dispatch(ctx, dashboard.PageChanged{Skip: (n - 1) * p.Limit})
	case "sort":
		switch len(rest) {
		case 1:
			return s.dispatch(ctx, dashboard.SortRequested{Field: rest[0]})
		case 2:
			dir := dashboard.SortDirection(strings.ToLower(rest[1]))
			if dir != dashboard.SortAsc && dir != dashboard.SortDesc {
				return fmt.Errorf("invalid sort direction %q", rest[1])
			}
			return s.dispatch(ctx, dashboard.SortChanged{Field: rest[0], Direction: dir})
		default:
			return errors.New("usage: sort FIELD [asc|desc]")
		}
	case "search":
		return s.dispatch(ctx, dashboard.SearchSubmitted{Query: strings.Join(rest, " ")})
	case "clear":
		return s.dispatch(ctx, dashboard.SearchSubmitted{Query: ""})
	case "view":
		if len(rest) != 1 {
			return errors.New("usage: view products|analytics")
		}
		v := dashboard.View(strings.ToLower(rest[0]))
		if v != dashboard.ViewProducts && v != dashboard.ViewAnalytics {
			return fmt.Errorf("unknown view %q", rest[0])
		}
		return s.dispatch(ctx, dashboard.ViewChanged{View: v})
	case "refresh":
		err := s.ctrl.Refresh(ctx)
		s.render()
		return err
	case "add":
		input, err := parseInput(model.ProductInput{}, rest)
		if err != nil {
			return err
		}
		return s.submit(ctx, nil, input)
	case "edit":
		if len(rest) < 1 {
			return errors.New("usage: edit ID key=value ...")
		}
		product, err := s.lookup(ctx, rest[0])
		if err != nil {
			return err
		}
		input, err := parseInput(model.InputFromProduct(product), rest[1:])
		if err != nil {
			return err
		}
		return s.submit(ctx, &product, input)
	case "delete":
		if len(rest) != 1 {
			return errors.New("usage: delete ID")
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid product id %q", rest[0])
		}
		deleted, err := s.catalog.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted.DeletedOn != nil {
			fmt.Fprintf(s.out, "deleted product %d (%s) on %s\n", deleted.ID, deleted.Title, util.FormatDate(*deleted.DeletedOn))
		} else {
			fmt.Fprintf(s.out, "deleted product %d (%s)\n", deleted.ID, deleted.Title)
		}
		err = s.ctrl.Refresh(ctx)
		s.render()
		return err
	default:
		return fmt.Errorf("unknown command %q, type help", args[0])
	}
}

func (s *session) dispatch(ctx context.Context, e dashboard.Event) error {
	err := s.ctrl.Dispatch(ctx, e)
	s.render()
	return err
}

func (s *session) submit(ctx context.Context, editing *model.Product, input model.ProductInput) error {
	if err := s.ctrl.Dispatch(ctx, dashboard.FormOpened{Editing: editing}); err != nil {
		return err
	}
	saved, err := s.ctrl.Submit(ctx, input)
	if err != nil {
		_ = s.ctrl.Dispatch(ctx, dashboard.FormClosed{})
		var ve catalog.ValidationErrors
		if errors.As(err, &ve) {
			for _, field := range []string{"title", "price", "category", "stock"} {
				if msg, ok := ve[field]; ok {
					fmt.Fprintf(s.out, "  %s: %s\n", field, msg)
				}
			}
		}
		return err
	}
	fmt.Fprintf(s.out, "saved product %d (%s)\n", saved.ID, saved.Title)
	s.render()
	return nil
}

// lookup prefers the loaded page and falls back to the API.
func (s *session) lookup(ctx context.Context, raw string) (model.Product, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product id %q", raw)
	}
	for _, p := range s.ctrl.State().Products {
		if p.ID == id {
			return p, nil
		}
	}
	return s.api.GetProduct(ctx, id)
}

func (s *session) render() {
	st := s.ctrl.State()
	if st.Err != nil {
		fmt.Fprintf(s.out, "failed to load products: %v\n", st.Err)
	}
	if st.View == dashboard.ViewAnalytics {
		renderReport(s.out, s.ctrl.Analytics())
		return
	}
	if st.SearchQuery != "" {
		fmt.Fprintf(s.out, "Results for %q\n", st.SearchQuery)
	}
	if st.Sort != nil {
		fmt.Fprintf(s.out, "Sorted by %s %s\n", st.Sort.Field, st.Sort.Direction)
	}
	renderProducts(s.out, st.Products)
	renderPagination(s.out, st.Pagination, len(st.Products))
}

// splitArgs splits a command line on spaces, honoring double quotes.
func splitArgs(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return lo.Compact(fields), nil
}

// parseInput applies key=value pairs on top of base. Unparseable numbers leave the
// field unset so validation reports it.
func parseInput(base model.ProductInput, pairs []string) (model.ProductInput, error) {
	in := base
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return in, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch strings.ToLower(key) {
		case "title":
			in.Title = value
		case "description":
			in.Description = value
		case "category":
			in.Category = value
		case "brand":
			in.Brand = value
		case "price":
			in.Price = nil
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				in.Price = &v
			}
		case "stock":
			in.Stock = nil
			if v, err := strconv.Atoi(value); err == nil {
				in.Stock = &v
			}
		default:
			return in, fmt.Errorf("unknown field %q", key)
		}
	}
	return in, nil
}
