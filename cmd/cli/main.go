// Command cli computes one dashboard view from a survey file and prints it
// as a text table, for quick checks without a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"failboard/adapters/tabular"
	"failboard/app"
	"failboard/domain/survey"
	"failboard/domain/view"
	"failboard/internal"
)

func main() {
	file := flag.String("file", "voice-assistant-failures.csv", "survey CSV or XLSX file")
	viewName := flag.String("view", "failure-types-by-accent", "view to compute")
	filterSpec := flag.String("filter", "", "filters as field=v1|v2 pairs joined by commas, e.g. accent=Yes,gender=Woman|Man")
	list := flag.Bool("list", false, "list available views and exit")
	flag.Parse()

	registry := view.DefaultRegistry()
	if *list {
		for _, v := range registry {
			fmt.Printf("%-28s %s\n", v.Name, v.Title)
		}
		return
	}

	filter, err := parseFilterSpec(*filterSpec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -filter:", err)
		os.Exit(2)
	}

	logger := internal.NewLogger(internal.LogLevelWarn)
	source := tabular.Open(*file, 42, 120, logger)
	service := app.NewDashboardService(source, registry, logger)

	result, err := service.RenderView(context.Background(), *viewName, filter, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := make([]string, 0, len(result.Config.GroupBy)+1)
	for _, f := range result.Config.GroupBy {
		header = append(header, string(f))
	}
	header = append(header, "count")
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, g := range result.Groups {
		fmt.Fprintf(w, "%s\t%d\n", strings.Join(g.Key, "\t"), g.Count)
	}
	w.Flush()
}

// parseFilterSpec decodes "accent=Yes,gender=Woman|Man" into a FilterState.
func parseFilterSpec(spec string) (view.FilterState, error) {
	filter := view.NewFilterState()
	if spec == "" {
		return filter, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return filter, fmt.Errorf("expected field=values, got %q", pair)
		}
		field, ok := survey.ParseField(parts[0])
		if !ok {
			return filter, fmt.Errorf("unknown field %q", parts[0])
		}
		values := strings.Split(parts[1], "|")
		filter.Accept[field] = view.NewValueSet(values...)
	}
	return filter, nil
}
