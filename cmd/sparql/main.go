package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mirella-sparql/mirella/diagnostics"
	"github.com/mirella-sparql/mirella/engine"
	_ "github.com/mirella-sparql/mirella/printer"
	"github.com/mirella-sparql/mirella/store"
)

func main() {
	var interactive bool
	var help bool
	var verbose bool
	var queryName string

	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (show query diagnostics)")
	flag.StringVar(&queryName, "query", "", "run a single named demo query and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A SPARQL 1.1 query engine over an in-memory demo graph.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Run the demo query suite\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i                     # Interactive mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -verbose                # Demo suite with diagnostics\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query all-people       # Run a single named query\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	var handler diagnostics.Handler
	if verbose {
		handler = diagnostics.ConsoleHandler()
	}
	eng := engine.NewQueryEngine(engine.DefaultEngineOptions(), handler)
	graph := buildDemoGraph()

	switch {
	case queryName != "":
		runNamedQuery(eng, graph, queryName)
	case interactive:
		runInteractive(eng, graph)
	default:
		runDemoSuite(eng, graph)
	}
}

func runDemoSuite(eng *engine.QueryEngine, graph *store.Graph) {
	fmt.Println("=== Mirella SPARQL Demo ===")
	for _, dq := range demoQueries() {
		runOne(eng, graph, dq)
	}
}

func runNamedQuery(eng *engine.QueryEngine, graph *store.Graph, name string) {
	for _, dq := range demoQueries() {
		if dq.name == name {
			runOne(eng, graph, dq)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "unknown query %q; use -i and .list to see available names\n", name)
	os.Exit(1)
}

func runOne(eng *engine.QueryEngine, graph *store.Graph, dq demoQuery) {
	q := dq.build()
	fmt.Printf("\n--- %s ---\n%s\n\n", dq.name, q.String())

	res, err := eng.Select(context.Background(), q, graph)
	if err != nil {
		fmt.Printf("Execution error: %v\n", err)
		return
	}
	fmt.Println(res.Table())
}

func runInteractive(eng *engine.QueryEngine, graph *store.Graph) {
	fmt.Println("=== Mirella SPARQL Interactive Mode ===")
	fmt.Println("Commands:")
	fmt.Println("  .list         - List available demo queries")
	fmt.Println("  .run <name>   - Run a demo query by name")
	fmt.Println("  .describe <n> - DESCRIBE the nth demo person (0, 1, 2)")
	fmt.Println("  .exit         - Exit")
	fmt.Println()

	queries := demoQueries()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ".exit":
			return
		case line == ".list":
			for _, dq := range queries {
				fmt.Println("  " + dq.name)
			}
		case strings.HasPrefix(line, ".run "):
			runNamedQuery(eng, graph, strings.TrimPrefix(line, ".run "))
		case strings.HasPrefix(line, ".describe "):
			runDescribe(eng, graph, strings.TrimPrefix(line, ".describe "))
		case line == "":
			// ignore
		default:
			fmt.Println("Unknown command. Use .list, .run <name>, .describe <n>, or .exit.")
		}
	}
}

func runDescribe(eng *engine.QueryEngine, graph *store.Graph, arg string) {
	people := []string{"alice", "bob", "charlie"}
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(people) {
		fmt.Printf("expected an index 0-%d\n", len(people)-1)
		return
	}
	q := demoDescribeQuery(people[idx])
	res, err := eng.Describe(context.Background(), q, graph)
	if err != nil {
		fmt.Printf("Execution error: %v\n", err)
		return
	}
	for _, t := range res.Triples {
		fmt.Println(t.String())
	}
}
