package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	query := flag.String("query", "DevOps", "search query used by every call")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobnexus-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: *endpoint}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	listTools(ctx, session)

	call(ctx, session, "occupation_codes", map[string]any{"q": *query})
	call(ctx, session, "find_jobs", map[string]any{
		"query":     *query,
		"latitude":  48.8566,
		"longitude": 2.3522,
		"radius_km": 30,
		"area_code": "75056",
	})
	call(ctx, session, "opportunities", map[string]any{"q": *query, "limit": 5})
	call(ctx, session, "market_summary", map[string]any{"category": *query})

	fmt.Println("\nAll calls completed")
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, t := range res.Tools {
		fmt.Printf("- %s: %s\n", t.Name, t.Description)
	}
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	fmt.Printf("\nTEST: %s\n", name)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return
	}
	if result.IsError {
		log.Printf("%s returned a tool error", name)
	}

	printResult(result)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
