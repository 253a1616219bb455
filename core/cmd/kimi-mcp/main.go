package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	kimi "github.com/harshanarayana/kimi/core"
)

// tools evaluates requests against a shared root environment. The root is
// never written after startup; every evaluation gets its own child scope, so
// concurrent requests cannot see each other's definitions.
type tools struct {
	root      *kimi.Environment
	evaluator *kimi.Evaluator
}

func newTools() *tools {
	return &tools{root: kimi.StandardEnvironment(), evaluator: &kimi.Evaluator{}}
}

func (t *tools) eval(expr string) (kimi.Value, error) {
	return t.evaluator.Run(expr, kimi.NewEnvironment("request", t.root))
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
	Pos   int    `json:"pos"`
}

func tokenize(expr string) ([]tokenJSON, error) {
	tokens, err := kimi.Tokenize(expr)
	if err != nil {
		return nil, err
	}
	out := make([]tokenJSON, len(tokens))
	for i, tok := range tokens {
		out[i] = tokenJSON{Kind: tok.Kind.String(), Pos: tok.Pos}
		switch tok.Kind {
		case kimi.TokSymbol:
			out[i].Value = tok.Text
		case kimi.TokLiteral:
			if tok.Lit.Kind == kimi.ValInt {
				out[i].Value = tok.Lit.Int
			} else {
				out[i].Value = tok.Lit.Str
			}
		}
	}
	return out, nil
}

func parse(expr string) (kimi.Node, error) {
	tokens, err := kimi.Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return kimi.Parse(tokens)
}

func (t *tools) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := t.eval(expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(v.String()), nil
}

func (t *tools) handleTokenize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tokens, err := tokenize(expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tokens: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (t *tools) handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, err := parse(expr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(node.String()), nil
}

func main() {
	// stdout carries the protocol, so logs go to stderr.
	log.SetOutput(os.Stderr)

	t := newTools()
	s := server.NewMCPServer(
		"kimi",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("kimi_eval",
			mcp.WithDescription("Evaluate a kimi program in a fresh scope over the standard environment. Returns the printed result."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Program to evaluate, e.g. (do (define x 2) (* x x))"),
			),
		),
		t.handleEval,
	)

	s.AddTool(
		mcp.NewTool("kimi_tokenize",
			mcp.WithDescription("Tokenize a kimi program. Returns the tokens as JSON."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Program text to tokenize"),
			),
		),
		t.handleTokenize,
	)

	s.AddTool(
		mcp.NewTool("kimi_parse",
			mcp.WithDescription("Parse a kimi program and return its canonical form."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Program text to parse"),
			),
		),
		t.handleParse,
	)

	log.Printf("kimi MCP server ready on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
