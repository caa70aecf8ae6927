package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/docs"
	"github.com/etnz/wheelhouse/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert skills you can reach through the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user runs the wheel: selling cash-secured puts, taking assignment, selling covered
			calls against the shares. He is here to understand his realized numbers, not to get
			trading advice. Never invent figures, always get them from the Mechanic.

			Devise a plan of questions to ask each expert and come up with the best response to
			the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewCoach returns the expert on wheel mechanics. It answers from the
// embedded documentation, without tools.
func NewCoach() *Expert {
	return &Expert{
		Name: "Coach",
		Description: `This is the Coach. He knows the method: how campaigns, FIFO matching,
		roll chains, strategy classification and split adjustment work in this tool.
		Ask the Coach whenever the user wants a concept explained or a number interpreted.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a coach for wheel-strategy traders. Answer concept questions using the
			reference material below. Stay with realized accounting, never give trading advice.

			` + must(docs.GetTopics("*"))}}},
		},
	}
}

// NewMechanic returns the expert operating the user's ledger. Its tools are
// read-only reports over the ledger file.
func NewMechanic(ledgerPath string) *Expert {
	lib := []Function{
		summaryFunc(ledgerPath),
		campaignsFunc(ledgerPath),
		tradesFunc(ledgerPath),
		positionsFunc(ledgerPath),
	}

	return &Expert{
		Name: "Mechanic",
		Description: `This is the Mechanic. He is in charge of reading the user's broker ledger.
		He can compute every realized figure: account summary, wheel campaigns, closed trades
		and open positions.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the mechanic in charge of the user's broker ledger.
				You know how to use the Tools to extract the realized figures about the account.
				You are part of a team of experts, yours is everything in the ledger. They might
				ask approximative questions, pardon their language and figure out what they meant.

				Use the available tools to report on
				  - the account summary
				  - wheel campaigns
				  - closed option trades
				  - open positions
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

const windowDoc = `The reporting window: one of "all", "ytd", "365d", "182d", "90d", "30d"
or "7d", counted back from the most recent ledger row. "all" is the default.`

// windowSchema is the shared parameter schema of the windowed tools.
func windowSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"window": {
				Type:        genai.TypeString,
				Description: windowDoc,
			},
		},
	}
}

// markdownResponse is the shared response schema of all report tools.
func markdownResponse(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeString,
		Description: desc,
	}
}

func summaryFunc(ledgerPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary reports the account: total realized P/L and its parts, return
			on net deposits, capital deployed, cash balance, the window P/L against the prior
			period, and expiry alerts.`,
			Parameters: windowSchema(),
			Response:   markdownResponse("A markdown account summary."),
		},
		Func: report("Summary", func(window string) (string, error) {
			s, err := loadSnapshot(ledgerPath)
			if err != nil {
				return "", err
			}
			summary, err := wheelhouse.NewSummary(s, window)
			if err != nil {
				return "", err
			}
			return renderer.SummaryMarkdown(summary), nil
		}),
	}
}

func campaignsFunc(ledgerPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Campaigns",
			Description: `Campaigns lists every wheel campaign: shares, cost, blended and
			effective basis, banked premiums and dividends, the event timeline and the
			option roll chains.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response:   markdownResponse("A markdown campaign report."),
		},
		Func: report("Campaigns", func(string) (string, error) {
			s, err := loadSnapshot(ledgerPath)
			if err != nil {
				return "", err
			}
			return renderer.CampaignsMarkdown(wheelhouse.NewCampaignsReport(s, "")), nil
		}),
	}
}

func tradesFunc(ledgerPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Trades",
			Description: `Trades lists closed option trades with win rate, premium capture,
			days held, annualized return, and rollups by type, strategy, ticker and month.`,
			Parameters: windowSchema(),
			Response:   markdownResponse("A markdown closed-trades report."),
		},
		Func: report("Trades", func(window string) (string, error) {
			s, err := loadSnapshot(ledgerPath)
			if err != nil {
				return "", err
			}
			trades, err := wheelhouse.NewTradesReport(s, window)
			if err != nil {
				return "", err
			}
			return renderer.TradesMarkdown(trades), nil
		}),
	}
}

func positionsFunc(ledgerPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Positions",
			Description: `Positions lists open share lots and option contracts per ticker with
			the detected strategy, cost basis and days to expiration.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response:   markdownResponse("A markdown open-positions report."),
		},
		Func: report("Positions", func(string) (string, error) {
			s, err := loadSnapshot(ledgerPath)
			if err != nil {
				return "", err
			}
			return renderer.PositionsMarkdown(wheelhouse.NewPositionsReport(s)), nil
		}),
	}
}

// report adapts a window-taking render function into the Func callback shape,
// mapping errors into the function response.
func report(name string, render func(window string) (string, error)) func(context.Context, string, map[string]any) *genai.FunctionResponse {
	return func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
		fresp := &genai.FunctionResponse{
			ID:       id,
			Name:     name,
			Response: map[string]any{},
		}

		window, err := parseWindow(args)
		if err != nil {
			fresp.Response["error"] = err.Error()
			return fresp
		}

		out, err := render(window)
		if err != nil {
			fresp.Response["error"] = err.Error()
			return fresp
		}
		fresp.Response["output"] = out
		return fresp
	}
}

// loadSnapshot reads the ledger file and builds the aggregate snapshot the
// tools report on. A missing file is an empty ledger.
func loadSnapshot(ledgerPath string) (*wheelhouse.Snapshot, error) {
	f, err := os.Open(ledgerPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wheelhouse.NewSnapshot(wheelhouse.NewLedger(), false), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", ledgerPath, err)
	}
	defer f.Close()

	ledger, err := wheelhouse.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", ledgerPath, err)
	}
	return wheelhouse.NewSnapshot(ledger, false), nil
}

func parseWindow(args map[string]any) (string, error) {
	iwindow, hasWindow := args["window"]
	if !hasWindow {
		return "all", nil
	}
	swindow, ok := iwindow.(string)
	if !ok {
		return "", fmt.Errorf("argument 'window' is not a string as expected but %T", iwindow)
	}
	if swindow == "" {
		return "all", nil
	}
	return swindow, nil
}
