package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
	md "github.com/nao1215/markdown"
)

func SummaryMarkdown(s *wheelhouse.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := fmt.Sprintf("Account Summary on %s", date.FromTime(s.Generated))
	if s.Lifetime {
		title += " (lifetime)"
	}
	doc.H1(title)
	if len(s.Excluded) > 0 {
		doc.PlainText(fmt.Sprintf("Excluded tickers: %s", strings.Join(s.Excluded, ", ")))
	}

	doc.H2("Realized P/L")
	realized := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Total Realized"),
			md.Bold(s.TotalRealized.SignedString()),
		},
		Rows: [][]string{
			{"Closed Campaigns", s.ClosedCampaigns.SignedString()},
			{"Open Campaign Premiums", s.OpenPremiums.SignedString()},
			{"Standalone Options", s.StandalonePnL.SignedString()},
			{"Dividends", s.Income.Dividends.SignedString()},
			{"Net Interest", s.Income.NetInterest.SignedString()},
		},
	}
	if !s.Income.Fees.IsZero() {
		realized.Rows = append(realized.Rows, []string{"Fees and Adjustments", s.Income.Fees.SignedString()})
	}
	doc.Table(realized)

	switch {
	case s.HouseMoney:
		doc.PlainText("Withdrawals exceed deposits: the account is playing with house money, a return on net deposits is not defined.")
	case s.RORKnown:
		doc.PlainText(fmt.Sprintf("Realized return on net deposits: %s over %d days.", s.ROR, s.AccountDays))
	}
	if s.CapEffKnown {
		doc.PlainText(fmt.Sprintf("Capital efficiency: %s annualized on deployed capital.", s.CapEff))
	}

	doc.H2(fmt.Sprintf("Window %s", s.WindowName))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Window P/L"),
			md.Bold(s.WindowPnL.SignedString()),
		},
		Rows: [][]string{
			{"Prior Window", s.PriorPnL.SignedString()},
			{"Delta", s.Delta().SignedString()},
		},
	})

	doc.H2("Account")
	account := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Capital Deployed", s.CapitalDeployed.String()},
			{"Cash Balance", s.CashBalance.String()},
			{"Net Deposited", s.NetDeposited.String()},
		},
	}
	if !s.MarginLoan.IsZero() {
		account.Rows = append(account.Rows, []string{"Margin Loan", s.MarginLoan.String()})
	}
	doc.Table(account)

	doc.H2("Book")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Count", "Value"},
		Rows: [][]string{
			{"Wheel Tickers", fmt.Sprintf("%d", s.WheelTickers)},
			{"Standalone Tickers", fmt.Sprintf("%d", s.Standalone)},
			{"Open Campaigns", fmt.Sprintf("%d", s.OpenCount)},
			{"Closed Campaigns", fmt.Sprintf("%d", s.ClosedCount)},
			{"Closed Trades (window)", fmt.Sprintf("%d of %d", s.TradesClosed, s.TradesAll)},
			{"Open Positions", fmt.Sprintf("%d", s.OpenPositions)},
		},
	})

	if len(s.Alerts) > 0 {
		doc.H2("Expiring Soon")
		alerts := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Ticker", "Contract", "DTE", "Qty"},
		}
		for _, a := range s.Alerts {
			alerts.Rows = append(alerts.Rows, []string{
				a.Ticker,
				a.Label,
				fmt.Sprintf("%d", a.DTE),
				fmt.Sprintf("%d", a.Qty),
			})
		}
		doc.Table(alerts)
	}

	return doc.String()
}
