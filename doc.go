// Package wheelhouse turns a broker's raw transaction history export into
// realized-performance analytics for premium-selling accounts. It is
// designed to be local-first and auditable: every figure traces back to the
// export's own rows, with no market data feed involved.
//
// The core functionalities include:
//   - Ingestion: Importing CSV and JSON history exports into a normalized,
//     chronological ledger of rows, deriving signed quantities and
//     classification once so downstream stages never re-parse broker text.
//   - Corporate Actions: Detecting stock splits from zero-cost share
//     deliveries and rescaling pre-split lots so quantities stay comparable
//     across the event.
//   - Wheel Campaigns: Replaying each ticker's share history into holding
//     campaigns, crediting option premium and dividends against cost to
//     track the effective break-even per share.
//   - Trade Classification: Grouping option legs into closed trades by
//     shared opening order, naming the strategy, and scoring capture rate
//     and annualized return on capital at risk.
//   - Roll Chains: Linking short option positions across rolls into
//     continuous chains per ticker and side.
//   - Reports: Stateless snapshot calculations feeding window-scoped views
//     of realized P/L, income, open positions, and the trade scorecard.
//   - Data Persistence: Encoding and decoding the normalized ledger in a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `whx` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package wheelhouse
