package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// SettlementReport renders a standalone HTML page for one game. The
// component is hand-maintained Go; there is no .templ source to regenerate.
func SettlementReport(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`)
		b.WriteString(templ.EscapeString(data.Name))
		b.WriteString(` | The Final Stake</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Game #`)
		b.WriteString(utoa(data.GameID))
		b.WriteString(`</span>
        <h1>`)
		b.WriteString(templ.EscapeString(data.Name))
		b.WriteString(`</h1>
        <p>Status: <strong>`)
		b.WriteString(templ.EscapeString(data.Status))
		b.WriteString(`</strong>, phase `)
		b.WriteString(itoa(data.Phase))
		b.WriteString(`, started `)
		b.WriteString(formatTime(data.StartTime))
		b.WriteString(`</p>
      </header>

      <section class="panel">
        <h2>Escrow</h2>
        <dl>
          <dt>Creator</dt><dd>`)
		b.WriteString(templ.EscapeString(data.Creator))
		b.WriteString(`</dd>
          <dt>Entry fee</dt><dd>`)
		b.WriteString(utoa(data.EntryFee))
		b.WriteString(`</dd>
          <dt>Total escrowed</dt><dd>`)
		b.WriteString(utoa(data.TotalEscrowed))
		b.WriteString(`</dd>
          <dt>Total paid out</dt><dd>`)
		b.WriteString(utoa(data.TotalPaidOut))
		b.WriteString(`</dd>
          <dt>Prize pool</dt><dd>`)
		b.WriteString(utoa(data.PrizePool))
		b.WriteString(`</dd>
          <dt>Platform fee</dt><dd>`)
		b.WriteString(utoa(data.FeeCollected))
		b.WriteString(`</dd>
          <dt>Winner</dt><dd>`)
		if data.Winner == "" {
			b.WriteString("-")
		} else {
			b.WriteString(templ.EscapeString(data.Winner))
		}
		b.WriteString(`</dd>
        </dl>
      </section>

      <section class="panel">
        <h2>Players</h2>
        <table>
          <thead><tr><th>Player</th><th>Balance</th><th>Played</th><th>Won</th><th>Qualified</th><th>Ready</th><th>Refunded</th></tr></thead>
          <tbody>
`)
		for _, player := range data.Players {
			b.WriteString(`            <tr><td>`)
			b.WriteString(templ.EscapeString(player.Name))
			b.WriteString(`</td><td>`)
			b.WriteString(utoa(player.Balance))
			b.WriteString(`</td><td>`)
			b.WriteString(itoa(player.GamesPlayed))
			b.WriteString(`</td><td>`)
			b.WriteString(itoa(player.GamesWon))
			b.WriteString(`</td><td>`)
			b.WriteString(yesNo(player.RequirementMet))
			b.WriteString(`</td><td>`)
			b.WriteString(yesNo(player.Ready))
			b.WriteString(`</td><td>`)
			b.WriteString(yesNo(player.Refunded))
			b.WriteString("</td></tr>\n")
		}
		b.WriteString(`          </tbody>
        </table>
      </section>

      <section class="panel">
        <h2>Payouts</h2>
`)
		if len(data.Payouts) == 0 {
			b.WriteString("        <p>No funds released yet.</p>\n")
		} else {
			b.WriteString(`        <table>
          <thead><tr><th>Recipient</th><th>Kind</th><th>Amount</th><th>Paid at</th></tr></thead>
          <tbody>
`)
			for _, payout := range data.Payouts {
				b.WriteString(`            <tr><td>`)
				b.WriteString(templ.EscapeString(payout.Recipient))
				b.WriteString(`</td><td>`)
				b.WriteString(templ.EscapeString(payout.Kind))
				b.WriteString(`</td><td>`)
				b.WriteString(utoa(payout.Amount))
				b.WriteString(`</td><td>`)
				b.WriteString(formatTime(payout.PaidAt))
				b.WriteString("</td></tr>\n")
			}
			b.WriteString(`          </tbody>
        </table>
`)
		}
		b.WriteString(`      </section>
      <footer>Generated `)
		b.WriteString(formatTime(data.GeneratedAt))
		b.WriteString(`</footer>
    </main>
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
