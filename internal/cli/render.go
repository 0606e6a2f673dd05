package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/SscSPs/multicurrency_tracker/internal/utils/currency"
	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func rateLabel(r dto.ResolvedRateResponse) string {
	label := r.Method
	if r.Via != "" {
		label += " via " + r.Via
	}
	return label
}

// RenderConversion writes a conversion result as markdown.
func RenderConversion(b *strings.Builder, res *dto.ConversionResponse) {
	fmt.Fprintf(b, "# %s → %s\n\n", res.Rate.FromCurrencyCode, res.Rate.ToCurrencyCode)
	fmt.Fprintf(b, "**%s** = **%s**\n\n",
		currency.Format(res.Amount, res.Rate.FromCurrencyCode),
		currency.Format(res.ConvertedAmount, res.Rate.ToCurrencyCode))
	b.WriteString("| Rate | Effective date | Method | Source |\n")
	b.WriteString("|---:|---|---|---|\n")
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n", res.Rate.Rate, res.Rate.EffectiveDate, rateLabel(res.Rate), cell(res.Rate.Source))
}

// RenderRates writes stored rates as a markdown table.
func RenderRates(b *strings.Builder, res *dto.ListExchangeRatesResponse) {
	b.WriteString("# Exchange rates\n\n")
	if len(res.Rates) == 0 {
		b.WriteString("No rates stored.\n")
		return
	}
	b.WriteString("| From | To | Rate | Valid date | Source |\n")
	b.WriteString("|---|---|---:|---|---|\n")
	for _, r := range res.Rates {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", r.FromCurrencyCode, r.ToCurrencyCode, r.Rate, r.ValidDate, cell(r.Source))
	}
}

// RenderBalance writes one owner's balance report. owner may be empty.
func RenderBalance(b *strings.Builder, owner string, res *dto.BalanceResponse) {
	title := "Balance"
	if owner != "" {
		title += " of " + owner
	}
	fmt.Fprintf(b, "# %s\n\n", title)
	fmt.Fprintf(b, "Total: **%s** as of %s\n\n", currency.Format(res.Total, res.ReportingCurrency), res.AsOf)
	if res.HasStaleRates {
		b.WriteString("> Some balances use a rate older than the requested date.\n\n")
	}
	if res.UnavailableCount > 0 {
		fmt.Fprintf(b, "> %d instrument(s) could not be converted and are left out of the total.\n\n", res.UnavailableCount)
	}
	if len(res.Instruments) == 0 {
		b.WriteString("No active payment instruments.\n")
		return
	}
	fmt.Fprintf(b, "| Instrument | Native | %s | Rate |\n", res.ReportingCurrency)
	b.WriteString("|---|---:|---:|---|\n")
	for _, in := range res.Instruments {
		converted, rate := "n/a", "unavailable"
		if in.ConvertedBalance != nil {
			converted = currency.Format(*in.ConvertedBalance, res.ReportingCurrency)
		}
		if in.Rate != nil {
			rate = fmt.Sprintf("%s (%s)", in.Rate.Rate, in.Rate.EffectiveDate)
			if in.Stale {
				rate += " stale"
			}
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(in.Name), currency.Format(in.NativeBalance, in.CurrencyCode), converted, rate)
	}
}

// RenderBreakdown writes a budget breakdown as markdown.
func RenderBreakdown(b *strings.Builder, res *dto.BudgetBreakdownResponse) {
	code := res.Budget.CurrencyCode
	fmt.Fprintf(b, "# %s (%04d-%02d)\n\n", res.Budget.Name, res.Budget.PeriodYear, res.Budget.PeriodMonth)
	fmt.Fprintf(b, "Spent **%s** of %s (%s%%), remaining %s\n\n",
		currency.Format(res.TotalSpent, code), currency.Format(res.Budget.LimitAmount, code),
		res.TotalPercentage.StringFixed(2), currency.Format(res.Remaining, code))
	if len(res.Items) == 0 {
		b.WriteString("No spending recorded.\n")
		return
	}
	b.WriteString("| Instrument | Spent | Transactions | % of limit |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, it := range res.Items {
		name := it.InstrumentName
		if it.IsLegacy {
			name = "_" + name + "_"
		}
		fmt.Fprintf(b, "| %s | %s | %d | %s |\n", cell(name), currency.Format(it.AmountSpent, code), it.TransactionCount, it.Percentage.StringFixed(2))
	}
}

// RenderRefresh writes a refresh run summary as markdown.
func RenderRefresh(b *strings.Builder, res *dto.RefreshRunResponse) {
	fmt.Fprintf(b, "# Rate refresh %s\n\n", res.Status)
	fmt.Fprintf(b, "- Run: `%s`\n", res.RunID)
	fmt.Fprintf(b, "- Anchor: %s\n", res.AnchorCurrency)
	fmt.Fprintf(b, "- Valid date: %s\n", res.ValidDate)
	fmt.Fprintf(b, "- Succeeded: %d\n", res.Succeeded)
	if len(res.Failed) > 0 {
		fmt.Fprintf(b, "- Failed: %s\n", strings.Join(res.Failed, ", "))
	}
	if !res.FinishedAt.IsZero() {
		fmt.Fprintf(b, "- Took: %s\n", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	}
}
