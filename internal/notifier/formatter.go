package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"FxHedger/internal/model"
)

// Disclaimer is appended to every report.
const Disclaimer = "Note: This calculation assumes a linear relationship between commodity and forex returns.\n" +
	"Hedging recommendations are based on historical data and may not reflect future market conditions."

// RatioString renders a ratio or coefficient to 4 decimal places.
func RatioString(v float64) string { return decimal.NewFromFloat(v).StringFixed(4) }

// AmountString renders a currency amount to 2 decimal places.
func AmountString(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }

// FormatReport formats a hedge result for the terminal.
func FormatReport(res *model.HedgeResult, currency string) string {
	var b strings.Builder

	b.WriteString("Results:\n")
	b.WriteString(fmt.Sprintf("Hedge Ratio: %s\n", RatioString(res.HedgeRatio)))
	b.WriteString(fmt.Sprintf("Recommended Forex Exposure for Hedging: %s %s\n", AmountString(res.RecommendedExposure), currency))
	b.WriteString(fmt.Sprintf("Correlation Between Commodity and Forex Returns: %s\n", RatioString(res.Correlation)))
	b.WriteString(fmt.Sprintf("Observations: %d shared trading days (%s)\n", res.Pair.Len(), dateSpan(res.Pair)))
	b.WriteString("\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

// FormatTelegram formats a hedge result as a Telegram HTML message.
func FormatTelegram(res *model.HedgeResult, currency string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🛡 <b>Hedge report</b> | %s vs %s\n\n",
		html.EscapeString(res.CommodityTicker), html.EscapeString(res.ForexTicker)))
	b.WriteString(fmt.Sprintf("Window: %s ~ %s\n",
		res.Start.Format(model.DateLayout), res.End.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Commodity exposure: %s %s\n\n", AmountString(res.Exposure), currency))

	b.WriteString(fmt.Sprintf("Hedge ratio: <b>%s</b>\n", RatioString(res.HedgeRatio)))
	b.WriteString(fmt.Sprintf("Forex exposure: <b>%s %s</b>\n", AmountString(res.RecommendedExposure), currency))
	b.WriteString(fmt.Sprintf("Correlation: %s\n", RatioString(res.Correlation)))
	b.WriteString(fmt.Sprintf("Observations: %d\n", res.Pair.Len()))
	return b.String()
}

func dateSpan(pair model.AlignedPair) string {
	if pair.Len() == 0 {
		return "none"
	}
	return pair.Dates[0].Format(model.DateLayout) + " ~ " + pair.Dates[pair.Len()-1].Format(model.DateLayout)
}
