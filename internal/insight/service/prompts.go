package service

import (
	"strings"
	"text/template"

	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
)

const schemaInstruction = `Respond with a single JSON object and nothing else, using exactly these keys:
{"summary": string, "savings_estimate": string, "recommendations": [string, ...], "risk_level": "low"|"medium"|"high"}`

var insightPrompt = template.Must(template.New("insight").Parse(
	`You advise Kenyan pay-as-you-go solar customers.
Household energy figures:
- Daily solar output: {{printf "%.1f" .DailyOutputKwh}} kWh
- Average battery level: {{printf "%.0f" .AverageBatteryPct}}%
- Monthly usage: {{printf "%.1f" .MonthlyUsageKwh}} kWh
- Balance due: KES {{.BalanceDue}} in {{.DaysUntilDue}} day(s)
- Wallet balance: KES {{.WalletBalance}}
- Outages in the last 30 days: {{.OutagesLast30Days}}
- Peak demand: {{printf "%.0f" .PeakDemandWatts}} W

Give a short insight on usage, savings, and payment risk.
` + schemaInstruction))

type devicePromptData struct {
	Count    int
	Readings []telemetrydomain.TelemetryReading
}

var devicePrompt = template.Must(template.New("device").Parse(
	`You advise Kenyan pay-as-you-go solar customers on device health.
Latest {{.Count}} telemetry samples (newest first):
{{range .Readings}}- {{.DeviceID}}: {{printf "%.0f" .OutputWatts}} W, battery {{printf "%.0f" .BatteryPercent}}%, {{printf "%.2f" .EnergyKwh}} kWh at {{.RecordedAt.Format "2006-01-02 15:04"}}
{{end}}
Flag anomalies and suggest maintenance steps.
` + schemaInstruction))

func renderInsightPrompt(kpis insightdomain.EnergyKPIs) (string, error) {
	var sb strings.Builder
	if err := insightPrompt.Execute(&sb, kpis); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderDevicePrompt(readings []telemetrydomain.TelemetryReading) (string, error) {
	var sb strings.Builder
	err := devicePrompt.Execute(&sb, devicePromptData{
		Count:    len(readings),
		Readings: readings,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
