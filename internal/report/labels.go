// Package report builds the plain-UTF-8 tool reports returned to the
// model: a closed status-label vocabulary, deterministic
// formatters, a size bound, and an anti-hallucination verification
// checkpoint footer.
package report

// Label is one of the closed set of bracketed status tokens. Adding a label
// means extending this list deliberately, not inventing one inline.
type Label string

// The full closed vocabulary.
const (
	LabelOK      Label = "[OK]"
	LabelWarn    Label = "[WARN]"
	LabelCrit    Label = "[CRIT]"
	LabelErr     Label = "[ERR]"
	LabelInfo    Label = "[INFO]"
	LabelUp      Label = "[UP]"
	LabelDown    Label = "[DN]"
	LabelAP      Label = "[AP]"
	LabelSwitch  Label = "[SW]"
	LabelGateway Label = "[GW]"
	LabelDevice  Label = "[DEV]"
	LabelStats   Label = "[STATS]"
	LabelTrend   Label = "[TREND]"
	LabelData    Label = "[DATA]"
	LabelNet     Label = "[NET]"
	LabelVPN     Label = "[VPN]"
	LabelSec     Label = "[SEC]"
	LabelHealth  Label = "[HEALTH]"
	LabelAsync   Label = "[ASYNC]"
)
