package model

// Action is the recommendation classification inferred from an analysis icon.
type Action string

const (
	ActionBuy        Action = "BUY"
	ActionSell       Action = "SELL"
	ActionKeep       Action = "KEEP"
	ActionTakeProfit Action = "TAKE_PROFIT"
)

// AssetSignal is one extracted recommendation row from the synthesis page.
// Signals are rebuilt wholesale on every extraction pass and never mutated.
type AssetSignal struct {
	Code      string
	Name      string
	Action    Action
	Potential float64 // analyst-estimated price movement, signed percent
}
