package fixgateway

import (
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

var sideMapping = map[string]enum.Side{
	model.SideBuy:  enum.Side_BUY,
	model.SideSell: enum.Side_SELL,
}

// settlementToExecutionReport maps a settlement to a FILLED execution
// report. Settled orders always leave the book entirely, so LeavesQty is 0
// even for a partially cleared size.
func settlementToExecutionReport(ev *model.SettlementEvent, req *NewOrderSingle) error {
	execReportMsg := executionreport.New(
		field.NewOrderID(ev.EventID),
		field.NewExecID(ev.EventID),
		field.NewExecType(enum.ExecType_TRADE),
		field.NewOrdStatus(enum.OrdStatus_FILLED),
		field.NewSide(sideMapping[ev.Side]),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(ev.Quantity, 0),
		field.NewAvgPx(ev.Price, 2),
	)

	execReportMsg.SetClOrdID(req.ClOrdID)
	execReportMsg.SetAccount(req.Account)
	execReportMsg.SetSymbol(ev.Symbol)
	execReportMsg.SetOrderQty(req.OrderQty, 0)
	execReportMsg.SetPrice(req.Price, 2)
	execReportMsg.SetTransactTime(ev.Timestamp)
	execReportMsg.SetLastQty(ev.Quantity, 0)
	execReportMsg.SetLastPx(ev.Price, 2)

	return quickfix.SendToTarget(execReportMsg, *req.SessionID)
}

// rejectReport maps a failed placement to a REJECTED execution report with
// the validation error as text.
func rejectReport(req *NewOrderSingle, cause error) *quickfix.Message {
	execReportMsg := executionreport.New(
		field.NewOrderID(req.ClOrdID),
		field.NewExecID(req.ClOrdID),
		field.NewExecType(enum.ExecType_REJECTED),
		field.NewOrdStatus(enum.OrdStatus_REJECTED),
		field.NewSide(req.Side),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 2),
	)

	execReportMsg.SetClOrdID(req.ClOrdID)
	execReportMsg.SetAccount(req.Account)
	execReportMsg.SetSymbol(req.Symbol)
	execReportMsg.SetOrderQty(req.OrderQty, 0)
	execReportMsg.SetText(cause.Error())

	return execReportMsg.ToMessage()
}
