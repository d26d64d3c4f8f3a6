package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders a decimal amount in the configured display
// currency, e.g. "1 250,50 Kč" for CZK.
func formatMoney(amount decimal.Decimal) string {
	code := money.CZK
	if app.cfg != nil {
		code = app.cfg.Currency
	}
	currency := money.GetCurrency(code)
	minor := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
